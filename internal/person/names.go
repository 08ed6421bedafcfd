package person

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxNameLength = 40

const (
	namePattern = `[A-ZÄÖÜ][a-zäöüß]+(?:\s+[A-ZÄÖÜ][a-zäöüß]+){1,2}`
	rolePattern = `(?i:Geschäftsführer(?:in)?|Geschaeftsfuehrer(?:in)?|CEO|Inhaber(?:in)?|Managing Director|Geschäftsleitung)`
)

type namePatternRule struct {
	re        *regexp.Regexp
	nameGroup int
	// titleGroup is zero when the pattern carries no academic title.
	titleGroup int
}

// nameRules are tried in order; the first acceptable match wins.
var nameRules = []namePatternRule{
	{re: regexp.MustCompile(rolePattern + `\s*(?::|ist|,)\s*(` + namePattern + `)`), nameGroup: 1},
	{re: regexp.MustCompile(`(` + namePattern + `)\s*(?:,\s*)?` + rolePattern), nameGroup: 1},
	{re: regexp.MustCompile(`\b(Mag|Dr|DI|Ing|Prof)\.?\s+(` + namePattern + `)`), nameGroup: 2, titleGroup: 1},
}

// Match is a person name pulled from free text.
type Match struct {
	Name  string
	Title string
}

// ExtractName looks for a decision maker's name in search-result text. It
// accepts the first candidate of two or more words and at most 40 characters.
func ExtractName(evidence string) (Match, bool) {
	for _, rule := range nameRules {
		for _, m := range rule.re.FindAllStringSubmatch(evidence, -1) {
			name := strings.Join(strings.Fields(m[rule.nameGroup]), " ")
			if len(strings.Fields(name)) < 2 || utf8.RuneCountInString(name) > maxNameLength {
				continue
			}
			match := Match{Name: name}
			if rule.titleGroup > 0 {
				match.Title = m[rule.titleGroup] + "."
			}
			return match, true
		}
	}
	return Match{}, false
}

// SplitName splits a full name into first and last name on the last space.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	i := strings.LastIndex(full, " ")
	if i < 0 {
		return "", full
	}
	return strings.TrimSpace(full[:i]), full[i+1:]
}
