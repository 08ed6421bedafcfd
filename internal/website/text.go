package website

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var skippedElements = map[string]struct{}{
	"head":     {},
	"script":   {},
	"style":    {},
	"nav":      {},
	"footer":   {},
	"noscript": {},
	"template": {},
}

// VisibleText returns the human-readable text of an HTML document with
// script, style, navigation and footer blocks removed and whitespace collapsed.
func VisibleText(document string) string {
	doc, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skippedElements[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(b.String()), " ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
