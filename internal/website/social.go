package website

import (
	"regexp"
	"strings"
)

// Platform names a social network recognised by the extractor.
type Platform string

const (
	LinkedIn  Platform = "linkedin"
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	Xing      Platform = "xing"
	Twitter   Platform = "twitter"
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
)

// Platforms lists every supported network in extraction order.
var Platforms = []Platform{LinkedIn, Facebook, Instagram, Xing, Twitter, YouTube, TikTok}

type socialRule struct {
	pattern *regexp.Regexp
	// excluded first path segments that point at share dialogs or posts, not profiles.
	excluded []string
}

var socialRules = map[Platform]socialRule{
	LinkedIn: {
		pattern: regexp.MustCompile(`(?i)https?://(?:[a-z]{2,3}\.)?linkedin\.com/(?:company|in)/[^\s"'<>]+`),
	},
	Facebook: {
		pattern:  regexp.MustCompile(`(?i)https?://(?:m\.|[a-z]{2,3}\.)?facebook\.com/[^\s"'<>]+`),
		excluded: []string{"sharer", "sharer.php", "share", "share.php", "dialog", "plugins", "tr"},
	},
	Instagram: {
		pattern:  regexp.MustCompile(`(?i)https?://(?:[a-z]{2,3}\.)?instagram\.com/[^\s"'<>]+`),
		excluded: []string{"p", "reel", "explore"},
	},
	Xing: {
		pattern: regexp.MustCompile(`(?i)https?://(?:www\.)?xing\.com/(?:profile|companies)/[^\s"'<>]+`),
	},
	Twitter: {
		pattern:  regexp.MustCompile(`(?i)https?://(?:m\.|[a-z]{2,3}\.)?(?:twitter|x)\.com/[^\s"'<>]+`),
		excluded: []string{"intent", "share", "home"},
	},
	YouTube: {
		pattern: regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/(?:channel/|c/|user/|@)[^\s"'<>]+`),
	},
	TikTok: {
		pattern: regexp.MustCompile(`(?i)https?://(?:www\.)?tiktok\.com/@[^\s"'<>]+`),
	},
}

// ExtractSocials returns the first profile URL per platform found in document.
func ExtractSocials(document string) map[Platform]string {
	found := make(map[Platform]string)
	for _, platform := range Platforms {
		if link, ok := firstProfileLink(socialRules[platform], document); ok {
			found[platform] = link
		}
	}
	return found
}

func firstProfileLink(rule socialRule, document string) (string, bool) {
	for _, match := range rule.pattern.FindAllString(document, -1) {
		link := cleanSocialLink(match)
		if isExcludedPath(link, rule.excluded) {
			continue
		}
		return link, true
	}
	return "", false
}

func cleanSocialLink(raw string) string {
	if i := strings.IndexAny(raw, "\"'?#"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimRight(raw, `.,;)\`)
}

func isExcludedPath(link string, excluded []string) bool {
	if len(excluded) == 0 {
		return false
	}
	rest := link
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return true
	}
	segment := strings.ToLower(strings.SplitN(rest[slash+1:], "/", 2)[0])
	if segment == "" {
		return true
	}
	for _, ex := range excluded {
		if segment == ex {
			return true
		}
	}
	return false
}
