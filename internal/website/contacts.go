package website

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+[1-9]\d{0,2}|0)[\s\d\-/()]{7,20}`)
	phoneStrip   = regexp.MustCompile(`[\s\-/()]`)
	idnaProfile  = idna.Lookup
)

// emailNoise marks matches that are placeholders, bounce addresses, tracking
// endpoints or image file names rather than real mailboxes.
var emailNoise = []string{
	"example",
	"noreply",
	"no-reply",
	"wixpress",
	"sentry",
	"@2x",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".svg",
	".webp",
}

// ExtractEmails returns the distinct, lowercased email addresses found in
// document, in order of first appearance.
func ExtractEmails(document string) []string {
	var emails []string
	seen := make(map[string]struct{})

	for _, raw := range emailPattern.FindAllString(document, -1) {
		email := strings.ToLower(raw)
		if isEmailNoise(email) {
			continue
		}
		at := strings.LastIndex(email, "@")
		domain, err := idnaProfile.ToASCII(email[at+1:])
		if err != nil || domain == "" {
			continue
		}
		email = email[:at+1] + domain
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	return emails
}

func isEmailNoise(email string) bool {
	for _, noise := range emailNoise {
		if strings.Contains(email, noise) {
			return true
		}
	}
	return false
}

// ExtractPhones returns the distinct phone-shaped substrings of document with
// spaces, dashes, slashes and parentheses removed.
func ExtractPhones(document string) []string {
	var phones []string
	seen := make(map[string]struct{})

	for _, raw := range phonePattern.FindAllString(document, -1) {
		phone := phoneStrip.ReplaceAllString(raw, "")
		if phone == "" {
			continue
		}
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}
		phones = append(phones, phone)
	}
	return phones
}
