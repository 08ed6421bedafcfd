// Package scoring rates how complete an enriched lead is.
package scoring

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	CategoryContact  = "contact_completeness"
	CategoryWebsite  = "website_quality"
	CategorySocial   = "social_presence"
	CategoryBusiness = "business_profile"
)

// Reviews needed before a rating counts towards the business profile.
const minReviews = 10

var freeHostingDomains = []string{
	"wordpress.com",
	"blogspot.com",
	"wixsite.com",
	"weebly.com",
	"jimdosite.com",
	"jimdofree.com",
	"squarespace.com",
	"business.site",
	"godaddysites.com",
	"notion.site",
}

// LeadFeatures captures the enrichment signals used for scoring.
type LeadFeatures struct {
	Emails           []string
	Phones           []string
	Socials          map[string]string
	HasContactPage   bool
	HasAboutPage     bool
	HasImprint       bool
	HasDecisionMaker bool
	Address          string
	Website          string
	Rating           *float64
	ReviewCount      *int
}

// ScoreResult reports the aggregate score (0-100) and the per-category breakdown.
type ScoreResult struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

// ComputeScore evaluates the provided features and returns the score breakdown.
func ComputeScore(input LeadFeatures) ScoreResult {
	breakdown := map[string]int{
		CategoryContact:  scoreContactCompleteness(input),
		CategoryWebsite:  scoreWebsiteQuality(input),
		CategorySocial:   scoreSocialPresence(input),
		CategoryBusiness: scoreBusinessProfile(input),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

func scoreContactCompleteness(input LeadFeatures) int {
	score := 0
	if hasValue(input.Emails) {
		score += 10
	}
	if hasValue(input.Phones) {
		score += 10
	}
	score += min(countSocialLinks(input.Socials)*2, 10)
	return min(score, 30)
}

func scoreWebsiteQuality(input LeadFeatures) int {
	if strings.TrimSpace(input.Website) == "" {
		return 0
	}
	score := 0
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(input.Website)), "https://") {
		score += 10
	}
	if input.HasContactPage {
		score += 10
	}
	if input.HasAboutPage {
		score += 5
	}
	if input.HasImprint {
		score += 5
	}
	return min(score, 30)
}

func scoreSocialPresence(input LeadFeatures) int {
	if len(input.Socials) == 0 {
		return 0
	}

	score := 0
	normalized := normalizeSocialKeys(input.Socials)
	if normalized["linkedin"] != "" || normalized["xing"] != "" {
		score += 5
	}
	if normalized["instagram"] != "" {
		score += 5
	}
	if normalized["facebook"] != "" {
		score += 5
	}
	if normalized["youtube"] != "" || normalized["tiktok"] != "" || normalized["twitter"] != "" {
		score += 5
	}
	return min(score, 20)
}

func scoreBusinessProfile(input LeadFeatures) int {
	score := 0
	if hasCompleteAddress(input.Address) {
		score += 5
	}
	if highQualityDomain(input.Website) {
		score += 5
	}
	if input.HasDecisionMaker {
		score += 5
	}
	if input.Rating != nil && input.ReviewCount != nil && *input.ReviewCount >= minReviews {
		score += 5
	}
	return min(score, 20)
}

func hasValue(values []string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}

func countSocialLinks(socials map[string]string) int {
	count := 0
	for _, link := range socials {
		if strings.TrimSpace(link) != "" {
			count++
		}
	}
	return count
}

func normalizeSocialKeys(socials map[string]string) map[string]string {
	result := make(map[string]string, len(socials))
	for key, value := range socials {
		normalizedKey := strings.ToLower(strings.TrimSpace(key))
		if normalizedKey == "" {
			continue
		}
		result[normalizedKey] = strings.TrimSpace(value)
	}
	return result
}

func hasCompleteAddress(raw string) bool {
	addr := strings.TrimSpace(raw)
	if len(addr) < 10 {
		return false
	}
	var hasLetter, hasDigit bool
	separatorCount := 0
	for _, r := range addr {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == ',':
			separatorCount++
		}
	}
	return hasLetter && hasDigit && separatorCount >= 1
}

func highQualityDomain(raw string) bool {
	domain := extractDomain(raw)
	if domain == "" {
		return false
	}
	for _, bad := range freeHostingDomains {
		if domain == bad || strings.HasSuffix(domain, "."+bad) {
			return false
		}
	}
	return strings.Count(domain, ".") >= 1
}

func extractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	if !strings.Contains(lowered, "://") {
		lowered = "https://" + lowered
	}
	parsed, err := url.Parse(lowered)
	if err != nil {
		return ""
	}
	host := strings.TrimSpace(strings.ToLower(parsed.Hostname()))
	return strings.TrimPrefix(host, "www.")
}
