package enrich

import (
	"strings"

	"github.com/octobees/lead-enricher/internal/address"
	"github.com/octobees/lead-enricher/internal/discovery"
	"github.com/octobees/lead-enricher/internal/entity"
	"github.com/octobees/lead-enricher/internal/person"
	"github.com/octobees/lead-enricher/internal/service/scoring"
	"github.com/octobees/lead-enricher/internal/website"
)

// raw_data source tags.
const (
	SourceEnriched = "google-places+langsearch"
	SourceBasic    = "google-places-basic"
)

const previewRunes = 500

var genericMailboxes = []string{"info@", "office@", "kontakt@"}

// Merge fuses discovery, website and person data into one lead. signal is nil
// when the candidate has no website or nothing could be fetched.
func Merge(candidate discovery.Candidate, signal *website.Signal, found person.Result, params Params) entity.Lead {
	lead := baseLead(candidate, params)

	var emails, phones, pages []string
	var text string
	if signal != nil {
		emails, phones, pages, text = signal.Emails, signal.Phones, signal.PagesLoaded, signal.Text
	}

	lead.Email = bestEmail(emails)
	if lead.Phone == nil && len(phones) > 0 {
		lead.Phone = stringPtr(phones[0])
	}

	lead.SocialLinkedIn = signal.Social(website.LinkedIn)
	lead.SocialFacebook = signal.Social(website.Facebook)
	lead.SocialInstagram = signal.Social(website.Instagram)
	lead.SocialXing = signal.Social(website.Xing)
	lead.SocialTwitter = signal.Social(website.Twitter)
	lead.SocialYouTube = signal.Social(website.YouTube)
	lead.SocialTikTok = signal.Social(website.TikTok)

	if found.Name != nil {
		first, last := person.SplitName(*found.Name)
		lead.CEOName = found.Name
		lead.CEOFirstName = stringPtr(first)
		lead.CEOLastName = stringPtr(last)
		lead.CEOTitle = found.Title
		lead.CEOSource = found.Source
		lead.CEOGender = stringPtr(person.Salutation(first, found.Evidence))
	}

	score := scoring.ComputeScore(features(lead, signal))

	raw := baseRawData(candidate, SourceEnriched)
	raw["emails_found"] = nonNil(emails)
	raw["phones_found"] = nonNil(phones)
	raw["pages_loaded"] = nonNil(pages)
	raw["ceo_search_snippets"] = found.Evidence
	raw["website_content_preview"] = preview(text)
	raw["completeness"] = score
	if e164 := normalizePhone(deref(lead.Phone), deref(lead.Country)); e164 != "" {
		raw["phone_e164"] = e164
	}
	lead.RawData = raw

	return lead
}

// Basic builds a lead from discovery data alone, recording why enrichment
// was skipped.
func Basic(candidate discovery.Candidate, params Params, cause error) entity.Lead {
	lead := baseLead(candidate, params)
	raw := baseRawData(candidate, SourceBasic)
	if cause != nil {
		raw["error"] = cause.Error()
	}
	if e164 := normalizePhone(deref(lead.Phone), deref(lead.Country)); e164 != "" {
		raw["phone_e164"] = e164
	}
	lead.RawData = raw
	return lead
}

func baseLead(candidate discovery.Candidate, params Params) entity.Lead {
	parts := address.Parse(candidate.FormattedAddress, params.Country)

	lead := entity.Lead{
		Company:            companyName(candidate),
		Industry:           stringPtr(params.Query),
		Address:            stringPtr(candidate.FormattedAddress),
		Street:             parts.Street,
		PostalCode:         parts.PostalCode,
		City:               parts.City,
		Country:            stringPtr(parts.Country),
		Phone:              firstNonEmpty(candidate.InternationalPhone, candidate.NationalPhone),
		Website:            stringPtr(strings.TrimSuffix(strings.TrimSpace(candidate.Website), "/")),
		GooglePlaceID:      stringPtr(candidate.PlaceID),
		GoogleRating:       candidate.Rating,
		GoogleReviewsCount: candidate.ReviewCount,
		Status:             entity.LeadStatusNew,
		SearchQuery:        stringPtr(params.Query),
		SearchLocation:     stringPtr(params.Location),
	}
	if lead.City == nil {
		lead.City = stringPtr(params.Location)
	}
	if form, _ := discovery.LegalForm(lead.Company); form != "" {
		lead.LegalForm = &form
	}
	return lead
}

func baseRawData(candidate discovery.Candidate, source string) map[string]any {
	raw := map[string]any{
		"source":          source,
		"google_maps_url": stringPtr(candidate.MapsURL),
		"category":        strings.Join(candidate.Types, ", "),
	}
	if candidate.Source != "" {
		raw["discovery_provider"] = candidate.Source
	}
	return raw
}

func features(lead entity.Lead, signal *website.Signal) scoring.LeadFeatures {
	f := scoring.LeadFeatures{
		Address:          deref(lead.Address),
		Website:          deref(lead.Website),
		HasDecisionMaker: lead.CEOName != nil,
		Rating:           lead.GoogleRating,
		ReviewCount:      lead.GoogleReviewsCount,
		Socials:          map[string]string{},
	}
	if lead.Phone != nil {
		f.Phones = []string{*lead.Phone}
	}
	if signal == nil {
		return f
	}
	f.Emails = signal.Emails
	f.Phones = append(f.Phones, signal.Phones...)
	for platform, link := range signal.Socials {
		f.Socials[string(platform)] = link
	}
	f.HasContactPage = signal.HasPage(website.CategoryContact)
	f.HasAboutPage = signal.HasPage(website.CategoryAbout) || signal.HasPage(website.CategoryTeam)
	f.HasImprint = signal.HasPage(website.CategoryImpressum)
	return f
}

// bestEmail prefers a personal mailbox over generic ones.
func bestEmail(emails []string) *string {
	if len(emails) == 0 {
		return nil
	}
	for _, email := range emails {
		if !isGenericMailbox(email) {
			return stringPtr(email)
		}
	}
	return stringPtr(emails[0])
}

func isGenericMailbox(email string) bool {
	for _, prefix := range genericMailboxes {
		if strings.HasPrefix(email, prefix) {
			return true
		}
	}
	return false
}

func companyName(candidate discovery.Candidate) string {
	if name := strings.TrimSpace(candidate.Name); name != "" {
		return name
	}
	if candidate.PlaceID != "" {
		return candidate.PlaceID
	}
	return "unknown company"
}

func preview(text string) *string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) > previewRunes {
		text = string(runes[:previewRunes])
	}
	return &text
}
