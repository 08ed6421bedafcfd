package enrich

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/lead-enricher/internal/discovery"
	"github.com/octobees/lead-enricher/internal/entity"
	"github.com/octobees/lead-enricher/internal/person"
	"github.com/octobees/lead-enricher/internal/service/scoring"
	"github.com/octobees/lead-enricher/internal/website"
)

func ptr[T any](v T) *T { return &v }

func huberCandidate() discovery.Candidate {
	return discovery.Candidate{
		PlaceID:            "ChIJhuber",
		Name:               "Huber Steuerberatung GmbH",
		FormattedAddress:   "Stephansplatz 1, 1010 Wien, Österreich",
		NationalPhone:      "01 5123456",
		InternationalPhone: "+43 1 5123456",
		Website:            "https://huber-steuer.at/",
		MapsURL:            "https://maps.google.com/?cid=1",
		Rating:             ptr(4.8),
		ReviewCount:        ptr(57),
		Types:              []string{"accounting", "finance"},
		Source:             discovery.SourceGooglePlaces,
	}
}

var wienParams = Params{Query: "Steuerberater", Location: "Wien", Country: "AT"}

func TestMergeCombinesAllSources(t *testing.T) {
	signal := &website.Signal{
		Emails:      []string{"info@huber-steuer.at", "m.huber@huber-steuer.at"},
		Phones:      []string{"+4315123499"},
		Text:        "\n\n=== HOMEPAGE ===\nWillkommen bei Huber\n",
		PagesLoaded: []string{website.CategoryHomepage, website.CategoryImpressum, website.CategoryContact},
		Socials: map[website.Platform]string{
			website.LinkedIn: "https://www.linkedin.com/company/huber",
			website.Xing:     "https://www.xing.com/companies/huber",
		},
	}
	found := person.Result{
		Name:     ptr("Maria Huber"),
		Title:    ptr("Mag."),
		Source:   ptr("web-search"),
		Evidence: "Huber: Geschäftsführerin Mag. Maria Huber",
	}

	lead := Merge(huberCandidate(), signal, found, wienParams)

	assert.Equal(t, "Huber Steuerberatung GmbH", lead.Company)
	assert.Equal(t, "GmbH", *lead.LegalForm)
	assert.Equal(t, "Steuerberater", *lead.Industry)
	assert.Equal(t, "Stephansplatz 1", *lead.Street)
	assert.Equal(t, "1010", *lead.PostalCode)
	assert.Equal(t, "Wien", *lead.City)
	assert.Equal(t, "AT", *lead.Country)
	assert.Equal(t, "+43 1 5123456", *lead.Phone)
	assert.Equal(t, "m.huber@huber-steuer.at", *lead.Email)
	assert.Equal(t, "https://huber-steuer.at", *lead.Website)
	assert.Equal(t, "ChIJhuber", *lead.GooglePlaceID)
	assert.Equal(t, 57, *lead.GoogleReviewsCount)

	assert.Equal(t, "Maria Huber", *lead.CEOName)
	assert.Equal(t, "Maria", *lead.CEOFirstName)
	assert.Equal(t, "Huber", *lead.CEOLastName)
	assert.Equal(t, "Mag.", *lead.CEOTitle)
	assert.Equal(t, "web-search", *lead.CEOSource)
	assert.Equal(t, person.SalutationFrau, *lead.CEOGender)

	assert.Equal(t, "https://www.linkedin.com/company/huber", *lead.SocialLinkedIn)
	assert.Equal(t, "https://www.xing.com/companies/huber", *lead.SocialXing)
	assert.Nil(t, lead.SocialFacebook)

	assert.Equal(t, entity.LeadStatusNew, lead.Status)
	assert.Equal(t, "Steuerberater", *lead.SearchQuery)
	assert.Equal(t, "Wien", *lead.SearchLocation)

	raw := lead.RawData
	assert.Equal(t, SourceEnriched, raw["source"])
	assert.Equal(t, "accounting, finance", raw["category"])
	assert.Equal(t, signal.Emails, raw["emails_found"])
	assert.Equal(t, signal.Phones, raw["phones_found"])
	assert.Equal(t, signal.PagesLoaded, raw["pages_loaded"])
	assert.Equal(t, found.Evidence, raw["ceo_search_snippets"])
	assert.Equal(t, "+4315123456", raw["phone_e164"])
	assert.Equal(t, discovery.SourceGooglePlaces, raw["discovery_provider"])
	require.NotNil(t, raw["website_content_preview"])
	assert.Equal(t, "=== HOMEPAGE ===\nWillkommen bei Huber", *raw["website_content_preview"].(*string))

	score, ok := raw["completeness"].(scoring.ScoreResult)
	require.True(t, ok)
	assert.Greater(t, score.Total, 50)
}

func TestMergeWithoutWebsite(t *testing.T) {
	candidate := huberCandidate()
	candidate.Website = ""

	lead := Merge(candidate, nil, person.Result{}, wienParams)

	assert.Nil(t, lead.Website)
	assert.Nil(t, lead.Email)
	assert.Nil(t, lead.SocialLinkedIn)
	assert.Nil(t, lead.SocialFacebook)
	assert.Nil(t, lead.SocialInstagram)
	assert.Nil(t, lead.SocialXing)
	assert.Nil(t, lead.SocialTwitter)
	assert.Nil(t, lead.SocialYouTube)
	assert.Nil(t, lead.SocialTikTok)
	assert.Nil(t, lead.CEOName)
	assert.Equal(t, []string{}, lead.RawData["emails_found"])
	assert.Equal(t, []string{}, lead.RawData["phones_found"])

	assert.Equal(t, "Huber Steuerberatung GmbH", lead.Company)
	assert.Equal(t, "Stephansplatz 1, 1010 Wien, Österreich", *lead.Address)
	assert.InDelta(t, 4.8, *lead.GoogleRating, 0.001)
}

func TestMergePhoneFallbacks(t *testing.T) {
	candidate := huberCandidate()
	candidate.InternationalPhone = ""
	lead := Merge(candidate, nil, person.Result{}, wienParams)
	assert.Equal(t, "01 5123456", *lead.Phone)

	candidate.NationalPhone = ""
	lead = Merge(candidate, &website.Signal{Phones: []string{"+4366412345678"}}, person.Result{}, wienParams)
	assert.Equal(t, "+4366412345678", *lead.Phone)

	lead = Merge(candidate, &website.Signal{}, person.Result{}, wienParams)
	assert.Nil(t, lead.Phone)
	assert.NotContains(t, lead.RawData, "phone_e164")
}

func TestMergeCityFallsBackToLocation(t *testing.T) {
	candidate := huberCandidate()
	candidate.FormattedAddress = "Hauptplatz, Graz"

	lead := Merge(candidate, nil, person.Result{}, Params{Query: "Steuerberater", Location: "Graz", Country: "at"})

	assert.Nil(t, lead.PostalCode)
	assert.Equal(t, "Graz", *lead.City)
	assert.Equal(t, "AT", *lead.Country)
}

func TestBestEmail(t *testing.T) {
	cases := []struct {
		name   string
		emails []string
		want   *string
	}{
		{"empty", nil, nil},
		{"personal wins", []string{"office@a.at", "kontakt@a.at", "anna@a.at"}, ptr("anna@a.at")},
		{"only generic", []string{"info@a.at", "office@a.at"}, ptr("info@a.at")},
		{"first personal", []string{"x@a.at", "y@a.at"}, ptr("x@a.at")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, bestEmail(tc.emails))
		})
	}
}

func TestBasicLead(t *testing.T) {
	lead := Basic(huberCandidate(), wienParams, errors.New("boom"))

	assert.Equal(t, "Huber Steuerberatung GmbH", lead.Company)
	assert.Equal(t, "https://huber-steuer.at", *lead.Website)
	assert.Nil(t, lead.Email)
	assert.Nil(t, lead.CEOName)
	assert.Equal(t, SourceBasic, lead.RawData["source"])
	assert.Equal(t, "boom", lead.RawData["error"])
	assert.Equal(t, "accounting, finance", lead.RawData["category"])
}

func TestCompanyNameNeverEmpty(t *testing.T) {
	assert.Equal(t, "ChIJx", Basic(discovery.Candidate{PlaceID: "ChIJx"}, wienParams, nil).Company)
	assert.NotEmpty(t, Basic(discovery.Candidate{}, wienParams, nil).Company)
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		raw    string
		region string
		want   string
	}{
		{"+43 1 5123456", "AT", "+4315123456"},
		{"01 5123456", "AT", "+4315123456"},
		{"01 5123456", "", "+4315123456"},
		{"+49 30 12345678", "AT", "+493012345678"},
		{"not a number", "AT", ""},
		{"", "AT", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizePhone(tc.raw, tc.region), tc.raw)
	}
}
