package discovery

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/internal/config"
	"github.com/octobees/lead-enricher/pkg/places"
)

type stubPlaces struct {
	got    places.TextSearchRequest
	places []places.Place
	err    error
}

func (s *stubPlaces) TextSearch(_ context.Context, req places.TextSearchRequest) ([]places.Place, error) {
	s.got = req
	return s.places, s.err
}

func TestPlacesProviderFiltersCandidates(t *testing.T) {
	rating := 4.6
	stub := &stubPlaces{places: []places.Place{
		{ID: "a", DisplayName: places.DisplayName{Text: "Huber GmbH"}, WebsiteURI: "https://huber.at", BusinessStatus: places.BusinessStatusOperational, Rating: &rating},
		{ID: "b", DisplayName: places.DisplayName{Text: "No Site OG"}, BusinessStatus: places.BusinessStatusOperational},
		{ID: "c", DisplayName: places.DisplayName{Text: "Closed KG"}, WebsiteURI: "https://closed.at", BusinessStatus: "CLOSED_PERMANENTLY"},
	}}

	provider := NewPlacesProvider(stub, "de", 0, zap.NewNop())
	got, err := provider.Search(context.Background(), "Steuerberater", "Wien", "AT")
	require.NoError(t, err)

	assert.Equal(t, "Steuerberater in Wien", stub.got.TextQuery)
	assert.Equal(t, "de", stub.got.LanguageCode)
	assert.Equal(t, "at", stub.got.RegionCode)
	assert.Equal(t, 20, stub.got.MaxResultCount)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].PlaceID)
	assert.Equal(t, "Huber GmbH", got[0].Name)
	assert.Equal(t, "https://huber.at", got[0].Website)
	require.NotNil(t, got[0].Rating)
	assert.InDelta(t, 4.6, *got[0].Rating, 0.001)
}

func TestPlacesProviderPropagatesErrors(t *testing.T) {
	stub := &stubPlaces{err: &places.StatusError{StatusCode: http.StatusForbidden, Body: "API key invalid"}}

	_, err := NewPlacesProvider(stub, "de", 5, zap.NewNop()).Search(context.Background(), "x", "y", "AT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key invalid")

	var statusErr *places.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
}

func TestMockProviderGeneratesCandidates(t *testing.T) {
	provider := NewMockProvider(42, 0)

	got, err := provider.Search(context.Background(), "Zahnarzt", "Graz", "AT")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 5)
	require.LessOrEqual(t, len(got), 10)

	for _, c := range got {
		assert.Empty(t, c.Website)
		assert.Contains(t, firmPrefixes["zahnarzt"], c.Name[:len(c.Name)-len(lastWord(c.Name))-1])
		assert.Contains(t, c.FormattedAddress, ", 80")
		assert.Contains(t, c.FormattedAddress, " Graz")
		assert.Regexp(t, `^\+43 `, c.InternationalPhone)
		require.NotNil(t, c.Rating)
		assert.GreaterOrEqual(t, *c.Rating, 3.0)
		assert.LessOrEqual(t, *c.Rating, 5.0)
		assert.Regexp(t, `^ChIJ\d{9}$`, c.PlaceID)
	}
}

func TestMockProviderIsDeterministicPerSeed(t *testing.T) {
	a, err := NewMockProvider(7, 0).Search(context.Background(), "Bäckerei", "Linz", "DE")
	require.NoError(t, err)
	b, err := NewMockProvider(7, 0).Search(context.Background(), "Bäckerei", "Linz", "DE")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Regexp(t, `^\+49 `, a[0].InternationalPhone)
}

func TestMockProviderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockProvider(1, time.Hour).Search(ctx, "x", "y", "AT")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectIndustry(t *testing.T) {
	cases := map[string]string{
		"Steuerberater":       "steuerberater",
		"Wirtschaftstreuhand": "steuerberater",
		"Rechtsanwalt":        "rechtsanwalt",
		"Dental Praxis":       "zahnarzt",
		"Elektriker":          "handwerker",
		"Gasthaus am See":     "restaurant",
		"Softwareentwicklung": "default",
	}
	for query, want := range cases {
		assert.Equal(t, want, detectIndustry(query), query)
	}
}

func TestLegalForm(t *testing.T) {
	cases := []struct {
		name     string
		wantForm string
		wantType string
	}{
		{"Huber Holding GmbH & Co KG", "GmbH & Co KG", CompanyTypeGmbHCoKG},
		{"Huber GmbH & Co. KG", "GmbH & Co KG", CompanyTypeGmbHCoKG},
		{"Gruber Steuerberatung GmbH", "GmbH", CompanyTypeGmbH},
		{"Wagner Ges.m.b.H.", "GmbH", CompanyTypeGmbH},
		{"Alpen Bau AG", "AG", CompanyTypeAG},
		{"Moser & Partner OG", "OG", CompanyTypeOG},
		{"Fuchs KG", "KG", CompanyTypeKG},
		{"Eder e.U.", "e.U.", CompanyTypeEU},
		{"Kanzlei Berger", "", ""},
		{"Agentur Weber", "", ""},
	}
	for _, tc := range cases {
		form, ct := LegalForm(tc.name)
		assert.Equal(t, tc.wantForm, form, tc.name)
		assert.Equal(t, tc.wantType, ct, tc.name)
	}
}

func TestFilterByCompanyType(t *testing.T) {
	candidates := []Candidate{{Name: "A GmbH"}, {Name: "B OG"}, {Name: "C GmbH & Co KG"}, {Name: "D"}}

	assert.Len(t, FilterByCompanyType(candidates, ""), 4)
	assert.Len(t, FilterByCompanyType(candidates, CompanyTypeAll), 4)

	gmbh := FilterByCompanyType(candidates, "GmbH")
	require.Len(t, gmbh, 1)
	assert.Equal(t, "A GmbH", gmbh[0].Name)

	cokg := FilterByCompanyType(candidates, CompanyTypeGmbHCoKG)
	require.Len(t, cokg, 1)
	assert.Equal(t, "C GmbH & Co KG", cokg[0].Name)
}

func TestValidCompanyType(t *testing.T) {
	for _, ct := range []string{"all", "gmbh", "eu", "ag", "og", "kg", "gmbh_cokg"} {
		assert.True(t, ValidCompanyType(ct), ct)
	}
	assert.False(t, ValidCompanyType("ltd"))
	assert.False(t, ValidCompanyType(""))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.ScraperConfig{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MockProvider{}, p)

	_, err = NewProvider(config.ScraperConfig{Provider: "google"}, nil)
	assert.Error(t, err)

	_, err = NewProvider(config.ScraperConfig{Provider: "google", PlacesAPIKey: "k"}, zap.NewNop())
	assert.ErrorContains(t, err, "LANGSEARCH_API_KEY")

	p, err = NewProvider(config.ScraperConfig{Provider: "google", PlacesAPIKey: "k", LangSearchAPIKey: "ls"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &PlacesProvider{}, p)

	_, err = NewProvider(config.ScraperConfig{Provider: "bing"}, nil)
	assert.Error(t, err)
}

func lastWord(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' {
			return s[i+1:]
		}
	}
	return s
}
