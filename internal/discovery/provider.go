// Package discovery finds candidate businesses for a search.
package discovery

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/internal/config"
	"github.com/octobees/lead-enricher/pkg/places"
)

// Provider names accepted in configuration.
const (
	ProviderGoogle = "google"
	ProviderMock   = "mock"
)

const (
	SourceGooglePlaces = "google-places"
	SourceMock         = "mock"
)

// Candidate is a business found by a provider, before enrichment.
type Candidate struct {
	PlaceID            string
	Name               string
	FormattedAddress   string
	NationalPhone      string
	InternationalPhone string
	Website            string
	MapsURL            string
	Rating             *float64
	ReviewCount        *int
	Types              []string
	BusinessStatus     string
	// Source names the provider that produced the candidate.
	Source string
}

// Provider discovers candidate businesses for a query in a location.
type Provider interface {
	Search(ctx context.Context, query, location, country string) ([]Candidate, error)
}

// NewProvider builds the provider selected in cfg.
func NewProvider(cfg config.ScraperConfig, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.L()
	}
	switch cfg.Provider {
	case ProviderGoogle:
		if cfg.PlacesAPIKey == "" {
			return nil, eris.New("discovery: GOOGLE_PLACES_API_KEY is required for the google provider")
		}
		// Real companies need a real person search; the offline finder would invent names.
		if cfg.LangSearchAPIKey == "" {
			return nil, eris.New("discovery: LANGSEARCH_API_KEY is required for the google provider")
		}
		client := places.NewClient(cfg.PlacesAPIKey)
		return NewPlacesProvider(client, cfg.PlacesLanguage, cfg.PlacesMaxResults, logger), nil
	case ProviderMock, "":
		return NewMockProvider(uint64(time.Now().UnixNano()), cfg.MockDelay), nil
	default:
		return nil, eris.Errorf("discovery: unknown provider %q", cfg.Provider)
	}
}
