package discovery

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/pkg/places"
)

const defaultMaxResults = 20

// PlacesProvider discovers businesses through the Google Places text search.
type PlacesProvider struct {
	client     places.Client
	language   string
	maxResults int
	logger     *zap.Logger
}

// NewPlacesProvider wraps a places client. maxResults falls back to 20.
func NewPlacesProvider(client places.Client, language string, maxResults int, logger *zap.Logger) *PlacesProvider {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if logger == nil {
		logger = zap.L()
	}
	return &PlacesProvider{client: client, language: language, maxResults: maxResults, logger: logger}
}

// Search returns the operational places with a website. Any API failure is
// returned as an error since nothing can be enriched without candidates.
func (p *PlacesProvider) Search(ctx context.Context, query, location, country string) ([]Candidate, error) {
	found, err := p.client.TextSearch(ctx, places.TextSearchRequest{
		TextQuery:      query + " in " + location,
		LanguageCode:   p.language,
		RegionCode:     strings.ToLower(country),
		MaxResultCount: p.maxResults,
	})
	if err != nil {
		return nil, eris.Wrap(err, "discovery: places text search")
	}

	candidates := make([]Candidate, 0, len(found))
	for _, place := range found {
		if place.WebsiteURI == "" || place.BusinessStatus != places.BusinessStatusOperational {
			continue
		}
		candidates = append(candidates, fromPlace(place))
	}

	p.logger.Info("places discovered",
		zap.String("query", query),
		zap.String("location", location),
		zap.Int("returned", len(found)),
		zap.Int("kept", len(candidates)),
	)
	return candidates, nil
}

func fromPlace(place places.Place) Candidate {
	return Candidate{
		PlaceID:            place.ID,
		Name:               place.DisplayName.Text,
		FormattedAddress:   place.FormattedAddress,
		NationalPhone:      place.NationalPhoneNumber,
		InternationalPhone: place.InternationalPhoneNumber,
		Website:            place.WebsiteURI,
		MapsURL:            place.GoogleMapsURI,
		Rating:             place.Rating,
		ReviewCount:        place.UserRatingCount,
		Types:              place.Types,
		BusinessStatus:     place.BusinessStatus,
		Source:             SourceGooglePlaces,
	}
}
