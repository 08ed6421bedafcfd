// Package person identifies a company's decision maker from web search results.
package person

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/pkg/langsearch"
)

const (
	maxEvidenceResults = 10
	sourceWebSearch    = "web-search"
)

// Result is the outcome of one person lookup. Name is nil when nobody could be
// identified; Evidence keeps the raw search text for auditing either way.
type Result struct {
	Name     *string
	Title    *string
	Source   *string
	Evidence string
}

// Finder looks up the person running a company.
type Finder interface {
	Find(ctx context.Context, company, location string) (Result, error)
}

// SearchFinder identifies people through a web search API.
type SearchFinder struct {
	client langsearch.Client
	logger *zap.Logger
}

// NewSearchFinder wires a SearchFinder to a web search client.
func NewSearchFinder(client langsearch.Client, logger *zap.Logger) *SearchFinder {
	if logger == nil {
		logger = zap.L()
	}
	return &SearchFinder{client: client, logger: logger}
}

// Query builds the search string for a company's leadership.
func Query(company, location string) string {
	return strings.TrimSpace(company+" "+location) + ` Geschäftsführer OR CEO OR Inhaber OR "managing director"`
}

// Find never fails: search errors are logged and reported as no match.
func (f *SearchFinder) Find(ctx context.Context, company, location string) (Result, error) {
	results, err := f.client.WebSearch(ctx, langsearch.Request{
		Query:     Query(company, location),
		Freshness: "noLimit",
		Summary:   true,
		Count:     maxEvidenceResults,
	})
	if err != nil {
		f.logger.Warn("person search failed", zap.String("company", company), zap.Error(err))
		return Result{}, nil
	}

	evidence := Evidence(results)
	res := Result{Evidence: evidence}
	if match, ok := ExtractName(evidence); ok {
		source := sourceWebSearch
		res.Name = &match.Name
		res.Source = &source
		if match.Title != "" {
			res.Title = &match.Title
		}
	}
	return res, nil
}

// Evidence joins the first results into one searchable block of text.
func Evidence(results []langsearch.Result) string {
	if len(results) > maxEvidenceResults {
		results = results[:maxEvidenceResults]
	}
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, r.Name+": "+r.Snippet+" "+r.Summary)
	}
	return strings.Join(lines, "\n")
}
