// Package enrich turns discovered candidates into lead records.
package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/octobees/lead-enricher/internal/discovery"
	"github.com/octobees/lead-enricher/internal/entity"
	"github.com/octobees/lead-enricher/internal/person"
	"github.com/octobees/lead-enricher/internal/website"
)

const defaultConcurrency = 5

// Params carries the search inputs every lead inherits.
type Params struct {
	Query       string
	Location    string
	Country     string
	CompanyType string
}

// SiteExtractor gathers signals from a company website.
type SiteExtractor interface {
	Extract(ctx context.Context, baseURL string) (*website.Signal, bool)
}

// Orchestrator enriches candidates with website and person signals.
type Orchestrator struct {
	extractor   SiteExtractor
	finder      person.Finder
	concurrency int
	logger      *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConcurrency caps how many candidates are enriched at once.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrchestrator builds an Orchestrator.
func NewOrchestrator(extractor SiteExtractor, finder person.Finder, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		extractor:   extractor,
		finder:      finder,
		concurrency: defaultConcurrency,
		logger:      zap.L(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enrich returns one lead per candidate in candidate order. A failing
// candidate degrades to a basic lead and never affects the others.
func (o *Orchestrator) Enrich(ctx context.Context, candidates []discovery.Candidate, params Params) []entity.Lead {
	leads := make([]entity.Lead, len(candidates))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			leads[i] = o.enrichOne(ctx, candidate, params)
			return nil
		})
	}
	_ = g.Wait()

	return leads
}

func (o *Orchestrator) enrichOne(ctx context.Context, candidate discovery.Candidate, params Params) (lead entity.Lead) {
	logger := o.logger.With(zap.String("company", candidate.Name), zap.String("place_id", candidate.PlaceID))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("candidate enrichment panicked", zap.Any("panic", r))
			lead = Basic(candidate, params, eris.Errorf("enrich: panic: %v", r))
		}
	}()

	var (
		signal *website.Signal
		found  person.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverInto(&err)
		if candidate.Website == "" || o.extractor == nil {
			return nil
		}
		if s, ok := o.extractor.Extract(gctx, candidate.Website); ok {
			signal = s
		}
		return nil
	})
	g.Go(func() (err error) {
		defer recoverInto(&err)
		if o.finder == nil {
			return nil
		}
		found, err = o.finder.Find(gctx, candidate.Name, params.Location)
		return eris.Wrap(err, "enrich: find person")
	})

	if err := g.Wait(); err != nil {
		logger.Warn("candidate enrichment failed, keeping discovery data", zap.Error(err))
		return Basic(candidate, params, err)
	}
	return Merge(candidate, signal, found, params)
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = eris.Errorf("enrich: panic: %v", r)
	}
}
