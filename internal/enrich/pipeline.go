package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/internal/discovery"
	"github.com/octobees/lead-enricher/internal/entity"
)

// Pipeline runs discovery followed by enrichment.
type Pipeline struct {
	provider     discovery.Provider
	orchestrator *Orchestrator
	logger       *zap.Logger
}

// NewPipeline wires a discovery provider to an orchestrator.
func NewPipeline(provider discovery.Provider, orchestrator *Orchestrator, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.L()
	}
	return &Pipeline{provider: provider, orchestrator: orchestrator, logger: logger}
}

// Run returns the enriched leads for one search. Only a discovery failure is
// returned as an error; every per-candidate problem is absorbed into the
// lead's completeness.
func (p *Pipeline) Run(ctx context.Context, params Params) ([]entity.Lead, error) {
	candidates, err := p.provider.Search(ctx, params.Query, params.Location, params.Country)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: discover candidates")
	}

	discovered := len(candidates)
	candidates = discovery.FilterByCompanyType(candidates, params.CompanyType)

	p.logger.Info("enriching candidates",
		zap.String("query", params.Query),
		zap.String("location", params.Location),
		zap.Int("discovered", discovered),
		zap.Int("after_company_type_filter", len(candidates)),
	)

	if len(candidates) == 0 {
		return []entity.Lead{}, nil
	}
	return p.orchestrator.Enrich(ctx, candidates, params), nil
}
