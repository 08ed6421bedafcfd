// Package app wires configuration into the running search stack shared by
// the server and the CLI.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/octobees/lead-enricher/internal/config"
	"github.com/octobees/lead-enricher/internal/discovery"
	"github.com/octobees/lead-enricher/internal/enrich"
	"github.com/octobees/lead-enricher/internal/person"
	"github.com/octobees/lead-enricher/internal/repository"
	"github.com/octobees/lead-enricher/internal/service"
	"github.com/octobees/lead-enricher/internal/website"
	"github.com/octobees/lead-enricher/internal/worker"
	"github.com/octobees/lead-enricher/pkg/langsearch"
)

// Env holds the long-lived components of one process.
type Env struct {
	Store    repository.Store
	Pipeline *enrich.Pipeline
	Pool     *worker.Pool
	Search   *service.SearchService
}

// Options tune what New builds.
type Options struct {
	// Background starts a worker pool and, when configured, the webhook.
	Background bool
	// Store replaces the store selected by configuration.
	Store repository.Store
}

// New opens the store, applies migrations and builds the search service.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Env, error) {
	logger := zap.L()

	st := opts.Store
	if st == nil {
		var err error
		st, err = repository.Open(ctx, cfg)
		if err != nil {
			return nil, eris.Wrap(err, "app: open store")
		}
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "app: migrate store")
	}

	pipeline, err := NewPipeline(cfg.Scraper, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	env := &Env{Store: st, Pipeline: pipeline}
	searchOpts := []service.SearchOption{
		service.WithDefaultCountry(cfg.Scraper.DefaultCountry),
		service.WithStaleAfter(cfg.Watchdog.StaleAfter),
		service.WithSearchLogger(logger),
	}

	var pool service.TaskSubmitter
	if opts.Background {
		env.Pool = worker.NewPool(cfg.Worker.Count, cfg.Worker.QueueSize, logger)
		pool = env.Pool

		if cfg.Webhook.URL != "" {
			hook, err := worker.NewWebhookClient(nil, cfg.Webhook.URL)
			if err != nil {
				_ = env.Close(ctx)
				return nil, err
			}
			searchOpts = append(searchOpts, service.WithWebhook(hook))
			logger.Info("searches are handed to the workflow webhook", zap.String("url", cfg.Webhook.URL))
		}
	}

	env.Search = service.NewSearchService(st, pipeline, pool, searchOpts...)
	return env, nil
}

// NewPipeline builds discovery and enrichment from scraper settings.
func NewPipeline(cfg config.ScraperConfig, logger *zap.Logger) (*enrich.Pipeline, error) {
	provider, err := discovery.NewProvider(cfg, logger)
	if err != nil {
		return nil, eris.Wrap(err, "app: discovery provider")
	}

	extractor := website.NewExtractor(
		website.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		website.WithPageTimeout(cfg.PageTimeout),
		website.WithLogger(logger),
	)

	orchestrator := enrich.NewOrchestrator(extractor, NewFinder(cfg, logger),
		enrich.WithConcurrency(cfg.EnrichConcurrency),
		enrich.WithLogger(logger),
	)
	return enrich.NewPipeline(provider, orchestrator, logger), nil
}

// NewFinder returns the web-search finder when a key is configured. Without
// one, only the mock provider gets synthetic decision makers; anything else
// gets none.
func NewFinder(cfg config.ScraperConfig, logger *zap.Logger) person.Finder {
	if cfg.LangSearchAPIKey == "" {
		if cfg.Provider == discovery.ProviderMock || cfg.Provider == "" {
			logger.Info("LANGSEARCH_API_KEY not set, decision makers are synthesised offline")
			return person.MockFinder{}
		}
		logger.Warn("LANGSEARCH_API_KEY not set, decision makers are left empty", zap.String("provider", cfg.Provider))
		return person.NoFinder{}
	}
	var opts []langsearch.Option
	if cfg.LangSearchRate.Requests > 0 {
		opts = append(opts, langsearch.WithRateLimit(cfg.LangSearchRate.Requests, cfg.LangSearchRate.Interval))
	}
	return person.NewSearchFinder(langsearch.NewClient(cfg.LangSearchAPIKey, opts...), logger)
}

// Close drains the pool and closes the store.
func (e *Env) Close(ctx context.Context) error {
	var poolErr error
	if e.Pool != nil {
		poolErr = e.Pool.Shutdown(ctx)
	}
	storeErr := e.Store.Close()
	if poolErr != nil {
		return eris.Wrap(poolErr, "app: drain worker pool")
	}
	return storeErr
}
