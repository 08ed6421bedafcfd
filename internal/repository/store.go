package repository

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/octobees/lead-enricher/internal/config"
	"github.com/octobees/lead-enricher/internal/database"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverSupabase = "supabase"
	DriverMemory   = "memory"
)

// Open builds the store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case DriverPostgres, "":
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool), nil
	case DriverSQLite:
		return NewSQLite(cfg.Store.SQLitePath)
	case DriverSupabase:
		return NewSupabaseStore(cfg.Store.SupabaseURL, cfg.Store.SupabaseKey)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, eris.Errorf("repository: unknown store driver %q", cfg.Store.Driver)
	}
}
