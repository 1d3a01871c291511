package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/pit-analytics/shelter-cli/internal/cluster"
	"github.com/pit-analytics/shelter-cli/internal/store"
)

// initStore opens the configured backend and runs migrations. Callers
// own the returned store and must Close it.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "shelter.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func clusterOptions() cluster.Options {
	return cluster.Options{Seed: cfg.Cluster.Seed, Restarts: cfg.Cluster.Restarts}
}
