package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geocoder89/workoutseed/internal/config"
	"github.com/geocoder89/workoutseed/internal/store"
	"github.com/geocoder89/workoutseed/internal/store/postgres"
	"github.com/geocoder89/workoutseed/internal/store/sqlstore"
)

func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)

	if err != nil {
		return nil, err
	}

	// a run holds one connection; the spare covers list-users after a seed
	cfg.MaxConns = 2

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)

	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)

	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Open connects the store backend named by cfg.DBDriver.
func Open(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		pool, err := NewPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.New(pool), nil
	case "sqlite", "mysql":
		st, err := sqlstore.Open(cfg.DBDriver, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedDriver, cfg.DBDriver)
	}
}
