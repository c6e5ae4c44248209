package storage

import (
	"context"
	"fmt"

	"github.com/ridloal/e-commerce-storefront/internal/platform/config"
	"github.com/ridloal/e-commerce-storefront/internal/platform/database"
)

// Open builds the backend selected by cfg. The returned close func is never nil.
func Open(ctx context.Context, cfg config.StorageConfig) (Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.StorageMemory, "":
		return NewMemoryStorage(), noop, nil
	case config.StorageRedis:
		rs, err := DialRedis(ctx, cfg.RedisURL, cfg.Namespace)
		if err != nil {
			return nil, noop, err
		}
		return rs, rs.Close, nil
	case config.StoragePostgres:
		db, err := database.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		ps := NewPostgresStorage(db, cfg.PostgresTable, cfg.Namespace)
		if err := ps.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("failed to prepare storage table: %w", err)
		}
		return ps, db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
