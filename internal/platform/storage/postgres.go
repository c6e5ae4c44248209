package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/ridloal/e-commerce-storefront/internal/platform/logger"
)

// PostgresStorage keeps every key in a single two-column table.
type PostgresStorage struct {
	db        *sql.DB
	namespace string

	getQuery    string
	upsertQuery string
	deleteQuery string
	schemaQuery string
}

func NewPostgresStorage(db *sql.DB, table, namespace string) *PostgresStorage {
	t := pq.QuoteIdentifier(table)
	return &PostgresStorage{
		db:          db,
		namespace:   namespace,
		getQuery:    `SELECT value FROM ` + t + ` WHERE key = $1`,
		upsertQuery: `INSERT INTO ` + t + ` (key, value, updated_at) VALUES ($1, $2, NOW()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		deleteQuery: `DELETE FROM ` + t + ` WHERE key = $1`,
		schemaQuery: `CREATE TABLE IF NOT EXISTS ` + t + ` (key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`,
	}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (p *PostgresStorage) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, p.schemaQuery); err != nil {
		logger.Error("EnsureSchema: create table failed", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx, p.getQuery, namespaced(p.namespace, key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		logger.Error("PostgresStorage.Get: query failed for key %s", err, key)
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresStorage) Set(ctx context.Context, key, value string) error {
	if _, err := p.db.ExecContext(ctx, p.upsertQuery, namespaced(p.namespace, key), value); err != nil {
		logger.Error("PostgresStorage.Set: upsert failed for key %s", err, key)
		return err
	}
	return nil
}

func (p *PostgresStorage) Remove(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, p.deleteQuery, namespaced(p.namespace, key)); err != nil {
		logger.Error("PostgresStorage.Remove: delete failed for key %s", err, key)
		return err
	}
	return nil
}
