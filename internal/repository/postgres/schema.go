package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the form tables when they do not exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Forms + ` (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			document JSONB NOT NULL,
			page_count INTEGER NOT NULL DEFAULT 0,
			published_version INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Forms + `_updated_at
			ON ` + tables.Forms + ` (updated_at DESC)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.FormVersions + ` (
			form_id TEXT NOT NULL REFERENCES ` + tables.Forms + `(id) ON DELETE CASCADE,
			version INTEGER NOT NULL,
			document JSONB NOT NULL,
			published_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (form_id, version)
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops the form tables, children first
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+all[i]+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}
