package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"formcraft/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds what every Postgres repository needs
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds the environment-prefixed table names
type TableNames struct {
	Forms        string
	FormVersions string
}

// NewTableNames prefixes every table name (dev_, test_, prod_)
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Forms:        prefix + "forms",
		FormVersions: prefix + "form_versions",
	}
}

// All returns the tables in dependency order, parents first
func (t *TableNames) All() []string {
	return []string{t.Forms, t.FormVersions}
}

// CreateConnectionPool opens and pings a pgx pool.
//
// Port 6543 is a transaction-mode PgBouncer pooler, which rejects prepared
// statements. Unless the connection string picked a mode explicitly, it is
// switched to cache_describe, which keeps the extended protocol (needed for
// JSONB parameters) without preparing statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1

	if cfg.ConnConfig.Port == 6543 && cfg.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried by ctx, or the pool when there is none
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}
