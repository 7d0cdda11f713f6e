package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/C3604/ChronoAtlas/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Table  *TableName
	Logger *slog.Logger
}

// TableName is a schema-qualified table name.
type TableName struct {
	Schema string
	Table  string
}

// NewTableName creates a table name in the given schema
func NewTableName(schema, table string) *TableName {
	return &TableName{Schema: schema, Table: table}
}

// Quoted returns the name quoted for interpolation into SQL.
// Identifiers cannot be bound as query parameters.
func (t *TableName) Quoted() string {
	return pgx.Identifier{t.Schema, t.Table}.Sanitize()
}

// QuotedSchema returns the schema name quoted for SQL.
func (t *TableName) QuotedSchema() string {
	return pgx.Identifier{t.Schema}.Sanitize()
}

// CreateConnectionPool creates a new pgx connection pool with automatic PgBouncer compatibility.
//
// PgBouncer in transaction pooling mode (port 6543 on Supabase) does not support
// prepared statements. On that port the pool switches to QueryExecModeCacheDescribe,
// which keeps the extended protocol for jsonb parameters without preparing
// statements. An explicit default_query_exec_mode in the URL takes precedence.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// One document row; a small pool is plenty
	config.MaxConns = 10
	config.MinConns = 1

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction.
// Otherwise, it returns the provided pool.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
