// Package repository selects the document store backend named by config.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"
	"github.com/C3604/ChronoAtlas/internal/repository/file"
	"github.com/C3604/ChronoAtlas/internal/repository/memory"
	"github.com/C3604/ChronoAtlas/internal/repository/postgres"
	redisrepo "github.com/C3604/ChronoAtlas/internal/repository/redis"
)

// Backend is an opened document store plus the cleanup for its connections.
type Backend struct {
	Store repositories.DocumentStore
	Close func()

	// Postgres is set for the postgres backend so callers can drop the table.
	Postgres *postgres.DocumentStore
}

// Open connects the document store selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return &Backend{Store: memory.NewDocumentStore(), Close: noop}, nil

	case config.BackendFile:
		logger.Info("using file store", "path", cfg.DataFile)
		return &Backend{Store: file.NewDocumentStore(cfg.DataFile), Close: noop}, nil

	case config.BackendPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store := postgres.NewDocumentStore(&postgres.RepositoryConfig{
			Pool:   pool,
			Table:  postgres.NewTableName(cfg.PGSchema, cfg.PGTable),
			Logger: logger,
		})
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("database connected",
			"schema", cfg.PGSchema,
			"table", cfg.PGTable,
		)
		return &Backend{Store: store, Close: pool.Close, Postgres: store}, nil

	case config.BackendRedis:
		client, err := redisrepo.NewClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		logger.Info("redis connected", "addr", cfg.RedisAddr, "key", cfg.RedisKey)
		return &Backend{
			Store: redisrepo.NewDocumentStore(client, cfg.RedisKey, logger),
			Close: func() {
				if err := client.Close(); err != nil {
					logger.Warn("failed to close redis client", "error", err)
				}
			},
		}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
