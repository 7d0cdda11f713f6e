package main

import (
	"context"
	"log"
	"os"

	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/repository"

	"github.com/joho/godotenv"
)

// Drops the catalog table of the configured postgres backend.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.Environment == "prod" {
		log.Fatal("🚫 BLOCKED: Cannot drop the catalog table in production environment")
	}
	if cfg.StoreBackend != config.BackendPostgres {
		log.Fatalf("STORE_BACKEND is %q; only the postgres backend has a table to drop", cfg.StoreBackend)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	ctx := context.Background()
	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer backend.Close()

	if err := backend.Postgres.Drop(ctx); err != nil {
		log.Fatalf("Failed to drop table: %v", err)
	}
	log.Printf("✅ Dropped %s.%s", cfg.PGSchema, cfg.PGTable)
}
