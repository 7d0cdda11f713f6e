package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/C3604/ChronoAtlas/internal/auth"
	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"
	"github.com/C3604/ChronoAtlas/internal/repository"
	catalogService "github.com/C3604/ChronoAtlas/internal/service/catalog"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func main() {
	// Parse command-line flags
	file := flag.String("file", "", "YAML or JSON file of events to import ({mode, items})")
	mode := flag.String("mode", "", "Import mode override: merge or replace")
	reset := flag.Bool("reset", false, "Discard the stored catalog before seeding (fresh start)")
	tokenTTL := flag.Duration("token", 0, "Print a super admin token valid for this long (e.g. 24h)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *reset {
		log.Fatalf("🚫 BLOCKED: Cannot run --reset in production environment")
	}

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	ctx := context.Background()
	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer backend.Close()

	if *reset {
		resetter, ok := backend.Store.(repositories.DocumentResetter)
		if !ok {
			log.Fatalf("Store backend %s cannot be reset", cfg.StoreBackend)
		}
		log.Println("🗑️  Resetting catalog...")
		if err := resetter.Reset(ctx); err != nil {
			log.Fatalf("Failed to reset catalog: %v", err)
		}
		log.Println("✅ Catalog reset")
	}

	// Reading seeds an empty store with default tags and the bootstrap admin
	store := catalogService.NewStore(backend.Store, &catalogService.Seeder{
		AdminEmail:    cfg.BootstrapAdminEmail,
		AdminName:     cfg.BootstrapAdminName,
		AdminPassword: cfg.BootstrapAdminPassword,
		LegacyFile:    cfg.LegacyDataFile,
	}, logger)
	doc, err := store.Read(ctx)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	admin := superAdmin(doc)
	if admin == nil {
		log.Fatalf("Catalog has no super admin")
	}

	if *file != "" {
		req, err := readImportFile(*file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *file, err)
		}
		if *mode != "" {
			req.Mode = *mode
		}

		log.Printf("🌱 Importing %d events from %s (mode: %s)", len(req.Items), *file, req.Mode)
		result, err := catalogService.NewTransferService(store, logger).ImportEvents(ctx, admin, req)
		if err != nil {
			log.Fatalf("Failed to import events: %v", err)
		}
		log.Printf("✅ Imported %d events (%s)", result.Imported, result.Mode)
	}

	if *tokenTTL > 0 {
		verifier, err := auth.NewHMACVerifier(cfg.JWTSecret, auth.Options{Issuer: cfg.JWTIssuer, Audience: cfg.JWTAudience}, logger)
		if err != nil {
			log.Fatalf("Failed to create token issuer: %v", err)
		}
		token, err := verifier.Issue(admin, *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
	}
}

// readImportFile decodes an import request from a .json file, or YAML otherwise.
func readImportFile(path string) (*catalogSvc.ImportRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var req catalogSvc.ImportRequest
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &req)
	} else {
		err = yaml.Unmarshal(data, &req)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func superAdmin(doc *catalog.Document) *models.Actor {
	for _, u := range doc.Users {
		if models.NormalizeRole(u.Role) == models.RoleSuperAdmin {
			return &models.Actor{ID: u.ID, Email: u.Email, Name: u.Name, Role: models.RoleSuperAdmin}
		}
	}
	return nil
}
