package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/C3604/ChronoAtlas/internal/auth"
	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/handler"
	"github.com/C3604/ChronoAtlas/internal/middleware"
	"github.com/C3604/ChronoAtlas/internal/repository"
	catalogService "github.com/C3604/ChronoAtlas/internal/service/catalog"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
	)

	// Create token verifier
	verifier, err := newVerifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer verifier.Close()

	// Open document store
	ctx := context.Background()
	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer backend.Close()

	store := catalogService.NewStore(backend.Store, &catalogService.Seeder{
		AdminEmail:    cfg.BootstrapAdminEmail,
		AdminName:     cfg.BootstrapAdminName,
		AdminPassword: cfg.BootstrapAdminPassword,
		LegacyFile:    cfg.LegacyDataFile,
	}, logger)

	// Seed on startup so a broken store fails fast
	if _, err := store.Read(ctx); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Create services
	eventService := catalogService.NewEventService(store, logger)
	approvalService := catalogService.NewApprovalService(store, logger)
	queryService := catalogService.NewQueryService(store, logger)
	tagService := catalogService.NewTagService(store, logger)
	transferService := catalogService.NewTransferService(store, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, &handler.Handlers{
		Health: handler.NewHealthHandler(func(ctx context.Context) error {
			_, err := store.Read(ctx)
			return err
		}),
		Events:    handler.NewEventHandler(eventService, queryService, logger),
		Approvals: handler.NewApprovalHandler(approvalService, logger),
		Tags:      handler.NewTagHandler(tagService, logger),
		Transfer:  handler.NewTransferHandler(transferService, logger),
	})

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Logging → Recovery → Auth → Routes
	h = middleware.Auth(verifier, logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Shut down cleanly on SIGINT/SIGTERM
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newVerifier builds the token verifier from the configured secret and JWKS URL.
// With both configured, a token passes if either accepts it.
func newVerifier(cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	opts := auth.Options{Issuer: cfg.JWTIssuer, Audience: cfg.JWTAudience}

	var verifiers []auth.JWTVerifier
	if cfg.JWTSecret != "" {
		if cfg.JWTSecret == config.DevJWTSecret {
			logger.Warn("using the development JWT secret (NEVER use in production!)")
		}
		v, err := auth.NewHMACVerifier(cfg.JWTSecret, opts, logger)
		if err != nil {
			return nil, err
		}
		verifiers = append(verifiers, v)
	}
	if cfg.JWKSURL != "" {
		v, err := auth.NewJWKSVerifier(cfg.JWKSURL, opts, logger)
		if err != nil {
			return nil, err
		}
		verifiers = append(verifiers, v)
	}

	switch len(verifiers) {
	case 0:
		return nil, errors.New("no token verifier configured: set JWT_SECRET or JWKS_URL")
	case 1:
		return verifiers[0], nil
	default:
		return auth.NewChainVerifier(verifiers...), nil
	}
}
