package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/creator-api/internal/config"
	"github.com/phrazzld/creator-api/internal/generation"
	"github.com/phrazzld/creator-api/internal/platform/gemini"
	"github.com/phrazzld/creator-api/internal/platform/metrics"
	"github.com/phrazzld/creator-api/internal/platform/postgres"
	"github.com/phrazzld/creator-api/internal/service"
	"github.com/phrazzld/creator-api/internal/service/auth"
)

// providerGemini is the registry name of the Gemini generator.
const providerGemini = "gemini"

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Collector

	jwtService    auth.JWTService
	authenticator *auth.AdminAuthenticator
	licenses      service.LicenseService
	providers     *generation.Registry
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		db:        db,
		metrics:   metrics.NewCollector(),
		providers: generation.NewRegistry(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.authenticator = auth.NewAdminAuthenticator(cfg.Auth.AdminPasswordHash, auth.NewBcryptVerifier(), app.jwtService)
	logger.Info("Admin authentication initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	keyStore := postgres.NewPostgresLicenseKeyStore(db, logger)
	app.licenses, err = service.NewLicenseService(keyStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create license service: %w", err)
	}

	gen, err := gemini.NewGenerator(ctx, logger.With("component", "llm_generator"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	app.providers.Register(providerGemini, gen)
	logger.Info("LLM providers registered", "providers", app.providers.Names())

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter(ctx)
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
