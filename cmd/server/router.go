package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/creator-api/internal/api"
	apiMiddleware "github.com/phrazzld/creator-api/internal/api/middleware"
	"github.com/phrazzld/creator-api/internal/protocol"
)

// setupRouter creates and configures the application router with all routes
// and middleware. ctx bounds the rate limiter's background sweeper.
func (app *application) setupRouter(ctx context.Context) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)

	generationHandler := api.NewGenerationHandler(app.licenses, app.providers, app.config.Credits, app.metrics)
	licenseHandler := api.NewLicenseHandler(app.licenses)
	adminHandler := api.NewAdminHandler(app.authenticator, app.licenses)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/ai", func(r chi.Router) {
		r.Use(apiMiddleware.RequireLicenseKey)
		if rl := app.config.RateLimit; rl.RequestsPerSecond > 0 {
			limiter := apiMiddleware.NewRateLimiter(ctx, rl.RequestsPerSecond, rl.Burst)
			limiter.OnLimited = app.metrics.RecordRateLimited
			r.Use(limiter.Middleware)
		}
		r.Post("/generate", generationHandler.Generate)
		r.Post("/generate-image", generationHandler.GenerateImage)
	})

	r.Post(protocol.PathValidate, licenseHandler.Validate)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", adminHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/keys", adminHandler.IssueKey)
			r.Post("/keys/{id}/credit", adminHandler.TopUp)
		})
	})

	r.Handle("/metrics", app.metrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
