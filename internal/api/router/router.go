package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sleepharmony/landing/internal/api/handlers"
	"github.com/sleepharmony/landing/internal/api/middleware"
	"github.com/sleepharmony/landing/internal/auth"
	"github.com/sleepharmony/landing/internal/config"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/metrics"
	"github.com/sleepharmony/landing/internal/pkg/tracing"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Registration *handlers.RegistrationHandler
	Welcome      *handlers.WelcomeHandler
	Admin        *handlers.AdminHandler
}

// New builds the HTTP handler. limiter may be nil to disable rate limiting.
func New(cfg *config.Config, log *logger.Logger, h *Handlers, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	if cfg.Server.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PublicCORS())

	// Operational routes
	r.Group(func(r chi.Router) {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())

		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
	})

	// Registration (public)
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Use(tracing.Middleware("register"))

		r.Post("/api/v1/register", h.Registration.Register)

		// Alias for the landing page client
		r.Post("/functions/v1/register-user", h.Registration.Register)
	})

	// Welcome email (service token)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireScope(cfg.Auth.Secret, auth.ScopeWelcomeSend))
		r.Use(tracing.Middleware("welcome-email"))

		r.Post("/api/v1/welcome-email", h.Welcome.Send)
		r.Post("/functions/v1/send-welcome-email", h.Welcome.Send)
	})

	// Operator endpoints
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.RequireScope(cfg.Auth.Secret, auth.ScopeAdmin))

		r.Get("/users", h.Admin.GetUser)
		r.Put("/users/{id}/subscription", h.Admin.UpdateSubscription)
	})

	return r
}
