package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/sleepharmony/landing/docs"
	"github.com/sleepharmony/landing/internal/api/dto"
	"github.com/sleepharmony/landing/internal/api/handlers"
	"github.com/sleepharmony/landing/internal/api/middleware"
	"github.com/sleepharmony/landing/internal/api/router"
	"github.com/sleepharmony/landing/internal/auth"
	"github.com/sleepharmony/landing/internal/config"
	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/mailer"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/tracing"
	"github.com/sleepharmony/landing/internal/pkg/validator"
	"github.com/sleepharmony/landing/internal/repository/postgres"
	"github.com/sleepharmony/landing/internal/services"
	"github.com/sleepharmony/landing/internal/templates"
	"github.com/sleepharmony/landing/internal/worker"
	"github.com/sleepharmony/landing/pkg/client"
)

// @title Sleep Harmony API
// @version 1.0
// @description Registration and welcome email endpoints behind the Sleep Harmony landing page.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Level: "error", Format: "console", OutputPath: "stderr"}).
			Fatalf("Failed to load config: %v", err)
	}

	log := logger.Init(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		log.WarnWithErr(err, "Tracing disabled")
	}

	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := postgres.NewUserRepository(db)
	qualifications := postgres.NewQualificationRepository(db, cfg.Database.Driver)
	subscriptions := postgres.NewSubscriptionRepository(db)

	// Welcome email
	renderer, err := templates.New()
	if err != nil {
		log.Fatalf("Failed to parse email templates: %v", err)
	}
	sender, err := mailer.New(ctx, cfg.Email, log)
	if err != nil {
		log.Fatalf("Failed to create email sender: %v", err)
	}
	welcomeService := services.NewWelcomeService(renderer, sender, cfg.Email.From, log)

	dispatcher := worker.NewWelcomeDispatcher(
		newNotifier(cfg, welcomeService),
		cfg.Welcome.Workers,
		cfg.Welcome.QueueSize,
		cfg.Welcome.Timeout,
		log,
	)
	dispatcher.Start()

	// Services
	registrationService := services.NewRegistrationService(users, qualifications, subscriptions, log)
	userService := services.NewUserService(users, qualifications, subscriptions, log)

	var trialExpiry *worker.TrialExpiry
	if cfg.Worker.TrialExpiryEnabled {
		trialExpiry, err = worker.NewTrialExpiry(userService, cfg.Worker.TrialExpirySchedule, log)
		if err != nil {
			log.Fatalf("Invalid trial expiry schedule: %v", err)
		}
		if err := trialExpiry.Start(ctx); err != nil {
			log.Fatalf("Failed to start trial expiry worker: %v", err)
		}
	}

	// HTTP
	val := validator.New()
	if err := dto.RegisterValidations(val); err != nil {
		log.Fatalf("Failed to register validations: %v", err)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go limiter.Run(ctx, time.Minute)
	}

	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(db, log),
		Registration: handlers.NewRegistrationHandler(registrationService, dispatcher, log, val),
		Welcome:      handlers.NewWelcomeHandler(welcomeService, log, val),
		Admin:        handlers.NewAdminHandler(userService, log, val),
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(cfg, log, h, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.Server.Environment,
			"email":       sender.Name(),
			"welcome":     cfg.Welcome.Mode,
		}).Info("Starting server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorWithErr(err, "Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Server shutdown failed")
	}
	if trialExpiry != nil {
		trialExpiry.Stop()
	}
	// Drain welcome emails queued by the last requests
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.WarnWithErr(err, "Welcome dispatcher did not drain")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WarnWithErr(err, "Tracing shutdown failed")
	}
}

// newNotifier picks how registrations trigger the welcome email
func newNotifier(cfg *config.Config, welcome notification.Service) notification.Notifier {
	if cfg.Welcome.Mode != "http" {
		return services.NewLocalNotifier(welcome)
	}

	return services.NewHTTPNotifier(
		client.Config{
			BaseURL: cfg.Server.PublicURL,
			HTTPClient: &http.Client{
				Timeout:   cfg.Welcome.Timeout,
				Transport: tracing.Transport(http.DefaultTransport),
			},
		},
		func() (string, error) {
			return auth.MintServiceToken("harmony-api", cfg.Auth.Issuer, cfg.Auth.Secret,
				[]string{auth.ScopeWelcomeSend}, cfg.Auth.TokenExpiry)
		},
	)
}
