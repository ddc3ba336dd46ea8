// Package app wires the application's components together
package app

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"weathersub.app/api"
	"weathersub.app/config"
	"weathersub.app/database"
	"weathersub.app/metrics"
	"weathersub.app/notifier"
	"weathersub.app/providers"
	"weathersub.app/repository"
	"weathersub.app/scheduler"
	"weathersub.app/service"
)

// Application represents the main application with all its dependencies
type Application struct {
	config    *config.Config
	db        *gorm.DB
	server    *api.Server
	scheduler *scheduler.Scheduler
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load application configuration: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("run database migrations: %w", err)
	}

	return NewApplicationWithDB(cfg, db)
}

// NewApplicationWithDB wires services onto an existing database handle.
// Split out so tests can inject an in-memory database.
func NewApplicationWithDB(cfg *config.Config, db *gorm.DB) (*Application, error) {
	providerManager, err := providers.NewManager(&cfg.Weather, &cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("create weather provider manager: %w", err)
	}

	emailProvider := providers.NewSMTPEmailProvider(&cfg.Email)

	weatherService := service.NewWeatherService(providerManager)
	emailService := service.NewEmailService(emailProvider)

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	tokenService := service.NewTokenService(tokenRepo)

	subscriptionService := service.NewSubscriptionService(
		db,
		subscriptionRepo,
		tokenService,
		emailService,
		cfg,
	)

	dispatcher := notifier.NewDispatcher(
		subscriptionService,
		weatherService,
		emailService,
		metrics.NewNotifierMetrics(),
		cfg.AppBaseURL,
		cfg.Notifier.WorkerCount,
	)

	return &Application{
		config:    cfg,
		db:        db,
		server:    api.NewServer(cfg, weatherService, subscriptionService),
		scheduler: scheduler.NewScheduler(&cfg.Notifier, dispatcher),
	}, nil
}

// Start starts the scheduler and the HTTP server
func (app *Application) Start() error {
	slog.Info("starting scheduler")
	app.scheduler.Start()

	slog.Info("starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("shutting down application")

	app.scheduler.Stop()

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("error closing database", "error", err)
		}
	}

	slog.Info("application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}

// GetRouter exposes the HTTP router for tests
func (app *Application) GetRouter() *gin.Engine {
	return app.server.GetRouter()
}
