package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/palace-api/internal/config"
	"github.com/phrazzld/palace-api/internal/domain/srs"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/platform/postgres"
	"github.com/phrazzld/palace-api/internal/service"
	"github.com/phrazzld/palace-api/internal/service/auth"
)

// application holds the shared dependencies of every subcommand and
// releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService       auth.JWTService
	userService      service.UserService
	palaceService    service.PalaceService
	flashcardService service.FlashcardService
	reviewService    service.ReviewService
}

// loadAppConfig loads configuration and sets up the process-wide logger.
func loadAppConfig(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))
	return cfg, l, nil
}

// newApplication wires stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	userStore := postgres.NewPostgresUserStore(db, logger)
	palaceStore := postgres.NewPostgresPalaceStore(db, logger)
	furnitureStore := postgres.NewPostgresFurnitureStore(db, logger)
	flashcardStore := postgres.NewPostgresFlashcardStore(db, logger)

	scheduler, err := srs.NewDefaultService()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	app.userService, err = service.NewUserService(userStore, auth.NewBcryptHasher(cfg.Auth.BcryptCost), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.palaceService, err = service.NewPalaceService(
		db,
		palaceStore,
		furnitureStore,
		cfg.Review.ConflictRetryBase(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create palace service: %w", err)
	}

	app.flashcardService, err = service.NewFlashcardService(flashcardStore, furnitureStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	app.reviewService, err = service.NewReviewService(
		db,
		flashcardStore,
		scheduler,
		cfg.Review.QueueLimit,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP until ctx is canceled or the process receives a
// termination signal.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
