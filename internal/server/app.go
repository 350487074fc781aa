// Package server initializes and runs the reference glucosync server.
// It opens PostgreSQL, applies migrations, wires the services and serves the
// HTTP API until its context is cancelled.
package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/glucosync/internal/logging"
	"github.com/dmitrijs2005/glucosync/internal/server/api"
	"github.com/dmitrijs2005/glucosync/internal/server/config"
	"github.com/dmitrijs2005/glucosync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/glucosync/internal/server/services"
)

// Seams for tests.
var (
	openDB     = repomanager.OpenPostgres
	newManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *api.Server
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	authService, err := services.NewAuthService(c)
	if err != nil {
		return nil, fmt.Errorf("auth init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := newManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	readingService := services.NewReadingService(db, m)
	srv := api.NewServer(c.ListenAddr, c.APIKey, c.ShutdownTimeout, logger, authService, readingService)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// Run serves until ctx is cancelled and then closes the database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "close db", "error", err)
		}
	}()

	if err := app.server.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
