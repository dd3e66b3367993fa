// Package main implements the entry point for the task API server, which
// exposes CRUD and filtered-listing operations over tasks persisted in
// SQLite.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lanning/taskstore/internal/config"
	"github.com/lanning/taskstore/internal/platform/logger"
	"github.com/lanning/taskstore/internal/platform/sqlite"
	"github.com/lanning/taskstore/internal/store"
)

// application bundles the long-lived dependencies of the server process.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sqlx.DB
	taskStore store.TaskStore
}

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(context.Background(), router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, opens the database
// (applying schema migrations) and wires the store.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_path", cfg.Database.Path)

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlite.MigrateUp(db); err != nil {
		closeDB(db, appLogger)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &application{
		config:    cfg,
		logger:    appLogger,
		db:        db,
		taskStore: sqlite.NewTaskStore(db),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDB(app.db, app.logger)
}

func closeDB(db *sqlx.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Error("Failed to close database", "error", err)
	}
}
