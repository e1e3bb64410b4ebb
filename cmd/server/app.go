package main

import (
	"database/sql"
	"log/slog"

	"github.com/taskboard/task-api/internal/config"
	"github.com/taskboard/task-api/internal/platform/postgres"
	"github.com/taskboard/task-api/internal/store"
)

// application bundles the server's dependencies: configuration, logger, the
// database pool, and the stores built on it.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB
	taskStore store.TaskStore
}

// newApplication wires the application's dependency graph.
func newApplication(cfg *config.Config, db *sql.DB, log *slog.Logger) *application {
	return &application{
		config:    cfg,
		logger:    log,
		db:        db,
		taskStore: postgres.NewPostgresTaskStore(db, log),
	}
}
