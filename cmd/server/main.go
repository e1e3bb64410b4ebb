// Package main implements the entry point for the task API server:
// a relational-backed CRUD and search service for task records.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/taskboard/task-api/internal/config"
	"github.com/taskboard/task-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, version) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// run loads configuration, sets up logging and the database, and either
// executes a migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if migrateCmd != "" {
		return runMigrations(db, cfg.Database, migrateCmd)
	}

	// Pending migrations are applied at startup so a fresh deployment is
	// immediately serviceable.
	if err := runMigrations(db, cfg.Database, "up"); err != nil {
		return err
	}

	app := newApplication(cfg, db, slog.Default())
	return app.serve()
}
