package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/taskboard/task-api/internal/config"
)

// runMigrations executes a goose migration command against the configured
// migrations directory.
func runMigrations(db *sql.DB, cfg config.DatabaseConfig, command string) error {
	goose.SetLogger(&slogGooseLogger{})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	slog.Info("running migrations",
		"command", command,
		"dir", cfg.MigrationsDir)

	var err error
	switch command {
	case "up":
		err = goose.Up(db, cfg.MigrationsDir)
	case "down":
		err = goose.Down(db, cfg.MigrationsDir)
	case "status":
		err = goose.Status(db, cfg.MigrationsDir)
	case "version":
		err = goose.Version(db, cfg.MigrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

// slogGooseLogger adapts goose's logger interface onto slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), "component", "goose")
	os.Exit(1)
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), "component", "goose")
}
