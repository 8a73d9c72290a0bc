package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/facestream-labs/facestream/internal/config"
	"github.com/facestream-labs/facestream/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	action := flag.String("action", "up", "Migration action: up, down, version")
	dbName := flag.String("db", "facestream", "Database name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)

	db, err := database.NewSQLDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	migrator, err := database.NewMigrator(db, *dbName)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch *action {
	case "up":
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		logger.Info("migrations applied")

	case "down":
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		logger.Info("last migration rolled back")

	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return fmt.Errorf("migration version: %w", err)
		}
		logger.Info("migration state",
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)

	default:
		return fmt.Errorf("unknown action %q (use: up, down, version)", *action)
	}

	return nil
}
