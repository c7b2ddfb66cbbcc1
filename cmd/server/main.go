// Package main implements the entry point for the blogsphere API server,
// which hosts users, posts, comments, tags, likes and the follow graph.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/blogsphere-api/internal/config"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"Run database migrations and exit: up, down, status, reset or version")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("blogsphere-api: %v", err)
	}
}

func run(migrateCmd string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if migrateCmd != "" {
		return runMigrations(ctx, cfg, migrateCmd)
	}

	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = setupAppDatabase(ctx, cfg, slog.Default())
		if err != nil {
			return err
		}
	} else {
		slog.Warn("database.url is empty, using the in-memory backend; data will not survive a restart")
	}

	app, err := newApplication(cfg, slog.Default(), db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}

// loadConfig loads configuration and sets up structured logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_configured", cfg.Database.URL != "")
	return cfg, nil
}

// runMigrations applies migrateCmd against the configured database.
func runMigrations(ctx context.Context, cfg *config.Config, migrateCmd string) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("migrations need database.url (BLOG_DATABASE_URL)")
	}

	db, err := setupAppDatabase(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			slog.Error("failed to close database connection", "error", cerr)
		}
	}()

	slog.Info("Executing migrations", "command", migrateCmd)
	if err := postgres.Migrate(ctx, db, migrateCmd, slog.Default()); err != nil {
		return fmt.Errorf("migration %q failed: %w", migrateCmd, err)
	}
	slog.Info("Migrations completed", "command", migrateCmd)
	return nil
}
