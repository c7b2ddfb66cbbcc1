// Command create-admin registers an account holding ROLE_ADMIN. The admin
// role cannot be requested through self-registration, so the first admin is
// created here against the configured database.
//
// Usage:
//
//	BLOG_ADMIN_PASSWORD=... create-admin -username root -email root@example.com
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/blogsphere-api/internal/config"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/platform/postgres"
	"github.com/phrazzld/blogsphere-api/internal/service"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

const passwordEnv = "BLOG_ADMIN_PASSWORD"

func main() {
	username := flag.String("username", "", "Admin username")
	email := flag.String("email", "", "Admin email address")
	flag.Parse()

	if err := run(*username, *email, os.Getenv(passwordEnv)); err != nil {
		log.Fatalf("create-admin: %v", err)
	}
}

func run(username, email, password string) error {
	if username == "" || email == "" {
		return errors.New("-username and -email are required")
	}
	if password == "" {
		return fmt.Errorf("%s must hold the admin password", passwordEnv)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	if cfg.Database.URL == "" {
		return errors.New("database.url (BLOG_DATABASE_URL) is required")
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := service.NewUserService(
		postgres.NewPostgresUserStore(db, log),
		postgres.NewPostgresFollowStore(db, log),
		store.NewSQLTxRunner(db),
		auth.NewBcryptEncoder(cfg.Auth.BCryptCost),
		log,
	)
	if err != nil {
		return err
	}

	user, err := users.RegisterUser(ctx, &domain.User{
		Username: username,
		Email:    email,
		Password: password,
		Roles:    []domain.Role{domain.RoleAdmin},
	})
	if err != nil {
		return fmt.Errorf("failed to register admin: %w", err)
	}

	log.Info("admin created",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}
