package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/blogsphere-api/internal/config"
	"github.com/phrazzld/blogsphere-api/internal/platform/memory"
	"github.com/phrazzld/blogsphere-api/internal/platform/postgres"
	"github.com/phrazzld/blogsphere-api/internal/service"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB // nil on the in-memory backend

	userStore    store.UserStore
	followStore  store.FollowStore
	postStore    store.PostStore
	tagStore     store.TagStore
	commentStore store.CommentStore
	txRunner     store.TxRunner

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	postService      service.PostService
	commentService   service.CommentService
}

// newApplication wires stores and services. A nil db selects the in-memory
// backend.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if logger == nil {
		logger = slog.Default()
	}
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
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	if db != nil {
		app.userStore = postgres.NewPostgresUserStore(db, logger)
		app.followStore = postgres.NewPostgresFollowStore(db, logger)
		app.postStore = postgres.NewPostgresPostStore(db, logger)
		app.tagStore = postgres.NewPostgresTagStore(db, logger)
		app.commentStore = postgres.NewPostgresCommentStore(db, logger)
		app.txRunner = store.NewSQLTxRunner(db)
	} else {
		mem := memory.NewDB(logger)
		app.userStore = memory.NewUserStore(mem)
		app.followStore = memory.NewFollowStore(mem)
		app.postStore = memory.NewPostStore(mem)
		app.tagStore = memory.NewTagStore(mem)
		app.commentStore = memory.NewCommentStore(mem)
		app.txRunner = mem
	}

	app.userService, err = service.NewUserService(
		app.userStore,
		app.followStore,
		app.txRunner,
		auth.NewBcryptEncoder(cfg.Auth.BCryptCost),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.postService, err = service.NewPostService(
		app.postStore,
		app.tagStore,
		app.userStore,
		app.txRunner,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create post service: %w", err)
	}

	app.commentService, err = service.NewCommentService(
		app.commentStore,
		app.postStore,
		app.userStore,
		app.txRunner,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment service: %w", err)
	}

	logger.Info("Application initialized successfully", "persistent", db != nil)
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
			return
		}
		app.logger.Info("Database connection closed")
	}
}
