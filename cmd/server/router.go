package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/blogsphere-api/internal/api"
	apiMiddleware "github.com/phrazzld/blogsphere-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	pagination := app.config.Pagination
	api.RegisterRoutes(r, api.Handlers{
		Session: api.NewSessionHandler(
			app.userService,
			app.jwtService,
			app.passwordVerifier,
			app.config.Auth,
			app.logger,
		),
		Users:    api.NewUserHandler(app.userService, app.postService, pagination, app.logger),
		Posts:    api.NewPostHandler(app.postService, pagination, app.logger),
		Comments: api.NewCommentHandler(app.commentService, pagination, app.logger),
	}, apiMiddleware.NewAuthMiddleware(app.jwtService, app.config.Auth.CookieName))

	r.Get("/health", app.health)

	return r
}

// health reports liveness, and database reachability when one is configured.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		if err := app.db.PingContext(r.Context()); err != nil {
			app.logger.Error("Health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}
