package api

import (
	"github.com/go-chi/chi/v5"
	apiMiddleware "github.com/phrazzld/blogsphere-api/internal/api/middleware"
	"github.com/phrazzld/blogsphere-api/internal/domain"
)

// Handlers groups the handlers mounted under /api.
type Handlers struct {
	Session  *SessionHandler
	Users    *UserHandler
	Posts    *PostHandler
	Comments *CommentHandler
}

// RegisterRoutes mounts the API under r. Reads of public content need no
// session; every write requires one.
func RegisterRoutes(r chi.Router, h Handlers, authMiddleware *apiMiddleware.AuthMiddleware) {
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/session", h.Session.Login)
		r.Delete("/session", h.Session.Logout)
		r.Post("/users", h.Users.Register)

		r.Get("/users/{username}", h.Users.GetProfile)
		r.Get("/users/{username}/followers", h.Users.Followers)
		r.Get("/users/{username}/following", h.Users.Following)
		r.Get("/users/{username}/posts", h.Users.Posts)
		r.Get("/posts/{id}", h.Posts.GetPost)
		r.Get("/posts/{id}/comments", h.Comments.ListComments)
		r.Get("/tags/{name}/posts", h.Posts.PostsByTag)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/users/me", h.Users.Me)
			r.Patch("/users/me", h.Users.UpdateMe)
			r.Get("/users/{username}/follow", h.Users.FollowStatus)
			r.Post("/users/{username}/follow", h.Users.Follow)
			r.Delete("/users/{username}/follow", h.Users.Unfollow)

			r.Post("/posts", h.Posts.CreatePost)
			r.Patch("/posts/{id}", h.Posts.UpdatePost)
			r.Delete("/posts/{id}", h.Posts.DeletePost)
			r.Post("/posts/{id}/like", h.Posts.LikePost)
			r.Delete("/posts/{id}/like", h.Posts.UnlikePost)

			r.Post("/posts/{id}/comments", h.Comments.CreateComment)
			r.Patch("/comments/{id}", h.Comments.UpdateComment)
			r.Delete("/comments/{id}", h.Comments.DeleteComment)

			r.With(apiMiddleware.RequireRole(domain.RoleAdmin)).
				Get("/admin/users/{username}", h.Users.AdminGetUser)
		})
	})
}
