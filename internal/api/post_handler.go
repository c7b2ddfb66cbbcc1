package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/api/shared"
	"github.com/phrazzld/blogsphere-api/internal/config"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/service"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
)

// PostHandler serves posts, likes and tag listings.
type PostHandler struct {
	posts      service.PostService
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewPostHandler creates a new PostHandler with the given dependencies.
func NewPostHandler(
	posts service.PostService,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) *PostHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostHandler{
		posts:      posts,
		pagination: pagination,
		logger:     logger.With(slog.String("component", "post_handler")),
	}
}

// CreatePost handles POST /api/posts. The caller becomes the author.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	post, err := h.posts.CreatePost(r.Context(), caller.UserID, domain.PostDraft{
		Title:   req.Title,
		Content: req.Content,
	}, req.Tags)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("post created",
		slog.String("post_id", post.ID.String()),
		slog.Int("tag_count", len(post.Tags)))
	w.Header().Set("Location", "/api/posts/"+post.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, toPostResponse(post))
}

// GetPost handles GET /api/posts/{id}.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	post, err := h.posts.GetPost(r.Context(), postID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toPostResponse(post))
}

// UpdatePost handles PATCH /api/posts/{id}. Only the author may edit.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	caller, postID, ok := h.ownedPost(w, r, false)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), postID, domain.PostPatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("post updated",
		slog.String("post_id", postID.String()),
		slog.String("user_id", caller.UserID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, toPostResponse(post))
}

// DeletePost handles DELETE /api/posts/{id}. The author or an admin may
// delete; comments, likes and tag links go with the post.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	caller, postID, ok := h.ownedPost(w, r, true)
	if !ok {
		return
	}
	if err := h.posts.DeletePost(r.Context(), postID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("post deleted",
		slog.String("post_id", postID.String()),
		slog.String("user_id", caller.UserID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// LikePost handles POST /api/posts/{id}/like.
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.writeLike(w, r, h.posts.LikePost)
}

// UnlikePost handles DELETE /api/posts/{id}/like.
func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.writeLike(w, r, h.posts.UnlikePost)
}

func (h *PostHandler) writeLike(
	w http.ResponseWriter,
	r *http.Request,
	write func(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error),
) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	post, err := write(r.Context(), postID, caller.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toPostResponse(post))
}

// PostsByTag handles GET /api/tags/{name}/posts. An unknown tag yields an
// empty page.
func (h *PostHandler) PostsByTag(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.GetPostsByTag(r.Context(), chi.URLParam(r, "name"), pageRequest(r, h.pagination))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toPageResponse(page, toPostResponse))
}

// ownedPost resolves the caller and the {id} post and checks ownership.
// With adminBypass set, callers holding ROLE_ADMIN skip the ownership check.
func (h *PostHandler) ownedPost(
	w http.ResponseWriter,
	r *http.Request,
	adminBypass bool,
) (*auth.Claims, uuid.UUID, bool) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return nil, uuid.Nil, false
	}
	if adminBypass && caller.HasRole(domain.RoleAdmin) {
		return caller, postID, true
	}
	if err := h.posts.AuthorizePostOwner(r.Context(), postID, caller.UserID); err != nil {
		HandleAPIError(w, r, err, "")
		return nil, uuid.Nil, false
	}
	return caller, postID, true
}
