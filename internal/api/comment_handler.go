package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/api/shared"
	"github.com/phrazzld/blogsphere-api/internal/config"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/service"
)

// CommentHandler serves comments on posts.
type CommentHandler struct {
	comments   service.CommentService
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewCommentHandler creates a new CommentHandler with the given dependencies.
func NewCommentHandler(
	comments service.CommentService,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) *CommentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentHandler{
		comments:   comments,
		pagination: pagination,
		logger:     logger.With(slog.String("component", "comment_handler")),
	}
}

// ListComments handles GET /api/posts/{id}/comments, newest first.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	page, err := h.comments.GetCommentsByPost(r.Context(), postID, pageRequest(r, h.pagination))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toPageResponse(page, toCommentResponse))
}

// CreateComment handles POST /api/posts/{id}/comments.
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	postID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	comment, err := h.comments.CreateComment(r.Context(), postID, caller.UserID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("post_id", postID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, toCommentResponse(comment))
}

// UpdateComment handles PATCH /api/comments/{id}. Only the author may edit.
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := h.ownedComment(w, r, false)
	if !ok {
		return
	}

	var req CommentRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	comment, err := h.comments.UpdateComment(r.Context(), commentID, domain.CommentPatch{Content: &req.Content})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toCommentResponse(comment))
}

// DeleteComment handles DELETE /api/comments/{id}. The author or an admin
// may delete.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := h.ownedComment(w, r, true)
	if !ok {
		return
	}
	if err := h.comments.DeleteComment(r.Context(), commentID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CommentHandler) ownedComment(w http.ResponseWriter, r *http.Request, adminBypass bool) (uuid.UUID, bool) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return uuid.Nil, false
	}
	commentID, ok := pathUUID(w, r, "id")
	if !ok {
		return uuid.Nil, false
	}
	if adminBypass && caller.HasRole(domain.RoleAdmin) {
		return commentID, true
	}
	if err := h.comments.AuthorizeCommentOwner(r.Context(), commentID, caller.UserID); err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return commentID, true
}
