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
)

// UserHandler serves registration, profiles and the follow graph.
type UserHandler struct {
	users      service.UserService
	posts      service.PostService
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(
	users service.UserService,
	posts service.PostService,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:      users,
		posts:      posts,
		pagination: pagination,
		logger:     logger.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /api/users. Self-registration may request the
// blogger or reader role; without one the account is a reader.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.users.RegisterUser(r.Context(), &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Bio:      req.Bio,
		Roles:    req.Roles,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user registered",
		slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, toMeResponse(user))
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetUser(r.Context(), caller.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toMeResponse(user))
}

// UpdateMe handles PATCH /api/users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.users.UpdateUser(r.Context(), caller.UserID, domain.UserPatch{
		FullName: req.FullName,
		Bio:      req.Bio,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toMeResponse(user))
}

// GetProfile handles GET /api/users/{username}.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toUserResponse(user))
}

// AdminGetUser handles GET /api/admin/users/{username}, returning the
// private view of any account.
func (h *UserHandler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookup(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toMeResponse(user))
}

// Follow handles POST /api/users/{username}/follow. Repeating it is harmless.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.writeFollow(w, r, h.users.FollowUser, true)
}

// Unfollow handles DELETE /api/users/{username}/follow. Repeating it is harmless.
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.writeFollow(w, r, h.users.UnfollowUser, false)
}

func (h *UserHandler) writeFollow(
	w http.ResponseWriter,
	r *http.Request,
	write func(ctx context.Context, followerID, followeeID uuid.UUID) error,
	following bool,
) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	target, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := write(r.Context(), caller.UserID, target.ID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FollowStatusResponse{Following: following})
}

// FollowStatus handles GET /api/users/{username}/follow.
func (h *UserHandler) FollowStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	target, ok := h.lookup(w, r)
	if !ok {
		return
	}
	following, err := h.users.IsFollowing(r.Context(), caller.UserID, target.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FollowStatusResponse{Following: following})
}

// Followers handles GET /api/users/{username}/followers.
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.listGraph(w, r, h.users.ListFollowers)
}

// Following handles GET /api/users/{username}/following.
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.listGraph(w, r, h.users.ListFollowing)
}

func (h *UserHandler) listGraph(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID uuid.UUID, page domain.PageRequest) (*domain.Page[*domain.User], error),
) {
	user, ok := h.lookup(w, r)
	if !ok {
		return
	}
	page, err := list(r.Context(), user.ID, pageRequest(r, h.pagination))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toPageResponse(page, toUserResponse))
}

// Posts handles GET /api/users/{username}/posts.
func (h *UserHandler) Posts(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookup(w, r)
	if !ok {
		return
	}
	page, err := h.posts.GetPostsByAuthor(r.Context(), user.ID, pageRequest(r, h.pagination))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toPageResponse(page, toPostResponse))
}

// lookup resolves the {username} path parameter, writing a 404 on a miss.
func (h *UserHandler) lookup(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, err := h.users.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return user, true
}
