package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/blogsphere-api/internal/api/shared"
	"github.com/phrazzld/blogsphere-api/internal/config"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/service"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

// SessionHandler signs users in and out. A successful login sets the
// session cookie and redirects to the home page for the user's role.
type SessionHandler struct {
	users            service.UserService
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authConfig       config.AuthConfig
	logger           *slog.Logger
	timeFunc         func() time.Time
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(
	users service.UserService,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	authConfig config.AuthConfig,
	logger *slog.Logger,
) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		users:            users,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		authConfig:       authConfig,
		logger:           logger.With(slog.String("component", "session_handler")),
		timeFunc:         time.Now,
	}
}

// Login handles POST /api/session.
//
// Unknown usernames and wrong passwords get the same 401. On success the
// login time is recorded (a failure there is logged and ignored), the signed
// session cookie is set and the response is a 303 to auth.Destination for
// the user's roles. The body repeats the token for non-browser clients.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if store.IsNotFoundError(err) {
			HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
		return
	}

	if err := h.users.RecordLogin(r.Context(), user.Username); err != nil {
		log.Warn("failed to record login",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	lifetime := time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute
	expiresAt := h.timeFunc().Add(lifetime)
	http.SetCookie(w, &http.Cookie{
		Name:     h.authConfig.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	destination := auth.Destination(user.Roles)
	log.Info("user signed in",
		slog.String("user_id", user.ID.String()),
		slog.String("redirect_to", destination))

	w.Header().Set("Location", destination)
	shared.RespondWithJSON(w, r, http.StatusSeeOther, SessionResponse{
		UserID:      user.ID,
		Username:    user.Username,
		Roles:       toUserResponse(user).Roles,
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
		RedirectTo:  destination,
	})
}

// Logout handles DELETE /api/session by expiring the session cookie.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.authConfig.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.authConfig.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
