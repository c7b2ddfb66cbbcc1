package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/blogsphere-api/internal/api/shared"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/redact"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
)

// AuthMiddleware authenticates requests from a bearer token or the session
// cookie set at login.
type AuthMiddleware struct {
	jwtService auth.JWTService
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		cookieName: cookieName,
	}
}

// Authenticate validates the caller's token and stores its claims in the
// request context. Requests without a valid token are rejected with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, problem := m.extractToken(r)
		if problem != "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, problem)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				logger.FromContext(r.Context()).Error("failed to validate token",
					slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := shared.WithClaims(r.Context(), claims)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(
			slog.String("user_id", claims.UserID.String())))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated callers that lack role with 403. It must
// run after Authenticate.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := shared.GetClaims(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !claims.HasRole(role) {
				shared.RespondWithError(w, r, http.StatusForbidden, "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken prefers the Authorization header and falls back to the
// session cookie. A non-empty problem is the client-facing rejection reason.
func (m *AuthMiddleware) extractToken(r *http.Request) (token, problem string) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", "Invalid authorization format"
		}
		return token, ""
	}
	if m.cookieName != "" {
		if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
			return c.Value, ""
		}
	}
	return "", "Authentication required"
}
