package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/api/shared"
	"github.com/phrazzld/blogsphere-api/internal/config"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
)

// callerFromContext returns the authenticated caller's claims, writing a 401
// when the request carries none.
func callerFromContext(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := shared.GetClaims(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return claims, true
}

// getPathUUID parses the named chi URL parameter as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", nil)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// pathUUID is getPathUUID that writes a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// pageRequest reads offset, limit and sort query parameters. Missing or
// malformed numbers fall back to the configured defaults, and the limit is
// clamped to the configured maximum.
func pageRequest(r *http.Request, cfg config.PaginationConfig) domain.PageRequest {
	q := r.URL.Query()

	req := domain.PageRequest{Limit: cfg.DefaultLimit}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		req.Offset = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		req.Limit = v
	}
	if cfg.MaxLimit > 0 && req.Limit > cfg.MaxLimit {
		req.Limit = cfg.MaxLimit
	}
	if domain.SortOrder(q.Get("sort")) == domain.SortOldest {
		req.Sort = domain.SortOldest
	}
	return req.Normalize()
}
