package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/service/auth"
)

// ContextKey is the type of request-context keys set by the API layer.
type ContextKey string

const (
	// ClaimsContextKey holds the authenticated caller's *auth.Claims.
	ClaimsContextKey ContextKey = "claims"

	// TraceIDKey holds the request's trace ID.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID (32 hex characters).
	TraceIDLength = 16
)

// SetTraceID adds a fresh trace ID to ctx.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from ctx, or "" if none is set.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithClaims stores the authenticated caller's claims in ctx.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// GetClaims retrieves the caller's claims. The boolean is false for
// unauthenticated requests.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	if !ok || claims == nil || claims.UserID == uuid.Nil {
		return nil, false
	}
	return claims, true
}

// generateTraceID returns 32 hex characters from crypto/rand, falling back
// to a random UUID's hex digits if the system source fails.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		slog.Error("failed to generate secure random trace ID",
			slog.String("error", err.Error()))
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(b)
}
