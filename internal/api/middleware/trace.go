package middleware

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/blogsphere-api/internal/api/shared"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
)

// NewTraceMiddleware returns middleware that assigns each request a trace ID
// and a request-scoped logger tagged with it (and with chi's request ID when
// middleware.RequestID ran earlier). Handlers and services reach that logger
// through logger.FromContext.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			ctx = logger.WithLogger(ctx, base.With(slog.String("trace_id", traceID)))
			if reqID := chimw.GetReqID(ctx); reqID != "" {
				ctx = logger.WithRequestID(ctx, reqID)
			}

			logger.FromContext(ctx).Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
