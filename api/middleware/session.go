package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mandimart/mandimart-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

type contextKey string

const ctxSessionID contextKey = "session_id"

// SessionIDFromContext returns the session identifier injected by Session.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithSessionID injects the session identifier for downstream handlers.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

// Session resolves the caller's cart session from the X-Session-Id header,
// minting a fresh one for first-time callers. The resolved id is echoed back
// so clients can persist it.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionIDHeader)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
