package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

// SessionHeader identifies the browser session that owns a cart.
const SessionHeader = "X-Session-ID"

const maxSessionIDLen = 128

// RequireSession rejects requests without a usable X-Session-ID header with
// 401 and stores the id in the request context otherwise.
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionHeader))
			if id == "" {
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "missing " + SessionHeader + " header"},
				})
				return
			}
			if len(id) > maxSessionIDLen || strings.ContainsAny(id, ":/\\ ") {
				httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "malformed " + SessionHeader + " header"},
				})
				return
			}

			ctx := logger.WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session id stored by RequireSession.
func SessionIDFromContext(ctx context.Context) string {
	return logger.SessionIDFromContext(ctx)
}
