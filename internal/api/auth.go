package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/tngss/attendee-sync/internal/pkg/httputil"
)

type contextKey string

const tokenContextKey contextKey = "api_token"

// RequireToken authenticates requests against the configured token list.
// Tokens arrive either as "Authorization: Bearer <token>" or as an
// "X-API-Key" header. The matched token is stored in the request context so
// the rate limiter can key on it.
func RequireToken(validTokens []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(validTokens))
	for _, t := range validTokens {
		allowed[t] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" || !allowed[token] {
				httputil.Unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), tokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// tokenFromContext returns the authenticated token, empty if the middleware
// did not run.
func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
