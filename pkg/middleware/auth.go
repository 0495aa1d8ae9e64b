package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const accountIDKey contextKeyType = "account_id"

// bearerPrefix is matched case-sensitively with a single space separator.
const bearerPrefix = "Bearer "

// TokenValidator validates a session token string and returns the subject
// account ID. The returned error is only ever used as a reject signal; its
// detail is never surfaced to the client.
type TokenValidator func(token string) (string, error)

// Auth returns middleware that gates requests on a valid bearer session
// token. Every failure mode (missing header, wrong scheme, empty token,
// malformed, expired, or forged token) produces the same generic 401 so the
// response cannot be used to probe the token scheme. The check is purely
// computational and performs no I/O.
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				writeAuthError(w)
				return
			}

			accountID, err := validate(token)
			if err != nil {
				writeAuthError(w)
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountIDFromContext extracts the authenticated account ID from the request
// context. Returns "" when the Auth middleware did not run.
func AccountIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(accountIDKey).(string); ok {
		return id
	}
	return ""
}

func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHORIZED",
		"message": "missing or invalid token",
	})
}
