package middleware

import (
	"context"
	"net/http"
	"strings"

	"seomaster/internal/auth"
	"seomaster/internal/utils"
)

// ContextKey is the type used for request-context keys set by middleware.
type ContextKey string

const (
	// ClaimsKey holds the *auth.Claims of the authenticated session.
	ClaimsKey ContextKey = "claims"
	// UsernameKey holds the authenticated username.
	UsernameKey ContextKey = "username"
)

// JWTMiddleware validates the session token on every request and embeds
// the claims into the request context.
func JWTMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing authentication token")
				return
			}
			tokenString = strings.TrimPrefix(tokenString, "Bearer ")

			claims, err := auth.ValidateJWT(tokenString, secret)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, UsernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUsername retrieves the authenticated username from the request
// context.
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}
