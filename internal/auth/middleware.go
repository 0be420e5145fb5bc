package auth

import (
	"context"
	"net/http"
)

// TokenHeader is the request header carrying the JWT.
const TokenHeader = "x-auth-token"

// contextKey is an unexported type used for context keys in this package.
// A package-private key type means only this package can read or write the
// userID value in the context — a plain string key would be open to
// collisions with any other package.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It reads the JWT from the x-auth-token header, validates it, and stores
// the userID in the request context. A missing token and an invalid token
// both stop the chain with 401, but with distinct messages so clients can
// tell "you forgot to log in" from "your session is broken".
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := r.Header.Get(TokenHeader)
			if tokenStr == "" {
				writeUnauthorized(w, "missing token")
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if the request carried no valid token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"msg":"` + msg + `"}`))
}
