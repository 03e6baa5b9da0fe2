package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

// JWTMiddleware validates the bearer token and stores the caller's uuid in
// the request context under "user_uuid".
func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.ParseWithClaims(bearerToken[1], &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})

			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(*jwt.MapClaims)
			if !ok || !token.Valid {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			userUUID, ok := (*claims)["user_uuid"].(string)
			if !ok || userUUID == "" {
				http.Error(w, "Invalid user uuid in token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "user_uuid", userUUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequesterUUID pulls the authenticated user's uuid out of the request
// context. The second return is false when the middleware did not run.
func RequesterUUID(r *http.Request) (string, bool) {
	userUUID, ok := r.Context().Value("user_uuid").(string)
	return userUUID, ok && userUUID != ""
}
