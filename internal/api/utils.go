package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/isaacjstriker/blockfall/internal/auth"
)

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

type apiError struct {
	Error string `json:"error"`
}

func permissionDenied(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, apiError{Error: "permission denied"})
}

// bearerToken extracts the token from an Authorization header, falling back
// to the token query parameter for browser websockets.
func bearerToken(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return "", false
		}
		return authHeader[len(bearerPrefix):], true
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}

func requireAuth(s *APIServer, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: "authorization required"})
			return
		}

		claims, err := s.tokens.Parse(tokenString)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: "invalid token"})
			return
		}

		r = r.WithContext(SetPlayerInContext(r.Context(), claims))
		next(w, r)
	}
}

type contextKey string

const playerContextKey contextKey = "player"

func SetPlayerInContext(ctx context.Context, claims *auth.PlayerClaims) context.Context {
	return context.WithValue(ctx, playerContextKey, claims)
}

func GetPlayerFromContext(ctx context.Context) (*auth.PlayerClaims, bool) {
	claims, ok := ctx.Value(playerContextKey).(*auth.PlayerClaims)
	return claims, ok
}
