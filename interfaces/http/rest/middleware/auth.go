package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"backend2/infrastructure/config"
)

// Authenticate validates a bearer JWT against cfg.JWTSecret/cfg.JWTIssuer.
// When JWTSecret is unset (the default development configuration), auth
// is skipped entirely — this memory core has no per-user identity of its
// own (spec §4.7's operations are all scoped to the one shared state),
// so the token only ever gates *who may call the API at all*, the way
// the teacher's Authenticate() gated access to the node API.
func Authenticate(cfg *config.Config) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.JWTSecret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondUnauthorized(w, "missing or malformed Authorization header")
				return
			}

			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(parts[1], &claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				respondUnauthorized(w, "invalid token")
				return
			}
			if cfg.JWTIssuer != "" && claims.Issuer != cfg.JWTIssuer {
				respondUnauthorized(w, "invalid token issuer")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    http.StatusUnauthorized,
	})
}
