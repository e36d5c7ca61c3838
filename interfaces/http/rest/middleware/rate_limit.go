package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"backend2/pkg/auth"
)

// RateLimit throttles requests per client IP through the shared
// auth.RateLimiter (an in-process token bucket; see DESIGN.md for why
// the teacher's DynamoDB-backed DistributedRateLimiter was dropped in
// favor of this single-process one).
func RateLimit(limiter auth.RateLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			allowed, err := limiter.Allow(r.Context(), host)
			if err != nil || !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error":   true,
					"message": "rate limit exceeded",
					"code":    http.StatusTooManyRequests,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
