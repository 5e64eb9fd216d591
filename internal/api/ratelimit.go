package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	"github.com/openshelf/openshelf-server/internal/ratelimit"
)

// loginPath is the only throttled route. Credential guessing is the one
// abuse vector with a shared secret login, so everything else stays open.
const loginPath = "/api/v1/auth/login"

// loginRateLimit throttles login attempts per client address. It runs before
// huma so rejected requests never reach credential checking.
func loginRateLimit(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != loginPath {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			if !limiter.Allow(ip) {
				logger.Warn("login rate limit exceeded", "ip", ip)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				body, _ := json.Marshal(&Envelope{
					Success: false,
					Error: &APIError{
						status:  http.StatusTooManyRequests,
						Code:    "RATE_LIMITED",
						Message: "too many login attempts, slow down",
					},
				})
				_, _ = w.Write(body)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP picks the client address for rate limiting.
func getClientIP(r *http.Request) string {
	return extractIP(r.Header.Get("X-Forwarded-For"), r.Header.Get("X-Real-IP"), r.RemoteAddr)
}
