package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/homeroomapp/homeroom/internal/metrics"
	"github.com/homeroomapp/homeroom/internal/models"
	"github.com/homeroomapp/homeroom/internal/ratelimit"
)

// limitedPaths are the endpoints that trigger a billed LLM call and are
// therefore behind admission control. Everything else passes through.
var limitedPaths = map[string]bool{
	"/api/lessons/generate": true,
	"/api/tutor":            true,
}

// RateLimitMiddleware creates a middleware that enforces per-client
// admission control on the LLM-backed endpoints.
func RateLimitMiddleware(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limitedPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			key := ClientKey(r)
			if !limiter.Admit(key, time.Now()) {
				slog.Warn("rate limit exceeded",
					"client", key,
					"path", r.URL.Path,
				)
				metrics.RateLimitRejectionsTotal.Inc()

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(models.ErrorResponse{
					Error: "Too many requests. Please try again in a minute.",
					Code:  "RATE_LIMIT_EXCEEDED",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
