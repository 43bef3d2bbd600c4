package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware instruments HTTP handlers with request metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK, // Default to 200 if WriteHeader not called
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)
		status := strconv.Itoa(wrapped.statusCode)

		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

// normalizePath normalizes URL paths for metric labels to avoid cardinality
// explosion; record ids are replaced with placeholders.
func normalizePath(path string) string {
	switch {
	case path == "/":
		return "/"
	case path == "/health":
		return "/health"
	case path == "/metrics":
		return "/metrics"
	case path == "/api/lessons/generate":
		return "/api/lessons/generate"
	case path == "/api/tutor":
		return "/api/tutor"
	case path == "/api/reports/send":
		return "/api/reports/send"
	case path == "/api/families":
		return "/api/families"
	case strings.HasPrefix(path, "/api/families/"):
		return "/api/families/:id"
	case path == "/api/children":
		return "/api/children"
	case path == "/api/lessons":
		return "/api/lessons"
	case path == "/api/map/families":
		return "/api/map/families"
	case strings.HasPrefix(path, "/admin/api/"):
		return "/admin/api/*"
	default:
		return "/other"
	}
}
