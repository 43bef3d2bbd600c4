package middleware

import (
	"net/http"
	"strings"
)

// unknownClient is the shared bucket for requests that arrive without any
// forwarding header. All such clients share one rate-limit quota.
const unknownClient = "unknown"

// ClientKey derives the rate-limit identity for a request: the first entry
// of X-Forwarded-For, trimmed; else X-Real-IP; else the shared "unknown"
// bucket.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take the first IP in the chain
		first, _, _ := strings.Cut(xff, ",")
		if trimmed := strings.TrimSpace(first); trimmed != "" {
			return trimmed
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return unknownClient
}
