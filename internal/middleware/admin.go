package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/homeroomapp/homeroom/internal/config"
)

// AdminAuth gates the admin dashboard behind HTTP basic auth. The
// configured password is a bcrypt hash, never a plaintext secret.
// When no admin credentials are configured the dashboard is disabled
// entirely and every request is rejected.
func AdminAuth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.AdminEnabled() {
				slog.Warn("admin request rejected - dashboard not configured",
					"path", r.URL.Path,
					"client", ClientKey(r),
				)
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok || !adminCredentialsValid(cfg, username, password) {
				slog.Warn("admin authentication failed",
					"path", r.URL.Path,
					"client", ClientKey(r),
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="homeroom admin"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func adminCredentialsValid(cfg *config.Config, username, password string) bool {
	// Compare the username in constant time so timing doesn't reveal
	// whether it matched before the bcrypt check runs.
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUsername)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPassword), []byte(password))
	return usernameMatch && passwordErr == nil
}
