package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/homeroomapp/homeroom/internal/pocketbase"
	"github.com/homeroomapp/homeroom/internal/usage"
)

// dashboardWindow is how far back the usage summary looks.
const dashboardWindow = 30 * 24 * time.Hour

// DashboardResponse is the admin dashboard payload.
type DashboardResponse struct {
	Families int            `json:"families"`
	Children int            `json:"children"`
	Lessons  int            `json:"lessons"`
	Usage    *usage.Summary `json:"usage"`
}

// AdminDashboardHandler aggregates community counts and the last 30 days
// of LLM spend for the admin dashboard.
func AdminDashboardHandler(ledger *sql.DB, pb *pocketbase.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
			return
		}

		resp := DashboardResponse{}

		if pb != nil {
			for _, c := range []struct {
				collection string
				dest       *int
			}{
				{"families", &resp.Families},
				{"children", &resp.Children},
				{"lessons", &resp.Lessons},
			} {
				count, err := pb.Count(r.Context(), c.collection, "")
				if err != nil {
					slog.Error("failed to count collection",
						"collection", c.collection,
						"error", err,
					)
					sendError(w, "Failed to load dashboard", "DASHBOARD_FAILED", http.StatusInternalServerError)
					return
				}
				*c.dest = count
			}
		}

		if ledger != nil {
			summary, err := usage.Summarize(ledger, time.Now().Add(-dashboardWindow))
			if err != nil {
				slog.Error("failed to summarize llm usage", "error", err)
				sendError(w, "Failed to load dashboard", "DASHBOARD_FAILED", http.StatusInternalServerError)
				return
			}
			resp.Usage = summary
		}

		sendJSON(w, http.StatusOK, resp)
	}
}
