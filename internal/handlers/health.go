package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/homeroomapp/homeroom/internal/llm"
	"github.com/homeroomapp/homeroom/internal/models"
)

// HealthHandler reports service health: ledger connectivity and whether the
// LLM provider is configured.
func HealthHandler(ledger *sql.DB, llmClient *llm.Client, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
			return
		}

		ledgerOK := ledger != nil && ledger.Ping() == nil

		status := "ok"
		httpStatus := http.StatusOK
		if !ledgerOK {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		sendJSON(w, httpStatus, models.HealthResponse{
			Status:        status,
			UptimeSeconds: int64(time.Since(startTime).Seconds()),
			LedgerOK:      ledgerOK,
			LLMConfigured: llmClient.Configured(),
		})
	}
}
