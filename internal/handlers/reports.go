package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/homeroomapp/homeroom/internal/config"
	"github.com/homeroomapp/homeroom/internal/mailer"
	"github.com/homeroomapp/homeroom/internal/metrics"
)

// SendReportRequest is the report dispatch request body. WeekStart and
// WeekEnd label the reporting period and are carried for logging only.
type SendReportRequest struct {
	Subject   string `json:"subject"`
	HTML      string `json:"html"`
	WeekStart string `json:"weekStart"`
	WeekEnd   string `json:"weekEnd"`
}

// SendReportHandler dispatches a progress report email to the configured
// recipient. When no email provider credential is configured the send is
// simulated: the request succeeds and the report is logged instead.
func SendReportHandler(cfg *config.Config, mail *mailer.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
			return
		}

		var req SendReportRequest
		if err := decodeJSON(w, r, &req); err != nil {
			sendError(w, "Invalid request body", "INVALID_REQUEST", http.StatusBadRequest)
			return
		}

		if req.Subject == "" || req.HTML == "" {
			sendError(w, "subject and html are required", "MISSING_FIELDS", http.StatusBadRequest)
			return
		}

		if cfg.ReportRecipient == "" {
			slog.Error("report dispatch rejected - no recipient configured")
			sendError(w, "Report recipient is not configured", "REPORTS_NOT_CONFIGURED", http.StatusInternalServerError)
			return
		}

		if !mail.Configured() {
			slog.Info("email provider not configured, simulating report send",
				"recipient", cfg.ReportRecipient,
				"subject", req.Subject,
				"week_start", req.WeekStart,
				"week_end", req.WeekEnd,
			)
			metrics.ReportsTotal.WithLabelValues("simulated").Inc()
			sendJSON(w, http.StatusOK, map[string]any{
				"simulated": true,
				"message":   "Email provider not configured; report logged instead of sent",
			})
			return
		}

		id, err := mail.Send(r.Context(), mailer.Email{
			From:    cfg.ReportSender,
			To:      []string{cfg.ReportRecipient},
			Subject: req.Subject,
			HTML:    req.HTML,
		})
		if err != nil {
			var provider *mailer.ProviderError
			if errors.As(err, &provider) {
				slog.Error("report delivery rejected by provider",
					"status_code", provider.StatusCode,
					"body", provider.Body,
				)
			} else {
				slog.Error("report delivery failed", "error", err)
			}
			metrics.ReportsTotal.WithLabelValues("failure").Inc()
			sendError(w, "Failed to send report", "SEND_FAILED", http.StatusInternalServerError)
			return
		}

		metrics.ReportsTotal.WithLabelValues("sent").Inc()
		sendJSON(w, http.StatusOK, map[string]any{"id": id, "simulated": false})
	}
}
