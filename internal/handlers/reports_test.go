package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/homeroomapp/homeroom/internal/config"
	"github.com/homeroomapp/homeroom/internal/mailer"
	"github.com/homeroomapp/homeroom/internal/models"
)

func TestSendReportHandlerMissingFields(t *testing.T) {
	cfg := &config.Config{ReportRecipient: "parent@example.com", ReportSender: "reports@homeroom.local"}
	handler := SendReportHandler(cfg, mailer.NewClient(mailer.Config{}))

	tests := []struct {
		name string
		body string
	}{
		{"missing subject", `{"html": "<p>report</p>"}`},
		{"missing html", `{"subject": "Weekly Progress"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/reports/send", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestSendReportHandlerNoRecipient(t *testing.T) {
	handler := SendReportHandler(&config.Config{}, mailer.NewClient(mailer.Config{}))

	body := `{"subject": "Weekly Progress", "html": "<p>report</p>"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports/send", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	var errResp models.ErrorResponse
	json.NewDecoder(rr.Body).Decode(&errResp)
	if errResp.Code != "REPORTS_NOT_CONFIGURED" {
		t.Errorf("code = %q, want REPORTS_NOT_CONFIGURED", errResp.Code)
	}
}

func TestSendReportHandlerSimulated(t *testing.T) {
	// Recipient configured but no provider credential: simulate the send.
	cfg := &config.Config{ReportRecipient: "parent@example.com", ReportSender: "reports@homeroom.local"}
	handler := SendReportHandler(cfg, mailer.NewClient(mailer.Config{}))

	body := `{"subject": "Weekly Progress", "html": "<p>report</p>"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports/send", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Simulated bool `json:"simulated"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Simulated {
		t.Error("simulated = false, want true")
	}
}

func TestSendReportHandlerProviderFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "invalid sender domain"}`))
	}))
	defer provider.Close()

	cfg := &config.Config{ReportRecipient: "parent@example.com", ReportSender: "reports@homeroom.local"}
	mail := mailer.NewClient(mailer.Config{APIKey: "re_test", Endpoint: provider.URL})
	handler := SendReportHandler(cfg, mail)

	body := `{"subject": "Weekly Progress", "html": "<p>report</p>"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports/send", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestSendReportHandler(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "re_abc123"}`))
	}))
	defer provider.Close()

	cfg := &config.Config{ReportRecipient: "parent@example.com", ReportSender: "reports@homeroom.local"}
	mail := mailer.NewClient(mailer.Config{APIKey: "re_test", Endpoint: provider.URL})
	handler := SendReportHandler(cfg, mail)

	body := `{"subject": "Weekly Progress", "html": "<p>report</p>"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports/send", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		ID        string `json:"id"`
		Simulated bool   `json:"simulated"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "re_abc123" {
		t.Errorf("id = %q, want re_abc123", resp.ID)
	}
	if resp.Simulated {
		t.Error("simulated = true, want false")
	}
}
