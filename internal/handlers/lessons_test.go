package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/homeroomapp/homeroom/internal/llm"
	"github.com/homeroomapp/homeroom/internal/models"
	"github.com/homeroomapp/homeroom/internal/testutil"
)

// chatStub runs a fake chat-completions provider. Each request body is
// passed to capture (when non-nil) before the canned reply is returned.
func chatStub(t *testing.T, status int, content string, capture func(body []byte)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		if capture != nil {
			body, _ := io.ReadAll(r.Body)
			capture(body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 200 && status < 300 {
			fmt.Fprintf(w, `{
				"model": "gpt-4o-mini",
				"choices": [{"message": {"role": "assistant", "content": %s}}],
				"usage": {"prompt_tokens": 120, "completion_tokens": 450, "total_tokens": 570}
			}`, mustJSONString(content))
		} else {
			fmt.Fprint(w, `{"error": {"message": "upstream unavailable", "type": "server_error"}}`)
		}
	}))
}

func mustJSONString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func stubLLMClient(t *testing.T, server *httptest.Server) *llm.Client {
	t.Helper()
	return llm.NewClient(llm.Config{APIKey: "test-key", BaseURL: server.URL})
}

func TestGenerateLessonHandlerMissingFields(t *testing.T) {
	server := chatStub(t, http.StatusOK, testutil.ValidLessonJSON, nil)
	defer server.Close()

	handler := GenerateLessonHandler(stubLLMClient(t, server), testutil.SetupLedger(t), nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing childId", `{"subject": "Science"}`},
		{"missing subject", `{"childId": "c1"}`},
		{"empty body", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/lessons/generate", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}

			var errResp models.ErrorResponse
			json.NewDecoder(rr.Body).Decode(&errResp)
			if errResp.Code != "MISSING_FIELDS" {
				t.Errorf("code = %q, want MISSING_FIELDS", errResp.Code)
			}
		})
	}
}

func TestGenerateLessonHandlerMethodNotAllowed(t *testing.T) {
	server := chatStub(t, http.StatusOK, testutil.ValidLessonJSON, nil)
	defer server.Close()

	handler := GenerateLessonHandler(stubLLMClient(t, server), testutil.SetupLedger(t), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/lessons/generate", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestGenerateLessonHandlerNoAPIKey(t *testing.T) {
	client := llm.NewClient(llm.Config{})
	handler := GenerateLessonHandler(client, testutil.SetupLedger(t), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/lessons/generate",
		strings.NewReader(`{"childId": "c1", "subject": "Science"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	var errResp models.ErrorResponse
	json.NewDecoder(rr.Body).Decode(&errResp)
	if errResp.Code != "LLM_NOT_CONFIGURED" {
		t.Errorf("code = %q, want LLM_NOT_CONFIGURED", errResp.Code)
	}
}

func TestGenerateLessonHandlerUpstreamFailure(t *testing.T) {
	server := chatStub(t, http.StatusBadGateway, "", nil)
	defer server.Close()

	handler := GenerateLessonHandler(stubLLMClient(t, server), testutil.SetupLedger(t), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/lessons/generate",
		strings.NewReader(`{"childId": "c1", "subject": "Science"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	var errResp models.ErrorResponse
	json.NewDecoder(rr.Body).Decode(&errResp)
	if errResp.Code != "GENERATION_FAILED" {
		t.Errorf("code = %q, want GENERATION_FAILED", errResp.Code)
	}
}

func TestGenerateLessonHandlerUnparsableContent(t *testing.T) {
	server := chatStub(t, http.StatusOK, "Sorry, I can't produce JSON today.", nil)
	defer server.Close()

	handler := GenerateLessonHandler(stubLLMClient(t, server), testutil.SetupLedger(t), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/lessons/generate",
		strings.NewReader(`{"childId": "c1", "subject": "Science"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestGenerateLessonHandler(t *testing.T) {
	// The model wraps its JSON in a fence; the handler must tolerate it.
	fenced := "```json\n" + testutil.ValidLessonJSON + "\n```"
	server := chatStub(t, http.StatusOK, fenced, nil)
	defer server.Close()

	ledger := testutil.SetupLedger(t)
	handler := GenerateLessonHandler(stubLLMClient(t, server), ledger, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/lessons/generate",
		strings.NewReader(`{"childId": "c1", "subject": "Math", "courseName": "Algebra I", "gradeLevel": "5th"}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var lesson models.Lesson
	if err := json.NewDecoder(rr.Body).Decode(&lesson); err != nil {
		t.Fatalf("failed to decode lesson: %v", err)
	}

	if lesson.Title == "" {
		t.Error("lesson title is empty")
	}
	if lesson.Content.Hook == "" {
		t.Error("lesson hook is empty")
	}
	if len(lesson.InteractiveData.Questions) < 1 {
		t.Error("lesson has no interactive questions")
	}

	// The call must be metered in the ledger under the caller's client key.
	var count, promptTokens int
	err := ledger.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(prompt_tokens), 0) FROM llm_usage WHERE client_key = ? AND kind = 'lesson'`,
		"203.0.113.7",
	).Scan(&count, &promptTokens)
	if err != nil {
		t.Fatalf("failed to query ledger: %v", err)
	}
	if count != 1 {
		t.Errorf("ledger rows = %d, want 1", count)
	}
	if promptTokens != 120 {
		t.Errorf("prompt_tokens = %d, want 120", promptTokens)
	}
}
