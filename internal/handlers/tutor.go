package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/homeroomapp/homeroom/internal/llm"
	"github.com/homeroomapp/homeroom/internal/metrics"
	"github.com/homeroomapp/homeroom/internal/usage"
)

// historyLimit is how many trailing conversation turns are forwarded
// upstream. Older turns are dropped.
const historyLimit = 10

// TutorRequest is the tutoring request body. Messages is the running
// conversation in chronological order, oldest first.
type TutorRequest struct {
	StudentName string        `json:"studentName"`
	GradeLevel  string        `json:"gradeLevel"`
	Subject     string        `json:"subject"`
	Messages    []llm.Message `json:"messages"`
}

// TutorResponse carries the tutor's reply.
type TutorResponse struct {
	Message string    `json:"message"`
	Usage   llm.Usage `json:"usage"`
}

// TutorHandler relays a tutoring conversation to the LLM provider with the
// behavioral policy prepended as a system message.
func TutorHandler(llmClient *llm.Client, ledger *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
			return
		}

		var req TutorRequest
		if err := decodeJSON(w, r, &req); err != nil {
			sendError(w, "Invalid request body", "INVALID_REQUEST", http.StatusBadRequest)
			return
		}

		if len(req.Messages) == 0 {
			sendError(w, "messages cannot be empty", "MISSING_FIELDS", http.StatusBadRequest)
			return
		}

		studentName := req.StudentName
		if studentName == "" {
			studentName = "the student"
		}

		system := llm.Message{
			Role:    "system",
			Content: llm.BuildTutorSystemPrompt(studentName, req.GradeLevel, req.Subject),
		}
		conversation := append([]llm.Message{system}, llm.LastN(req.Messages, historyLimit)...)

		start := time.Now()
		completion, err := llmClient.Complete(r.Context(), conversation)
		metrics.LLMRequestDuration.WithLabelValues(usage.KindTutor).Observe(time.Since(start).Seconds())
		if err != nil {
			handleCompletionError(w, err, "tutoring")
			metrics.TutorRequestsTotal.WithLabelValues("failure").Inc()
			return
		}

		reply := strings.TrimSpace(completion.Content)
		if reply == "" {
			slog.Error("tutor reply was empty", "model", completion.Model)
			sendError(w, "Tutoring request failed", "GENERATION_FAILED", http.StatusInternalServerError)
			metrics.TutorRequestsTotal.WithLabelValues("failure").Inc()
			return
		}

		recordUsage(ledger, usage.Record{
			ClientKey:        getClientKey(r),
			Kind:             usage.KindTutor,
			Model:            completion.Model,
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
		})

		metrics.TutorRequestsTotal.WithLabelValues("success").Inc()

		sendJSON(w, http.StatusOK, TutorResponse{
			Message: reply,
			Usage:   completion.Usage,
		})
	}
}
