package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/homeroomapp/homeroom/internal/llm"
	"github.com/homeroomapp/homeroom/internal/metrics"
	"github.com/homeroomapp/homeroom/internal/models"
	"github.com/homeroomapp/homeroom/internal/pocketbase"
	"github.com/homeroomapp/homeroom/internal/usage"
)

// LessonArchiver stores generated lessons for long-term retention.
type LessonArchiver interface {
	StoreLesson(ctx context.Context, id string, lesson *models.Lesson) error
}

// GenerateLessonRequest is the lesson generation request body.
type GenerateLessonRequest struct {
	ChildID    string `json:"childId"`
	Subject    string `json:"subject"`
	CourseName string `json:"courseName"`
	GradeLevel string `json:"gradeLevel"`
}

// GenerateLessonHandler produces a structured lesson for a child via the
// LLM provider. Exactly one upstream call is made per request; there is no
// retry. Persistence to the lessons collection, the usage ledger, and the
// archive are all best-effort and never fail the request.
func GenerateLessonHandler(llmClient *llm.Client, ledger *sql.DB, pb *pocketbase.Client, arch LessonArchiver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
			return
		}

		var req GenerateLessonRequest
		if err := decodeJSON(w, r, &req); err != nil {
			sendError(w, "Invalid request body", "INVALID_REQUEST", http.StatusBadRequest)
			return
		}

		if req.ChildID == "" || req.Subject == "" {
			sendError(w, "childId and subject are required", "MISSING_FIELDS", http.StatusBadRequest)
			return
		}

		// Enrich the prompt with the child's grade level when the caller
		// didn't supply one. A lookup failure is not fatal.
		gradeLevel := req.GradeLevel
		if gradeLevel == "" && pb != nil {
			var child models.Child
			if err := pb.GetOne(r.Context(), "children", req.ChildID, &child); err != nil {
				slog.Warn("failed to look up child for grade level",
					"child_id", req.ChildID,
					"error", err,
				)
			} else {
				gradeLevel = child.GradeLevel
			}
		}

		prompt := llm.BuildLessonPrompt(req.Subject, req.CourseName, gradeLevel)

		start := time.Now()
		completion, err := llmClient.Complete(r.Context(), []llm.Message{
			{Role: "user", Content: prompt},
		})
		metrics.LLMRequestDuration.WithLabelValues(usage.KindLesson).Observe(time.Since(start).Seconds())
		if err != nil {
			handleCompletionError(w, err, "lesson generation")
			metrics.GenerationsTotal.WithLabelValues("failure").Inc()
			return
		}

		lesson, err := llm.ParseLesson(completion.Content)
		if err != nil {
			slog.Error("lesson generation returned unusable content",
				"error", err,
				"model", completion.Model,
				"client", getClientKey(r),
			)
			sendError(w, "Lesson generation failed", "GENERATION_FAILED", http.StatusInternalServerError)
			metrics.GenerationsTotal.WithLabelValues("failure").Inc()
			return
		}

		recordUsage(ledger, usage.Record{
			ClientKey:        getClientKey(r),
			Kind:             usage.KindLesson,
			Model:            completion.Model,
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
		})

		lessonID := persistLesson(r.Context(), pb, req.ChildID, lesson)
		archiveLesson(r.Context(), arch, lessonID, lesson)

		metrics.GenerationsTotal.WithLabelValues("success").Inc()

		slog.Info("lesson generated",
			"subject", req.Subject,
			"child_id", req.ChildID,
			"model", completion.Model,
			"total_tokens", completion.Usage.TotalTokens,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		sendJSON(w, http.StatusOK, lesson)
	}
}

// handleCompletionError maps provider failures onto HTTP responses. A
// missing credential is a configuration error; everything else surfaces as
// a generic failure with detail kept server-side.
func handleCompletionError(w http.ResponseWriter, err error, operation string) {
	if errors.Is(err, llm.ErrNoAPIKey) {
		slog.Error("llm call rejected - no API key configured", "operation", operation)
		sendError(w, "LLM provider is not configured", "LLM_NOT_CONFIGURED", http.StatusInternalServerError)
		return
	}

	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		slog.Error("llm provider call failed",
			"operation", operation,
			"status_code", upstream.StatusCode,
			"message", upstream.Message,
		)
	} else {
		slog.Error("llm call failed", "operation", operation, "error", err)
	}

	sendError(w, "Lesson generation failed", "GENERATION_FAILED", http.StatusInternalServerError)
}

// recordUsage writes a ledger row, logging rather than failing on error.
func recordUsage(ledger *sql.DB, rec usage.Record) {
	if ledger == nil {
		return
	}
	if err := usage.Insert(ledger, rec); err != nil {
		slog.Error("failed to record llm usage", "kind", rec.Kind, "error", err)
		return
	}
	metrics.LLMTokensTotal.WithLabelValues("prompt").Add(float64(rec.PromptTokens))
	metrics.LLMTokensTotal.WithLabelValues("completion").Add(float64(rec.CompletionTokens))
}

// persistLesson stores the lesson in the lessons collection. Returns the
// record id, or a locally generated one when persistence is unavailable.
func persistLesson(ctx context.Context, pb *pocketbase.Client, childID string, lesson *models.Lesson) string {
	record := models.LessonRecord{
		Child:      childID,
		Title:      lesson.Title,
		Subject:    lesson.Subject,
		GradeLevel: lesson.GradeLevel,
		Data:       *lesson,
	}

	if pb != nil {
		var created models.LessonRecord
		if err := pb.Create(ctx, "lessons", record, &created); err != nil {
			slog.Error("failed to persist lesson", "child_id", childID, "error", err)
		} else if created.ID != "" {
			return created.ID
		}
	}

	return uuid.NewString()
}

// archiveLesson writes the lesson to the archive bucket, if configured.
func archiveLesson(ctx context.Context, arch LessonArchiver, id string, lesson *models.Lesson) {
	if arch == nil {
		return
	}
	if err := arch.StoreLesson(ctx, id, lesson); err != nil {
		slog.Error("failed to archive lesson", "lesson_id", id, "error", err)
	}
}

// ListLessonsHandler returns a child's stored lessons, newest first.
func ListLessonsHandler(pb *pocketbase.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
			return
		}

		if pb == nil {
			sendError(w, "Community data store is not configured", "BAAS_NOT_CONFIGURED", http.StatusServiceUnavailable)
			return
		}

		q := pocketbase.ListQuery{Sort: "-created"}
		if childID := r.URL.Query().Get("child_id"); childID != "" {
			q.Filter = fmt.Sprintf("child='%s'", childID)
		}

		items, err := pb.GetFullList(r.Context(), "lessons", q)
		if err != nil {
			slog.Error("failed to list lessons", "error", err)
			sendError(w, "Failed to list lessons", "LIST_FAILED", http.StatusInternalServerError)
			return
		}

		lessons, err := pocketbase.DecodeItems[models.LessonRecord](items)
		if err != nil {
			slog.Error("failed to decode lesson records", "error", err)
			sendError(w, "Failed to list lessons", "LIST_FAILED", http.StatusInternalServerError)
			return
		}

		sendJSON(w, http.StatusOK, map[string]any{"lessons": lessons})
	}
}
