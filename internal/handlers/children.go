package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/homeroomapp/homeroom/internal/models"
	"github.com/homeroomapp/homeroom/internal/pocketbase"
)

// ChildrenHandler handles the children collection: GET lists children,
// optionally scoped to one family, POST enrolls a new child.
func ChildrenHandler(pb *pocketbase.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pb == nil {
			sendError(w, "Community data store is not configured", "BAAS_NOT_CONFIGURED", http.StatusServiceUnavailable)
			return
		}

		switch r.Method {
		case http.MethodGet:
			q := pocketbase.ListQuery{Sort: "name"}
			if familyID := r.URL.Query().Get("family_id"); familyID != "" {
				q.Filter = fmt.Sprintf("family='%s'", familyID)
			}

			items, err := pb.GetFullList(r.Context(), "children", q)
			if err != nil {
				slog.Error("failed to list children", "error", err)
				sendError(w, "Failed to list children", "LIST_FAILED", http.StatusInternalServerError)
				return
			}

			children, err := pocketbase.DecodeItems[models.Child](items)
			if err != nil {
				slog.Error("failed to decode child records", "error", err)
				sendError(w, "Failed to list children", "LIST_FAILED", http.StatusInternalServerError)
				return
			}

			sendJSON(w, http.StatusOK, map[string]any{"children": children})

		case http.MethodPost:
			var child models.Child
			if err := decodeJSON(w, r, &child); err != nil {
				sendError(w, "Invalid request body", "INVALID_REQUEST", http.StatusBadRequest)
				return
			}

			if child.Name == "" || child.Family == "" {
				sendError(w, "name and family are required", "MISSING_FIELDS", http.StatusBadRequest)
				return
			}

			var created models.Child
			if err := pb.Create(r.Context(), "children", child, &created); err != nil {
				if errors.Is(err, pocketbase.ErrValidation) {
					sendError(w, "Invalid child profile", "VALIDATION_FAILED", http.StatusBadRequest)
					return
				}
				slog.Error("failed to create child", "error", err)
				sendError(w, "Failed to create child", "CREATE_FAILED", http.StatusInternalServerError)
				return
			}

			sendJSON(w, http.StatusCreated, created)

		default:
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
		}
	}
}
