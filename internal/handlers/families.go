package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/homeroomapp/homeroom/internal/models"
	"github.com/homeroomapp/homeroom/internal/pocketbase"
)

// FamiliesHandler handles the family collection: GET lists all families,
// POST registers a new one.
func FamiliesHandler(pb *pocketbase.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pb == nil {
			sendError(w, "Community data store is not configured", "BAAS_NOT_CONFIGURED", http.StatusServiceUnavailable)
			return
		}

		switch r.Method {
		case http.MethodGet:
			items, err := pb.GetFullList(r.Context(), "families", pocketbase.ListQuery{Sort: "-created"})
			if err != nil {
				slog.Error("failed to list families", "error", err)
				sendError(w, "Failed to list families", "LIST_FAILED", http.StatusInternalServerError)
				return
			}

			families, err := pocketbase.DecodeItems[models.Family](items)
			if err != nil {
				slog.Error("failed to decode family records", "error", err)
				sendError(w, "Failed to list families", "LIST_FAILED", http.StatusInternalServerError)
				return
			}

			sendJSON(w, http.StatusOK, map[string]any{"families": families})

		case http.MethodPost:
			var family models.Family
			if err := decodeJSON(w, r, &family); err != nil {
				sendError(w, "Invalid request body", "INVALID_REQUEST", http.StatusBadRequest)
				return
			}

			if family.Name == "" {
				sendError(w, "name is required", "MISSING_FIELDS", http.StatusBadRequest)
				return
			}

			var created models.Family
			if err := pb.Create(r.Context(), "families", family, &created); err != nil {
				if errors.Is(err, pocketbase.ErrValidation) {
					sendError(w, "Invalid family profile", "VALIDATION_FAILED", http.StatusBadRequest)
					return
				}
				slog.Error("failed to create family", "error", err)
				sendError(w, "Failed to create family", "CREATE_FAILED", http.StatusInternalServerError)
				return
			}

			sendJSON(w, http.StatusCreated, created)

		default:
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
		}
	}
}

// FamilyHandler handles a single family record addressed by id.
func FamilyHandler(pb *pocketbase.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pb == nil {
			sendError(w, "Community data store is not configured", "BAAS_NOT_CONFIGURED", http.StatusServiceUnavailable)
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/api/families/")
		if id == "" || strings.Contains(id, "/") {
			sendError(w, "Invalid family id", "INVALID_REQUEST", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodGet:
			var family models.Family
			if err := pb.GetOne(r.Context(), "families", id, &family); err != nil {
				if errors.Is(err, pocketbase.ErrNotFound) {
					sendError(w, "Family not found", "NOT_FOUND", http.StatusNotFound)
					return
				}
				slog.Error("failed to get family", "id", id, "error", err)
				sendError(w, "Failed to get family", "GET_FAILED", http.StatusInternalServerError)
				return
			}
			sendJSON(w, http.StatusOK, family)

		case http.MethodPatch:
			var patch models.Family
			if err := decodeJSON(w, r, &patch); err != nil {
				sendError(w, "Invalid request body", "INVALID_REQUEST", http.StatusBadRequest)
				return
			}

			var updated models.Family
			if err := pb.Update(r.Context(), "families", id, patch, &updated); err != nil {
				if errors.Is(err, pocketbase.ErrNotFound) {
					sendError(w, "Family not found", "NOT_FOUND", http.StatusNotFound)
					return
				}
				slog.Error("failed to update family", "id", id, "error", err)
				sendError(w, "Failed to update family", "UPDATE_FAILED", http.StatusInternalServerError)
				return
			}
			sendJSON(w, http.StatusOK, updated)

		case http.MethodDelete:
			if err := pb.Delete(r.Context(), "families", id); err != nil {
				if errors.Is(err, pocketbase.ErrNotFound) {
					sendError(w, "Family not found", "NOT_FOUND", http.StatusNotFound)
					return
				}
				slog.Error("failed to delete family", "id", id, "error", err)
				sendError(w, "Failed to delete family", "DELETE_FAILED", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
		}
	}
}
