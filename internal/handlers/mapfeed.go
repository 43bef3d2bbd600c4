package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/homeroomapp/homeroom/internal/geo"
	"github.com/homeroomapp/homeroom/internal/models"
	"github.com/homeroomapp/homeroom/internal/pocketbase"
)

// MapFamily is one pin on the community map. Only fields safe to show
// publicly are included.
type MapFamily struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	City          string  `json:"city,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	ChildrenCount int     `json:"children_count"`
	DistanceKm    float64 `json:"distance_km,omitempty"`
}

// MapFeedHandler returns families that can be placed on the community map.
// With lat, lng, and radius_km query parameters the feed is narrowed to
// families within the radius, annotated with their distance.
func MapFeedHandler(pb *pocketbase.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
			return
		}

		if pb == nil {
			sendError(w, "Community data store is not configured", "BAAS_NOT_CONFIGURED", http.StatusServiceUnavailable)
			return
		}

		lat, lng, radiusKm, filtered, err := parseMapQuery(r)
		if err != nil {
			sendError(w, err.Error(), "INVALID_PARAMETER", http.StatusBadRequest)
			return
		}

		items, err := pb.GetFullList(r.Context(), "families", pocketbase.ListQuery{})
		if err != nil {
			slog.Error("failed to list families for map", "error", err)
			sendError(w, "Failed to load map data", "LIST_FAILED", http.StatusInternalServerError)
			return
		}

		families, err := pocketbase.DecodeItems[models.Family](items)
		if err != nil {
			slog.Error("failed to decode family records for map", "error", err)
			sendError(w, "Failed to load map data", "LIST_FAILED", http.StatusInternalServerError)
			return
		}

		pins := make([]MapFamily, 0, len(families))
		for _, f := range families {
			if !f.HasCoordinates() {
				continue
			}

			pin := MapFamily{
				ID:            f.ID,
				Name:          f.Name,
				City:          f.City,
				Latitude:      f.Latitude,
				Longitude:     f.Longitude,
				ChildrenCount: f.ChildrenCount,
			}

			if filtered {
				distance := geo.Haversine(lat, lng, f.Latitude, f.Longitude)
				if distance > radiusKm {
					continue
				}
				pin.DistanceKm = distance
			}

			pins = append(pins, pin)
		}

		sendJSON(w, http.StatusOK, map[string]any{"families": pins})
	}
}

var (
	errImpartialMapQuery = errors.New("lat, lng, and radius_km must be supplied together")
	errInvalidLatitude   = errors.New("lat must be a number between -90 and 90")
	errInvalidLongitude  = errors.New("lng must be a number between -180 and 180")
	errInvalidRadius     = errors.New("radius_km must be a positive number")
)

// parseMapQuery reads the optional lat/lng/radius_km parameters. All three
// must be supplied together.
func parseMapQuery(r *http.Request) (lat, lng, radiusKm float64, filtered bool, err error) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	radiusStr := r.URL.Query().Get("radius_km")

	if latStr == "" && lngStr == "" && radiusStr == "" {
		return 0, 0, 0, false, nil
	}

	if latStr == "" || lngStr == "" || radiusStr == "" {
		return 0, 0, 0, false, errImpartialMapQuery
	}

	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, 0, false, errInvalidLatitude
	}

	lng, err = strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, 0, false, errInvalidLongitude
	}

	radiusKm, err = strconv.ParseFloat(radiusStr, 64)
	if err != nil || radiusKm <= 0 {
		return 0, 0, 0, false, errInvalidRadius
	}

	return lat, lng, radiusKm, true, nil
}
