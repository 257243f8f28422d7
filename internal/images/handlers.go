package images

import (
	"encoding/json"
	"net/http"

	"github.com/VisuaForge/VF-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

// statsWindowDays matches the dashboard's trailing activity chart.
const statsWindowDays = 7

// ListHandler returns the caller's generation history, newest first.
// Query param "mode" filters to generate or edit.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode != "" && mode != "generate" && mode != "edit" {
		http.Error(w, "Invalid mode filter", http.StatusBadRequest)
		return
	}

	records, err := Store{}.ListByUser(r.Context(), userID, mode)
	if err != nil {
		http.Error(w, "Failed to fetch images: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []GeneratedImage{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// StatsHandler returns the caller's totals and the trailing per-day counts that
// feed the dashboard chart.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	total, err := Store{}.CountByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to count images: "+err.Error(), http.StatusInternalServerError)
		return
	}

	daily, err := Store{}.DailyCounts(r.Context(), userID, statsWindowDays)
	if err != nil {
		http.Error(w, "Failed to fetch daily counts: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if daily == nil {
		daily = []DailyCount{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total": total,
		"daily": daily,
	})
}

// DeleteHandler removes one of the caller's records. The owner ID is part of the
// delete filter, so deleting someone else's record matches zero rows.
func DeleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	imageID := chi.URLParam(r, "image_id")

	affected, err := Store{}.Delete(r.Context(), imageID, userID)
	if err != nil {
		http.Error(w, "Failed to delete image: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"ok":true}`))
}
