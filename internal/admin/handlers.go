package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/VisuaForge/VF-Backend/internal/db"
	"github.com/VisuaForge/VF-Backend/internal/images"
	"github.com/VisuaForge/VF-Backend/internal/profiles"
	"github.com/go-chi/chi/v5"
)

// UserSummary is one row of the user management table.
type UserSummary struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      string  `json:"role"`
	Plan      string  `json:"plan"`
}

// ListUsersHandler returns all accounts with their profile fields.
func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	var users []UserSummary
	err := db.DB.WithContext(r.Context()).Raw(`
		SELECT u.user_id, u.email, p.first_name, p.last_name,
		       COALESCE(p.role, 'user') AS role, COALESCE(p.plan, 'free') AS plan
		FROM app_auth.users u
		LEFT JOIN app_auth.profiles p ON p.id = u.user_id
		ORDER BY u.email
	`).Scan(&users).Error
	if err != nil {
		http.Error(w, "Failed to fetch users: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []UserSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// UpdateRoleHandler changes a user's role. This is the only write path for
// roles; self-service profile updates cannot touch them.
func UpdateRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if req.Role != profiles.RoleUser && req.Role != profiles.RoleAdmin {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	result := db.DB.WithContext(r.Context()).
		Model(&profiles.Profile{}).
		Where("id = ?", userID).
		Update("role", req.Role)
	if result.Error != nil {
		http.Error(w, "Failed to update role", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}

// UpdatePlanHandler changes a user's subscription tier.
func UpdatePlanHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req struct {
		Plan string `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if req.Plan == "" {
		http.Error(w, "Plan is required", http.StatusBadRequest)
		return
	}

	result := db.DB.WithContext(r.Context()).
		Model(&profiles.Profile{}).
		Where("id = ?", userID).
		Update("plan", req.Plan)
	if result.Error != nil {
		http.Error(w, "Failed to update plan", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}

// StatsResponse is the admin dashboard's usage overview.
type StatsResponse struct {
	TotalUsers  int64               `json:"total_users"`
	TotalImages int64               `json:"total_images"`
	ByMode      map[string]int64    `json:"by_mode"`
	Daily       []images.DailyCount `json:"daily"`
}

// StatsHandler aggregates usage across all users.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := StatsResponse{ByMode: map[string]int64{}}

	if err := db.DB.WithContext(ctx).Raw(`SELECT COUNT(*) FROM app_auth.users`).
		Scan(&resp.TotalUsers).Error; err != nil {
		http.Error(w, "Failed to count users: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := db.DB.WithContext(ctx).Model(&images.GeneratedImage{}).
		Count(&resp.TotalImages).Error; err != nil {
		http.Error(w, "Failed to count images: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var modeCounts []struct {
		Mode  string
		Count int64
	}
	if err := db.DB.WithContext(ctx).Model(&images.GeneratedImage{}).
		Select("mode, COUNT(*) AS count").
		Group("mode").
		Scan(&modeCounts).Error; err != nil {
		http.Error(w, "Failed to count by mode: "+err.Error(), http.StatusInternalServerError)
		return
	}
	for _, mc := range modeCounts {
		resp.ByMode[mc.Mode] = mc.Count
	}

	if err := db.DB.WithContext(ctx).Raw(`
		SELECT date_trunc('day', created_at) AS day, COUNT(*) AS count
		FROM images.generated_images
		WHERE created_at >= NOW() - INTERVAL '30 days'
		GROUP BY 1
		ORDER BY 1
	`).Scan(&resp.Daily).Error; err != nil {
		http.Error(w, "Failed to fetch daily counts: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if resp.Daily == nil {
		resp.Daily = []images.DailyCount{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// LogEntry is one generation log row with its owner's email.
type LogEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"image_url"`
	Prompt    *string   `json:"prompt"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// LogsHandler returns the most recent generations across all users.
func LogsHandler(w http.ResponseWriter, r *http.Request) {
	var logs []LogEntry
	err := db.DB.WithContext(r.Context()).Raw(`
		SELECT g.id, g.user_id, u.email, g.image_url, g.prompt, g.mode, g.created_at
		FROM images.generated_images g
		JOIN app_auth.users u ON u.user_id = g.user_id
		ORDER BY g.created_at DESC
		LIMIT 100
	`).Scan(&logs).Error
	if err != nil {
		http.Error(w, "Failed to fetch logs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []LogEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}
