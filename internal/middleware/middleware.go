package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/VisuaForge/VF-Backend/internal/db"
	"github.com/VisuaForge/VF-Backend/internal/utils"
)

type SessionFetcher interface {
	FindSessionByID(id string) (utils.SessionData, error)
}

// TokenVerifier validates a bearer access token and returns the session it represents.
type TokenVerifier interface {
	VerifyAccessToken(token string) (utils.SessionData, error)
}

// SessionMiddleware authenticates a request from either the session_id cookie or an
// Authorization: Bearer access token, and injects the user ID into the context.
func SessionMiddleware(fetcher SessionFetcher, tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := resolveSession(r, fetcher, tokens)
			if err != nil {
				http.Error(w, "Couldn't find session", http.StatusUnauthorized)
				return
			}

			if session.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveSession(r *http.Request, fetcher SessionFetcher, tokens TokenVerifier) (utils.SessionData, error) {
	if cookie, err := r.Cookie("session_id"); err == nil {
		return fetcher.FindSessionByID(cookie.Value)
	}

	header := r.Header.Get("Authorization")
	if tokens != nil && strings.HasPrefix(header, "Bearer ") {
		return tokens.VerifyAccessToken(strings.TrimPrefix(header, "Bearer "))
	}

	return utils.SessionData{}, http.ErrNoCookie
}

var allowed = map[string]struct{}{
	"http://localhost:5173":         {},
	"http://localhost:5174":         {},
	"https://visuaforge.app":        {},
	"https://www.visuaforge.app":    {},
	"https://studio.visuaforge.app": {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it’s on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		w.Header().Set("Access-Control-Expose-Headers", "Retry-After, Cache-Control")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type Profile struct {
	ID   string `gorm:"primaryKey"`
	Role string
}

func (Profile) TableName() string { return "app_auth.profiles" }

func AdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get user ID from context
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
				return
			}

			// Fetch the profile by ID
			var profile Profile
			if err := db.DB.First(&profile, "id = ?", userID).Error; err != nil {
				http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
				return
			}

			// Check role
			if profile.Role != "admin" {
				http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
