package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"os"
	"time"

	"github.com/VisuaForge/VF-Backend/internal/db"
	"github.com/VisuaForge/VF-Backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 6 * time.Hour

// SessionResponse is what login and /auth/session hand back to clients. It is the
// credential the frontend session store holds for the lifetime of the tab.
type SessionResponse struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	if user.Email == "" || user.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	}
	if len(user.Password) < 6 {
		http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	// Check if email is taken
	var existing User
	err = db.DB.First(&existing, "email = ?", user.Email).Error
	if err == nil {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}
	user.HashedPassword = string(hashed)
	user.UserID = uuid.New().String()
	user.Password = ""

	if err := db.DB.Create(&user).Error; err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	// Provision the matching profile row with the least-privileged role. Raw insert
	// keeps this package from depending on the profiles package.
	if err := db.DB.Exec(`
		INSERT INTO app_auth.profiles (id, role) VALUES (?, 'user')
		ON CONFLICT (id) DO NOTHING
	`, user.UserID).Error; err != nil {
		http.Error(w, "Failed to provision profile", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"user_id": user.UserID,
		"email":   user.Email,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var user User
	var session Session
	var existing Session

	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}

	err = db.DB.First(&user, "email = ?", user.Email).Error
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(user.Password))
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	// Passwords matched, rotate the session
	sessionID := uuid.New().String()
	expiresAt := time.Now().Add(sessionTTL)

	db.DB.Where("user_id = ?", user.UserID).First(&existing)
	if existing.UserID != "" {
		db.DB.Model(&existing).Updates(Session{
			SessionID: sessionID,
			ExpiresAt: expiresAt,
		})
	} else {
		session.SessionID = sessionID
		session.UserID = user.UserID
		session.ExpiresAt = expiresAt
		db.DB.Create(&session)
	}

	http.SetCookie(w, sessionCookie(sessionID, expiresAt))

	token, err := NewAccessToken(user.UserID, user.Email, AccessTokenTTL)
	if err != nil {
		http.Error(w, "Server error minting token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionResponse{
		AccessToken: token,
		UserID:      user.UserID,
		Email:       user.Email,
		ExpiresAt:   expiresAt,
	})
}

// SessionHandler implements the getSession() contract: the current session, or 401
// when no valid session exists.
func SessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		http.Error(w, "Couldn't find session", http.StatusUnauthorized)
		return
	}
	if session.ExpiresAt.Before(time.Now()) {
		http.Error(w, "Session expired", http.StatusUnauthorized)
		return
	}

	var user User
	if err := db.DB.First(&user, "user_id = ?", session.UserID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}

	token, err := NewAccessToken(user.UserID, user.Email, AccessTokenTTL)
	if err != nil {
		http.Error(w, "Server error minting token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionResponse{
		AccessToken: token,
		UserID:      user.UserID,
		Email:       user.Email,
		ExpiresAt:   session.ExpiresAt,
	})
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFromRequest(r)
	if err != nil {
		http.Error(w, "Couldn't find session", http.StatusUnauthorized)
		return
	}

	db.DB.Where("user_id = ?", session.UserID).Delete(&Session{})

	// Replace the cookie with an expired/empty cookie
	deletedCookie := &http.Cookie{
		Name:   "session_id",
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	}
	http.SetCookie(w, deletedCookie)

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

type MeResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	err := db.DB.First(&user, "user_id = ?", userID).Error
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MeResponse{
		UserID: userID,
		Email:  user.Email,
	})
}

// UpdateHandler is email/password self-service. These go through the identity
// provider, never through the profile record.
func UpdateHandler(w http.ResponseWriter, r *http.Request) {
	type UpdateRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var user User
	if err := db.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{}
	if req.Email != "" && req.Email != user.Email {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			http.Error(w, "Invalid email address", http.StatusBadRequest)
			return
		}
		var existing User
		if err := db.DB.First(&existing, "email = ?", req.Email).Error; err == nil {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		updates["email"] = req.Email
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Server error hashing password", http.StatusInternalServerError)
			return
		}
		updates["hashed_password"] = string(hashed)
	}

	if len(updates) == 0 {
		http.Error(w, "No fields to update", http.StatusBadRequest)
		return
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Account updated")
}

// sessionFromRequest resolves the session row from the cookie, falling back to a
// bearer token for cookie-less API clients.
func sessionFromRequest(r *http.Request) (Session, error) {
	if cookie, err := r.Cookie("session_id"); err == nil {
		var session Session
		if err := db.DB.First(&session, "session_id = ?", cookie.Value).Error; err != nil {
			return Session{}, err
		}
		return session, nil
	}

	header := r.Header.Get("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		claims, err := ParseAccessToken(header[7:])
		if err != nil {
			return Session{}, err
		}
		var session Session
		if err := db.DB.First(&session, "user_id = ?", claims.UserID).Error; err != nil {
			return Session{}, err
		}
		return session, nil
	}

	return Session{}, http.ErrNoCookie
}

// sessionCookie builds the session_id cookie. Deployed environments set PORT and
// sit behind TLS; local dev (no PORT) needs Secure=false so cookies work over
// plain HTTP.
func sessionCookie(value string, expires time.Time) *http.Cookie {
	secure := os.Getenv("PORT") != ""
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     "session_id",
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: sameSite,
		Secure:   secure,
	}
}
