package utils

import "time"

// SessionData is the minimal session view middleware needs to authorize a request.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}
