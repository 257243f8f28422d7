package auth

import (
	"github.com/VisuaForge/VF-Backend/internal/db"
	"github.com/VisuaForge/VF-Backend/internal/utils"
)

// SessionInfo implements middleware.SessionFetcher and middleware.TokenVerifier.
type SessionInfo struct{}

func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	var session Session

	err := db.DB.First(&session, "session_id = ?", id).Error
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (si SessionInfo) VerifyAccessToken(token string) (utils.SessionData, error) {
	claims, err := ParseAccessToken(token)
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
