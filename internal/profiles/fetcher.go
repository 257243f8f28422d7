package profiles

import (
	"context"
	"errors"

	"github.com/VisuaForge/VF-Backend/internal/db"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrMissingUserID = errors.New("user id is required")
)

// Fetcher resolves exactly one profile row by its user ID. The lookup is an
// exact-match primary-key read; it can never return a row for a different user.
type Fetcher struct{}

func (Fetcher) FetchByUserID(ctx context.Context, userID string) (Profile, error) {
	if userID == "" {
		return Profile{}, ErrMissingUserID
	}

	var profile Profile
	err := db.DB.WithContext(ctx).First(&profile, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}
