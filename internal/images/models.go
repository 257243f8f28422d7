package images

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// GeneratedImage is one persisted generation or edit, owned by the user who
// submitted it. All mutating queries carry the owner ID in their filter.
type GeneratedImage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID    string         `gorm:"not null;index" json:"user_id"`
	ImageURL  string         `gorm:"not null" json:"image_url"`
	Prompt    *string        `json:"prompt,omitempty"`
	Style     *string        `json:"style,omitempty"`
	Mode      string         `gorm:"not null" json:"mode"` // generate, edit
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (GeneratedImage) TableName() string {
	return "images.generated_images"
}

// DailyCount is one bucket of the per-day generation chart.
type DailyCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}
