package images

import (
	"context"
	"fmt"

	"github.com/VisuaForge/VF-Backend/internal/db"
)

// Store is the gorm-backed record store for generated images.
type Store struct{}

func (Store) Insert(ctx context.Context, rec *GeneratedImage) error {
	if rec.UserID == "" {
		return fmt.Errorf("insert image record: missing owner id")
	}
	return db.DB.WithContext(ctx).Create(rec).Error
}

// ListByUser returns the owner's records, newest first. mode filters to
// "generate" or "edit"; empty means all.
func (Store) ListByUser(ctx context.Context, userID, mode string) ([]GeneratedImage, error) {
	query := db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if mode != "" {
		query = query.Where("mode = ?", mode)
	}

	var records []GeneratedImage
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a record by id, scoped to its owner. A cross-user delete
// matches zero rows; the owner check lives in the query, not the UI.
func (Store) Delete(ctx context.Context, id, userID string) (int64, error) {
	result := db.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&GeneratedImage{})
	return result.RowsAffected, result.Error
}

// DailyCounts returns the owner's per-day generation counts over the trailing
// window, oldest bucket first.
func (Store) DailyCounts(ctx context.Context, userID string, days int) ([]DailyCount, error) {
	var counts []DailyCount
	err := db.DB.WithContext(ctx).Raw(`
		SELECT date_trunc('day', created_at) AS day, COUNT(*) AS count
		FROM images.generated_images
		WHERE user_id = ? AND created_at >= NOW() - (? * INTERVAL '1 day')
		GROUP BY 1
		ORDER BY 1
	`, userID, days).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountByUser returns the owner's total record count.
func (Store) CountByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := db.DB.WithContext(ctx).
		Model(&GeneratedImage{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}
