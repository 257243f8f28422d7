package plans

import (
	"context"

	"github.com/VisuaForge/VF-Backend/internal/db"
)

// profileRow mirrors the fields of app_auth.profiles this package reads.
type profileRow struct {
	ID   string `gorm:"primaryKey"`
	Role string
	Plan string
}

func (profileRow) TableName() string { return "app_auth.profiles" }

// Keeper resolves a user's tier from their profile row and enforces the quota.
// Admins are never capped. A user without a profile row is on the free tier.
type Keeper struct {
	quota *Quota
}

func NewKeeper(quota *Quota) Keeper {
	return Keeper{quota: quota}
}

func (k Keeper) Consume(ctx context.Context, userID string) error {
	role, plan := k.lookup(ctx, userID)
	if role == "admin" {
		return nil
	}
	return k.quota.Consume(ctx, userID, plan)
}

func (k Keeper) Remaining(ctx context.Context, userID string) (remaining int, unlimited bool, err error) {
	role, plan := k.lookup(ctx, userID)
	if role == "admin" {
		return 0, true, nil
	}
	return k.quota.Remaining(ctx, userID, plan)
}

func (k Keeper) lookup(ctx context.Context, userID string) (role, plan string) {
	var row profileRow
	if err := db.DB.WithContext(ctx).First(&row, "id = ?", userID).Error; err != nil {
		return "user", "free"
	}
	if row.Plan == "" {
		row.Plan = "free"
	}
	return row.Role, row.Plan
}
