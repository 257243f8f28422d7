package images

import (
	"log"

	"github.com/VisuaForge/VF-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "images"); err != nil {
		log.Fatal("Failed to ensure schema images: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(&GeneratedImage{}); err != nil {
		log.Fatal("Failed to auto-migrate image tables", err)
	}

	// Owner-scoped history reads are always newest-first
	if err := db.DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_generated_images_owner_created
		ON images.generated_images (user_id, created_at DESC);
	`).Error; err != nil {
		log.Fatal("Failed to create idx_generated_images_owner_created", err)
	}
}
