package profiles

import (
	"log"

	"github.com/VisuaForge/VF-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&Profile{}); err != nil {
		log.Fatal("Failed to auto-migrate profile table", err)
	}
}
