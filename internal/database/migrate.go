package database

import (
	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/internal/models"
)

// AutoMigrate creates or updates the schema for every application model.
// Production deployments run the SQL files in migrations/ via cmd/migrate
// instead; this path serves development and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Favorite{},
		&models.Collection{},
		&models.CollectionRecipe{},
		&models.Review{},
		&models.ChatConversation{},
		&models.ChatMessage{},
		&models.ActivityLog{},
		&models.AdminAction{},
	)
}
