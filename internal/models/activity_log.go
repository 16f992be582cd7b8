package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity actions recorded for authenticated users.
const (
	ActivityRecipeView     = "recipe.view"
	ActivityRecipeCreate   = "recipe.create"
	ActivityRecipeFavorite = "recipe.favorite"
)

type ActivityLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Action    string     `gorm:"size:50;not null" json:"action"`
	RecipeID  *uuid.UUID `gorm:"type:uuid" json:"recipe_id,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
