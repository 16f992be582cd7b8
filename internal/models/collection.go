package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection groups recipes under one owner. RecipeCount tracks live
// membership and is maintained alongside CollectionRecipe changes.
type Collection struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsPublic    bool      `gorm:"not null;default:false" json:"is_public"`
	RecipeCount int64     `gorm:"not null;default:0" json:"recipe_count"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CollectionRecipe links a recipe into a collection with an attributing user
// and a free-text note.
type CollectionRecipe struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	CollectionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_collection_recipes_pair" json:"collection_id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_collection_recipes_pair" json:"recipe_id"`
	AddedBy      uuid.UUID `gorm:"type:uuid;not null" json:"added_by"`
	Note         string    `gorm:"type:text" json:"note"`
}

func (cr *CollectionRecipe) BeforeCreate(tx *gorm.DB) error {
	if cr.ID == uuid.Nil {
		cr.ID = uuid.New()
	}
	return nil
}
