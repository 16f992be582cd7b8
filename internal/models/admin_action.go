package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions recorded when an admin mutates another user's data.
const (
	AdminActionRecipeUpdate = "recipe.update"
	AdminActionRecipeDelete = "recipe.delete"
	AdminActionUserRole     = "user.set_role"
	AdminActionUserDelete   = "user.delete"
)

// AdminAction is an append-only audit record. Rows are only ever inserted,
// and only admins may read them.
type AdminAction struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	AdminID    uuid.UUID `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action     string    `gorm:"size:50;not null" json:"action"`
	TargetType string    `gorm:"size:50;not null" json:"target_type"`
	TargetID   uuid.UUID `gorm:"type:uuid;not null" json:"target_id"`
	Notes      string    `gorm:"type:text" json:"notes"`
}

func (AdminAction) TableName() string {
	return "admin_actions"
}

func (a *AdminAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
