package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is never hard-deleted by user action: deletion flips IsDeleted and
// records who deleted it and when, so favorites, reviews and collection links
// survive as history. ViewCount and FavoriteCount are maintained inside the
// same transaction as the mutation that changes them.
type Recipe struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	Description   string           `gorm:"type:text" json:"description"`
	Category      string           `gorm:"size:50" json:"category"`
	ImageURL      string           `gorm:"size:255" json:"image_url"`
	Ingredients   JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	Calories      float64          `gorm:"type:float" json:"calories"`
	Protein       float64          `gorm:"type:float" json:"protein"`
	Carbs         float64          `gorm:"type:float" json:"carbs"`
	Fat           float64          `gorm:"type:float" json:"fat"`
	IsPublic      bool             `gorm:"not null;default:false" json:"is_public"`
	IsDeleted     bool             `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt     *time.Time       `json:"deleted_at,omitempty"`
	DeletedBy     *uuid.UUID       `gorm:"type:uuid" json:"deleted_by,omitempty"`
	ViewCount     int64            `gorm:"not null;default:0" json:"view_count"`
	FavoriteCount int64            `gorm:"not null;default:0" json:"favorite_count"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
