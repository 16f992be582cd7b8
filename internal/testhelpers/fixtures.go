package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/policy"
)

// CreateUser inserts a user with the given role and returns it with a
// matching principal.
func CreateUser(t *testing.T, db *gorm.DB, role string) (*models.User, policy.Principal) {
	t.Helper()

	suffix := uuid.NewString()[:8]
	user := models.User{
		Name:         "Test User " + suffix,
		Email:        fmt.Sprintf("user-%s@example.com", suffix),
		Username:     "user_" + suffix,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user, policy.Principal{ID: user.ID, Role: policy.Role(role)}
}

// CreateRecipe inserts a recipe owned by the given user.
func CreateRecipe(t *testing.T, db *gorm.DB, ownerID uuid.UUID, isPublic bool) *models.Recipe {
	t.Helper()

	recipe := models.Recipe{
		Name:         "Recipe " + uuid.NewString()[:8],
		Description:  "a test recipe",
		Category:     "dinner",
		Ingredients:  models.JSONBStringArray{"salt", "water"},
		Instructions: models.JSONBStringArray{"mix", "serve"},
		IsPublic:     isPublic,
		UserID:       ownerID,
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return &recipe
}
