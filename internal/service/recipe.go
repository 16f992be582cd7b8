package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/policy"
)

// RecipeService handles recipe operations. Every method authorizes against
// the policy engine and runs the decision plus its side effects (counters,
// activity rows, audit rows) in one transaction.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// ListRecipesFilter narrows List results.
type ListRecipesFilter struct {
	Query    string
	Category string
	OwnerID  *uuid.UUID
}

// Create stores a new recipe owned by the acting principal.
func (s *RecipeService) Create(ctx context.Context, p policy.Principal, recipe *models.Recipe) (*models.Recipe, error) {
	if strings.TrimSpace(recipe.Name) == "" {
		return nil, fmt.Errorf("%w: recipe name is required", ErrValidation)
	}
	if d := policy.Authorize(p, policy.OpCreate, recipe); !d.Allowed {
		if d.Reason == policy.ReasonNotAuthenticated {
			return nil, ErrUnauthorized
		}
		return nil, ErrForbidden
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		entry := models.ActivityLog{
			UserID:   p.ID,
			Action:   models.ActivityRecipeCreate,
			RecipeID: &recipe.ID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// Get returns a recipe visible to the principal. An allowed read bumps the
// view counter; authenticated readers also get an activity row. Denied reads
// and missing rows are indistinguishable.
func (s *RecipeService) Get(ctx context.Context, p policy.Principal, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeRead(p, &recipe); err != nil {
			return err
		}

		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			return err
		}
		recipe.ViewCount++

		if p.Authenticated() {
			entry := models.ActivityLog{
				UserID:   p.ID,
				Action:   models.ActivityRecipeView,
				RecipeID: &recipe.ID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes the principal may read: public live rows plus their
// own. Admins see everything, soft-deleted rows included.
func (s *RecipeService) List(ctx context.Context, p policy.Principal, filter ListRecipesFilter) ([]*models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if !p.IsAdmin() {
		if p.Authenticated() {
			query = query.Where("(is_public = ? AND is_deleted = ?) OR user_id = ?", true, false, p.ID)
		} else {
			query = query.Where("is_public = ? AND is_deleted = ?", true, false)
		}
	}

	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OwnerID != nil {
		query = query.Where("user_id = ?", *filter.OwnerID)
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}

// RecipeUpdate carries the mutable recipe fields. Nil pointers leave the
// stored value untouched.
type RecipeUpdate struct {
	Name         *string
	Description  *string
	Category     *string
	ImageURL     *string
	Ingredients  []string
	Instructions []string
	Calories     *float64
	Protein      *float64
	Carbs        *float64
	Fat          *float64
	IsPublic     *bool
}

// Update applies field changes to a recipe the principal may modify. Admin
// updates to another user's recipe append an audit row.
func (s *RecipeService) Update(ctx context.Context, p policy.Principal, id uuid.UUID, update RecipeUpdate) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpUpdate, &recipe); err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if update.Name != nil {
			if strings.TrimSpace(*update.Name) == "" {
				return fmt.Errorf("%w: recipe name is required", ErrValidation)
			}
			changes["name"] = *update.Name
		}
		if update.Description != nil {
			changes["description"] = *update.Description
		}
		if update.Category != nil {
			changes["category"] = *update.Category
		}
		if update.ImageURL != nil {
			changes["image_url"] = *update.ImageURL
		}
		if update.Ingredients != nil {
			changes["ingredients"] = models.JSONBStringArray(update.Ingredients)
		}
		if update.Instructions != nil {
			changes["instructions"] = models.JSONBStringArray(update.Instructions)
		}
		if update.Calories != nil {
			changes["calories"] = *update.Calories
		}
		if update.Protein != nil {
			changes["protein"] = *update.Protein
		}
		if update.Carbs != nil {
			changes["carbs"] = *update.Carbs
		}
		if update.Fat != nil {
			changes["fat"] = *update.Fat
		}
		if update.IsPublic != nil {
			changes["is_public"] = *update.IsPublic
		}
		if len(changes) > 0 {
			if err := tx.Model(&recipe).Updates(changes).Error; err != nil {
				return err
			}
		}

		if p.IsAdmin() && p.ID != recipe.UserID {
			if err := recordAdminAction(tx, p, models.AdminActionRecipeUpdate, "recipe", recipe.ID, ""); err != nil {
				return err
			}
		}
		return tx.First(&recipe, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// SoftDelete marks a recipe deleted and records who deleted it and when.
// Reviews, favorites and collection links survive as history.
func (s *RecipeService) SoftDelete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if recipe.IsDeleted {
			return ErrNotFound
		}
		if err := authorizeMutation(p, policy.OpDelete, &recipe); err != nil {
			return err
		}

		now := time.Now()
		changes := map[string]interface{}{
			"is_deleted": true,
			"deleted_at": &now,
			"deleted_by": p.ID,
		}
		if err := tx.Model(&recipe).Updates(changes).Error; err != nil {
			return err
		}

		if p.IsAdmin() && p.ID != recipe.UserID {
			return recordAdminAction(tx, p, models.AdminActionRecipeDelete, "recipe", recipe.ID, "")
		}
		return nil
	})
}

// recordAdminAction appends to the audit log within the caller's transaction.
func recordAdminAction(tx *gorm.DB, p policy.Principal, action, targetType string, targetID uuid.UUID, notes string) error {
	entry := models.AdminAction{
		AdminID:    p.ID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Notes:      notes,
	}
	if d := policy.Authorize(p, policy.OpCreate, &entry); !d.Allowed {
		return ErrForbidden
	}
	return tx.Create(&entry).Error
}
