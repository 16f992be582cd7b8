package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/policy"
)

// FavoriteService handles favoriting. The favorite_count on the referenced
// recipe is maintained in the same transaction as the favorite row, using
// single-statement updates so concurrent operations never lose increments.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Favorite adds the recipe to the principal's favorites and bumps the
// recipe's favorite_count. Favoriting a recipe twice conflicts.
func (s *FavoriteService) Favorite(ctx context.Context, p policy.Principal, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeRead(p, &recipe); err != nil {
			return err
		}

		fav := models.Favorite{RecipeID: recipeID, UserID: p.ID}
		if err := authorizeMutation(p, policy.OpCreate, &fav); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Favorite{}).
			Where("recipe_id = ? AND user_id = ?", recipeID, p.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: recipe already favorited", ErrConflict)
		}

		if err := tx.Create(&fav).Error; err != nil {
			// A concurrent favorite can slip past the count check; the unique
			// index catches it and it conflicts the same way.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: recipe already favorited", ErrConflict)
			}
			return err
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).
			UpdateColumn("favorite_count", gorm.Expr("favorite_count + 1")).Error; err != nil {
			return err
		}

		entry := models.ActivityLog{
			UserID:   p.ID,
			Action:   models.ActivityRecipeFavorite,
			RecipeID: &recipeID,
		}
		return tx.Create(&entry).Error
	})
}

// Unfavorite removes the principal's favorite and decrements the recipe's
// favorite_count, flooring at zero.
func (s *FavoriteService) Unfavorite(ctx context.Context, p policy.Principal, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fav models.Favorite
		err := tx.Where("recipe_id = ? AND user_id = ?", recipeID, p.ID).First(&fav).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpDelete, &fav); err != nil {
			return err
		}

		if err := tx.Delete(&fav).Error; err != nil {
			return err
		}
		return tx.Model(&models.Recipe{}).Where("id = ?", recipeID).
			UpdateColumn("favorite_count",
				gorm.Expr("CASE WHEN favorite_count > 0 THEN favorite_count - 1 ELSE 0 END")).Error
	})
}

// ListFavorites returns the principal's favorited recipes, newest first.
// Favorites are private; there is no cross-user listing.
func (s *FavoriteService) ListFavorites(ctx context.Context, p policy.Principal) ([]*models.Recipe, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
		Where("recipe_favorites.user_id = ?", p.ID).
		Order("recipe_favorites.created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}
