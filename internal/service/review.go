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

// ReviewService handles recipe reviews. A user may review a given recipe at
// most once; a second create conflicts instead of overwriting.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

func validRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return nil
}

func (s *ReviewService) Create(ctx context.Context, p policy.Principal, recipeID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if err := validRating(rating); err != nil {
		return nil, err
	}

	review := models.Review{
		RecipeID: recipeID,
		UserID:   p.ID,
		Rating:   rating,
		Comment:  comment,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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
		if err := authorizeMutation(p, policy.OpCreate, &review); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Review{}).
			Where("recipe_id = ? AND user_id = ?", recipeID, p.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: recipe already reviewed", ErrConflict)
		}
		if err := tx.Create(&review).Error; err != nil {
			// The unique index backstops the count check under concurrency.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: recipe already reviewed", ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) Update(ctx context.Context, p policy.Principal, id uuid.UUID, rating int, comment string) (*models.Review, error) {
	if err := validRating(rating); err != nil {
		return nil, err
	}

	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpUpdate, &review); err != nil {
			return err
		}
		if err := tx.Model(&review).Updates(map[string]interface{}{
			"rating":  rating,
			"comment": comment,
		}).Error; err != nil {
			return err
		}
		return tx.First(&review, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) Delete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpDelete, &review); err != nil {
			return err
		}
		return tx.Delete(&review).Error
	})
}

// ListForRecipe returns the reviews of a recipe the principal may read.
func (s *ReviewService) ListForRecipe(ctx context.Context, p policy.Principal, recipeID uuid.UUID) ([]*models.Review, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := authorizeRead(p, &recipe); err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	result := make([]*models.Review, 0, len(reviews))
	for i := range reviews {
		rr := policy.ReviewRead{Review: &reviews[i], Recipe: &recipe}
		if policy.Authorize(p, policy.OpRead, rr).Allowed {
			result = append(result, &reviews[i])
		}
	}
	return result, nil
}
