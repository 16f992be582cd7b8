package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/policy"
)

// CollectionService handles collections and their recipe links. recipe_count
// tracks live membership and is maintained in the linking transaction.
type CollectionService struct {
	db *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

func (s *CollectionService) Create(ctx context.Context, p policy.Principal, collection *models.Collection) (*models.Collection, error) {
	if strings.TrimSpace(collection.Name) == "" {
		return nil, fmt.Errorf("%w: collection name is required", ErrValidation)
	}
	collection.UserID = p.ID
	if err := authorizeMutation(p, policy.OpCreate, collection); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *CollectionService) Get(ctx context.Context, p policy.Principal, id uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	if err := s.db.WithContext(ctx).First(&collection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := authorizeRead(p, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// List returns public collections plus the principal's own.
func (s *CollectionService) List(ctx context.Context, p policy.Principal) ([]*models.Collection, error) {
	query := s.db.WithContext(ctx).Model(&models.Collection{})
	if p.Authenticated() {
		query = query.Where("is_public = ? OR user_id = ?", true, p.ID)
	} else {
		query = query.Where("is_public = ?", true)
	}

	var collections []models.Collection
	if err := query.Order("created_at DESC").Find(&collections).Error; err != nil {
		return nil, err
	}
	result := make([]*models.Collection, len(collections))
	for i := range collections {
		result[i] = &collections[i]
	}
	return result, nil
}

// CollectionUpdate carries the mutable collection fields.
type CollectionUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

func (s *CollectionService) Update(ctx context.Context, p policy.Principal, id uuid.UUID, update CollectionUpdate) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&collection, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpUpdate, &collection); err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if update.Name != nil {
			if strings.TrimSpace(*update.Name) == "" {
				return fmt.Errorf("%w: collection name is required", ErrValidation)
			}
			changes["name"] = *update.Name
		}
		if update.Description != nil {
			changes["description"] = *update.Description
		}
		if update.IsPublic != nil {
			changes["is_public"] = *update.IsPublic
		}
		if len(changes) > 0 {
			if err := tx.Model(&collection).Updates(changes).Error; err != nil {
				return err
			}
		}
		return tx.First(&collection, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// Delete removes a collection and its links. Owner only.
func (s *CollectionService) Delete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var collection models.Collection
		if err := tx.First(&collection, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpDelete, &collection); err != nil {
			return err
		}
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionRecipe{}).Error; err != nil {
			return err
		}
		return tx.Delete(&collection).Error
	})
}

// AddRecipe links a recipe into the collection with a note. The recipe must
// be readable by the caller; linking the same recipe twice conflicts.
func (s *CollectionService) AddRecipe(ctx context.Context, p policy.Principal, collectionID, recipeID uuid.UUID, note string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var collection models.Collection
		if err := tx.First(&collection, "id = ?", collectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpUpdate, &collection); err != nil {
			return err
		}

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

		var count int64
		if err := tx.Model(&models.CollectionRecipe{}).
			Where("collection_id = ? AND recipe_id = ?", collectionID, recipeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: recipe already in collection", ErrConflict)
		}

		link := models.CollectionRecipe{
			CollectionID: collectionID,
			RecipeID:     recipeID,
			AddedBy:      p.ID,
			Note:         note,
		}
		if err := tx.Create(&link).Error; err != nil {
			// The unique index backstops the count check under concurrency.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: recipe already in collection", ErrConflict)
			}
			return err
		}
		return tx.Model(&models.Collection{}).Where("id = ?", collectionID).
			UpdateColumn("recipe_count", gorm.Expr("recipe_count + 1")).Error
	})
}

// RemoveRecipe unlinks a recipe and decrements recipe_count, flooring at zero.
func (s *CollectionService) RemoveRecipe(ctx context.Context, p policy.Principal, collectionID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var collection models.Collection
		if err := tx.First(&collection, "id = ?", collectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpUpdate, &collection); err != nil {
			return err
		}

		result := tx.Where("collection_id = ? AND recipe_id = ?", collectionID, recipeID).
			Delete(&models.CollectionRecipe{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Collection{}).Where("id = ?", collectionID).
			UpdateColumn("recipe_count",
				gorm.Expr("CASE WHEN recipe_count > 0 THEN recipe_count - 1 ELSE 0 END")).Error
	})
}

// ListRecipes returns the links of a collection the principal may read.
func (s *CollectionService) ListRecipes(ctx context.Context, p policy.Principal, collectionID uuid.UUID) ([]*models.CollectionRecipe, error) {
	var collection models.Collection
	if err := s.db.WithContext(ctx).First(&collection, "id = ?", collectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := authorizeRead(p, &collection); err != nil {
		return nil, err
	}

	var links []models.CollectionRecipe
	if err := s.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("created_at ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	result := make([]*models.CollectionRecipe, len(links))
	for i := range links {
		result[i] = &links[i]
	}
	return result, nil
}
