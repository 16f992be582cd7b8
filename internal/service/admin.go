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

// AdminService handles moderation. Every mutation appends to the append-only
// audit log inside the same transaction.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) ListUsers(ctx context.Context, p policy.Principal) ([]*models.User, error) {
	if !p.IsAdmin() {
		if !p.Authenticated() {
			return nil, ErrUnauthorized
		}
		return nil, ErrForbidden
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	result := make([]*models.User, len(users))
	for i := range users {
		result[i] = &users[i]
	}
	return result, nil
}

// SetUserRole changes a user's role. Roles are assigned at sign-up and
// mutable only by an admin thereafter.
func (s *AdminService) SetUserRole(ctx context.Context, p policy.Principal, userID uuid.UUID, role string) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if !p.IsAdmin() {
		if !p.Authenticated() {
			return nil, ErrUnauthorized
		}
		return nil, ErrForbidden
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpUpdate, &user); err != nil {
			return err
		}
		if err := tx.Model(&user).Update("role", role).Error; err != nil {
			return err
		}
		return recordAdminAction(tx, p, models.AdminActionUserRole, "user", user.ID, fmt.Sprintf("role set to %s", role))
	})
	if err != nil {
		return nil, err
	}
	user.Role = role
	return &user, nil
}

// DeleteUser hard-deletes a user and cascades along ownership: their recipes,
// favorites, collections, reviews, conversations and activity go with them.
// Favorites the user placed on other owners' recipes decrement those recipes'
// counters; soft-deleted recipe history owned by others is untouched.
func (s *AdminService) DeleteUser(ctx context.Context, p policy.Principal, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := authorizeMutation(p, policy.OpDelete, &user); err != nil {
			return err
		}

		// The user's outgoing favorites: decrement each referenced recipe's
		// counter before the rows disappear.
		var favorites []models.Favorite
		if err := tx.Where("user_id = ?", userID).Find(&favorites).Error; err != nil {
			return err
		}
		for _, fav := range favorites {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", fav.RecipeID).
				UpdateColumn("favorite_count",
					gorm.Expr("CASE WHEN favorite_count > 0 THEN favorite_count - 1 ELSE 0 END")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
			return err
		}

		// Links the user contributed to collections they don't own.
		var links []models.CollectionRecipe
		if err := tx.Where("added_by = ?", userID).Find(&links).Error; err != nil {
			return err
		}
		for _, link := range links {
			if err := tx.Model(&models.Collection{}).Where("id = ?", link.CollectionID).
				UpdateColumn("recipe_count",
					gorm.Expr("CASE WHEN recipe_count > 0 THEN recipe_count - 1 ELSE 0 END")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("added_by = ?", userID).Delete(&models.CollectionRecipe{}).Error; err != nil {
			return err
		}

		// Owned collections and whatever still links into them.
		var collectionIDs []uuid.UUID
		if err := tx.Model(&models.Collection{}).Where("user_id = ?", userID).
			Pluck("id", &collectionIDs).Error; err != nil {
			return err
		}
		if len(collectionIDs) > 0 {
			if err := tx.Where("collection_id IN ?", collectionIDs).Delete(&models.CollectionRecipe{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", collectionIDs).Delete(&models.Collection{}).Error; err != nil {
				return err
			}
		}

		// Owned recipes and everything referencing them.
		var recipeIDs []uuid.UUID
		if err := tx.Model(&models.Recipe{}).Where("user_id = ?", userID).
			Pluck("id", &recipeIDs).Error; err != nil {
			return err
		}
		if len(recipeIDs) > 0 {
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.Favorite{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.Review{}).Error; err != nil {
				return err
			}
			var strandedLinks []models.CollectionRecipe
			if err := tx.Where("recipe_id IN ?", recipeIDs).Find(&strandedLinks).Error; err != nil {
				return err
			}
			for _, link := range strandedLinks {
				if err := tx.Model(&models.Collection{}).Where("id = ?", link.CollectionID).
					UpdateColumn("recipe_count",
						gorm.Expr("CASE WHEN recipe_count > 0 THEN recipe_count - 1 ELSE 0 END")).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.CollectionRecipe{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", recipeIDs).Delete(&models.Recipe{}).Error; err != nil {
				return err
			}
		}

		// Conversations and messages.
		var conversationIDs []uuid.UUID
		if err := tx.Model(&models.ChatConversation{}).Where("user_id = ?", userID).
			Pluck("id", &conversationIDs).Error; err != nil {
			return err
		}
		if len(conversationIDs) > 0 {
			if err := tx.Where("conversation_id IN ?", conversationIDs).Delete(&models.ChatMessage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", conversationIDs).Delete(&models.ChatConversation{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.ActivityLog{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		return recordAdminAction(tx, p, models.AdminActionUserDelete, "user", userID, "")
	})
}

// AuditLog returns the append-only admin audit trail, newest first.
func (s *AdminService) AuditLog(ctx context.Context, p policy.Principal, limit int) ([]*models.AdminAction, error) {
	if d := policy.Authorize(p, policy.OpRead, &models.AdminAction{}); !d.Allowed {
		if d.Reason == policy.ReasonNotAuthenticated {
			return nil, ErrUnauthorized
		}
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var actions []models.AdminAction
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error; err != nil {
		return nil, err
	}
	result := make([]*models.AdminAction, len(actions))
	for i := range actions {
		result[i] = &actions[i]
	}
	return result, nil
}
