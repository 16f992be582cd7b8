package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/policy"
)

// ActivityService reads a user's own activity log. Rows are written by the
// other services inside their mutation transactions.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

func (s *ActivityService) List(ctx context.Context, p policy.Principal, limit int) ([]*models.ActivityLog, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthorized
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []models.ActivityLog
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", p.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	result := make([]*models.ActivityLog, 0, len(entries))
	for i := range entries {
		if policy.Authorize(p, policy.OpRead, &entries[i]).Allowed {
			result = append(result, &entries[i])
		}
	}
	return result, nil
}
