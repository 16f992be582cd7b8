package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/policy"
)

// guestConversationTTL is how long an anonymous conversation lives before the
// expiry sweep may remove it.
const guestConversationTTL = 24 * time.Hour

// Responder produces the assistant's reply to a user message.
type Responder interface {
	Respond(ctx context.Context, history []*models.ChatMessage, prompt string) (string, error)
}

// ChatService handles conversations for both authenticated users and guests.
// Guest conversations are keyed by a session token and expire; the sweep
// removes them once expired.
type ChatService struct {
	db        *gorm.DB
	responder Responder
	logger    *zap.Logger
}

func NewChatService(db *gorm.DB, responder Responder, logger *zap.Logger) *ChatService {
	if responder == nil {
		responder = SuggestionResponder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{db: db, responder: responder, logger: logger}
}

// StartConversation opens a conversation. Authenticated principals own it
// outright; anonymous callers get a fresh session token and a 24h expiry.
// The returned token is empty for authenticated conversations.
func (s *ChatService) StartConversation(ctx context.Context, p policy.Principal, title string) (*models.ChatConversation, string, error) {
	conv := models.ChatConversation{Title: title}
	sessionToken := ""

	if p.Authenticated() {
		userID := p.ID
		conv.UserID = &userID
	} else {
		sessionToken = uuid.NewString()
		conv.SessionID = sessionToken
		expires := time.Now().Add(guestConversationTTL)
		conv.ExpiresAt = &expires
	}

	if err := s.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, "", err
	}
	return &conv, sessionToken, nil
}

// PostMessage appends a user message and the assistant's reply.
func (s *ChatService) PostMessage(ctx context.Context, p policy.Principal, conversationID uuid.UUID, content string) (*models.ChatMessage, *models.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}

	conv, err := s.loadConversation(ctx, p, conversationID)
	if err != nil {
		return nil, nil, err
	}

	var history []*models.ChatMessage
	var rows []models.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conv.ID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	for i := range rows {
		history = append(history, &rows[i])
	}

	replyText, err := s.responder.Respond(ctx, history, content)
	if err != nil {
		return nil, nil, err
	}

	userMsg := models.ChatMessage{
		ConversationID: conv.ID,
		Sender:         models.SenderUser,
		Content:        content,
	}
	assistantMsg := models.ChatMessage{
		ConversationID: conv.ID,
		Sender:         models.SenderAssistant,
		Content:        replyText,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&userMsg).Error; err != nil {
			return err
		}
		if err := tx.Create(&assistantMsg).Error; err != nil {
			return err
		}
		// Touch the conversation so updated_at reflects activity.
		return tx.Model(conv).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &userMsg, &assistantMsg, nil
}

// GetConversation returns a conversation and its messages.
func (s *ChatService) GetConversation(ctx context.Context, p policy.Principal, conversationID uuid.UUID) (*models.ChatConversation, []*models.ChatMessage, error) {
	conv, err := s.loadConversation(ctx, p, conversationID)
	if err != nil {
		return nil, nil, err
	}

	var rows []models.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conv.ID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	messages := make([]*models.ChatMessage, len(rows))
	for i := range rows {
		messages[i] = &rows[i]
	}
	return conv, messages, nil
}

func (s *ChatService) loadConversation(ctx context.Context, p policy.Principal, id uuid.UUID) (*models.ChatConversation, error) {
	var conv models.ChatConversation
	if err := s.db.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// An expired guest conversation is gone as far as callers are concerned,
	// whether or not the sweep has caught up with it.
	if conv.UserID == nil && conv.ExpiresAt != nil && conv.ExpiresAt.Before(time.Now()) {
		return nil, ErrNotFound
	}
	if err := authorizeRead(p, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// SweepExpired removes guest conversations whose expiry has passed, together
// with their messages. It is idempotent: running it again with no newly
// expired rows is a no-op. Failures are logged and retried on the next run.
func (s *ChatService) SweepExpired(ctx context.Context) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expired []models.ChatConversation
		if err := tx.
			Where("user_id IS NULL AND expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
			Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(expired))
		for i, c := range expired {
			ids[i] = c.ID
		}
		if err := tx.Where("conversation_id IN ?", ids).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.ChatConversation{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		s.logger.Warn("expiry sweep failed, will retry on next run", zap.Error(err))
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("expiry sweep removed guest conversations", zap.Int64("removed", removed))
	}
	return removed, nil
}

// RunSweeper runs SweepExpired on a fixed interval until ctx is cancelled.
func (s *ChatService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors are already logged; the next tick retries.
			_, _ = s.SweepExpired(ctx)
		}
	}
}

// SuggestionResponder is the default assistant: a small rule-based responder
// that suggests next steps without calling an external model.
type SuggestionResponder struct{}

func (SuggestionResponder) Respond(_ context.Context, history []*models.ChatMessage, prompt string) (string, error) {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "substitute"):
		return "Common substitutions: butter for oil, Greek yogurt for sour cream, honey for sugar. What ingredient are you replacing?", nil
	case strings.Contains(lower, "vegetarian") || strings.Contains(lower, "vegan"):
		return "Try browsing the public recipes filtered by category, or tell me the ingredients you have and I'll suggest a dish.", nil
	case len(history) == 0:
		return "Hi! Ask me about recipes, ingredient substitutions, or what to cook with what's in your fridge.", nil
	default:
		return "Tell me more about what you'd like to cook and I'll point you at matching recipes.", nil
	}
}
