package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message senders within a conversation.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatConversation is owned either by an authenticated user (UserID set,
// SessionID empty) or by a guest session token (UserID nil, SessionID set),
// never both. Guest conversations carry ExpiresAt and are removed by the
// expiry sweep once it has passed.
type ChatConversation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	SessionID string     `gorm:"size:64;index" json:"session_id,omitempty"`
	Title     string     `gorm:"size:255" json:"title"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
}

func (ChatConversation) TableName() string {
	return "chat_conversations"
}

func (c *ChatConversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type ChatMessage struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Sender         string    `gorm:"size:20;not null" json:"sender"`
	Content        string    `gorm:"type:text;not null" json:"content"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
