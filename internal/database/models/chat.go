package models

import (
	"github.com/google/uuid"
)

// Chat represents an organization-scoped conversation channel.
type Chat struct {
	BaseModel
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Description    string    `json:"description" gorm:"type:text"`

	// Relationships
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ChatID"`
}

// TableName returns the table name for Chat
func (Chat) TableName() string {
	return "chats"
}

// Message represents a single message in a chat. The sender name is
// snapshotted so messages survive sender deletion.
type Message struct {
	BaseModel
	ChatID     uuid.UUID `json:"chat_id" gorm:"type:uuid;not null;index"`
	SenderID   uuid.UUID `json:"sender_id" gorm:"type:uuid;not null;index"`
	SenderName string    `json:"sender_name" gorm:"size:200"`
	Body       string    `json:"body" gorm:"type:text;not null" validate:"required"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}
