package models

import (
	"github.com/google/uuid"
)

// Notification represents an in-app notification addressed to one user.
type Notification struct {
	BaseModel
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Title          string    `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Body           string    `json:"body" gorm:"type:text"`
	IsRead         bool      `json:"is_read" gorm:"not null;default:false"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
