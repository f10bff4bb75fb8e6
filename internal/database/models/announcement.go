package models

import (
	"github.com/google/uuid"
)

// Announcement represents an organization-scoped announcement.
type Announcement struct {
	BaseModel
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Title          string    `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Body           string    `json:"body" gorm:"type:text;not null" validate:"required"`
	IsPinned       bool      `json:"is_pinned" gorm:"not null;default:false"`
	CreatedByID    uuid.UUID `json:"created_by_id" gorm:"type:uuid"`
	CreatedByName  string    `json:"created_by_name" gorm:"size:200"`
}

// TableName returns the table name for Announcement
func (Announcement) TableName() string {
	return "announcements"
}
