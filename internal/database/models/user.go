package models

import (
	"github.com/google/uuid"
)

// User represents a member of an organization. A user belongs to exactly
// one organization and one role at a time; the phone number is the
// globally unique login identifier.
type User struct {
	BaseModel
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	RoleID         uuid.UUID `json:"role_id" gorm:"type:uuid;not null;index"`
	FullName       string    `json:"full_name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	PhoneNumber    string    `json:"phone_number" gorm:"uniqueIndex;not null;size:20" validate:"required,min=7,max=20"`
	PasswordHash   string    `json:"-" gorm:"not null;size:100"`
	PhotoURL       string    `json:"photo_url,omitempty" gorm:"size:500"`

	// Relationships
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Role         *Role         `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
