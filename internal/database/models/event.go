package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents an organization-scoped event members can attend.
type Event struct {
	BaseModel
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Title          string    `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description    string    `json:"description" gorm:"type:text"`
	Location       string    `json:"location" gorm:"size:200"`
	StartDate      time.Time `json:"start_date" gorm:"not null"`
	EndDate        time.Time `json:"end_date" gorm:"not null"`
	CreatedByID    uuid.UUID `json:"created_by_id" gorm:"type:uuid"`
	CreatedByName  string    `json:"created_by_name" gorm:"size:200"`

	// Relationships
	Incomes  []Income  `json:"incomes,omitempty" gorm:"foreignKey:EventID"`
	Expenses []Expense `json:"expenses,omitempty" gorm:"foreignKey:EventID"`
}

// TableName returns the table name for Event
func (Event) TableName() string {
	return "events"
}
