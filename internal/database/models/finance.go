package models

import (
	"github.com/google/uuid"
)

// FinanceStatus is the approval state of an income or expense entry.
// Transitions are only allowed out of pending.
type FinanceStatus string

const (
	FinanceStatusPending  FinanceStatus = "pending"
	FinanceStatusApproved FinanceStatus = "approved"
	FinanceStatusRejected FinanceStatus = "rejected"
)

// Valid reports whether the status is one of the known approval states.
func (s FinanceStatus) Valid() bool {
	switch s {
	case FinanceStatusPending, FinanceStatusApproved, FinanceStatusRejected:
		return true
	}
	return false
}

// Income represents money received for an event, subject to approval.
type Income struct {
	BaseModel
	OrganizationID uuid.UUID     `json:"organization_id" gorm:"type:uuid;not null;index"`
	EventID        uuid.UUID     `json:"event_id" gorm:"type:uuid;not null;index"`
	Description    string        `json:"description" gorm:"not null;size:500" validate:"required,max=500"`
	AmountCents    int64         `json:"amount_cents" gorm:"not null" validate:"required,gt=0"`
	Status         FinanceStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	SubmittedByID  uuid.UUID     `json:"submitted_by_id" gorm:"type:uuid"`
	ReviewedByID   *uuid.UUID    `json:"reviewed_by_id,omitempty" gorm:"type:uuid"`
}

// TableName returns the table name for Income
func (Income) TableName() string {
	return "incomes"
}

// Expense represents money spent for an event, subject to approval.
type Expense struct {
	BaseModel
	OrganizationID uuid.UUID     `json:"organization_id" gorm:"type:uuid;not null;index"`
	EventID        uuid.UUID     `json:"event_id" gorm:"type:uuid;not null;index"`
	Description    string        `json:"description" gorm:"not null;size:500" validate:"required,max=500"`
	AmountCents    int64         `json:"amount_cents" gorm:"not null" validate:"required,gt=0"`
	Status         FinanceStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	SubmittedByID  uuid.UUID     `json:"submitted_by_id" gorm:"type:uuid"`
	ReviewedByID   *uuid.UUID    `json:"reviewed_by_id,omitempty" gorm:"type:uuid"`
}

// TableName returns the table name for Expense
func (Expense) TableName() string {
	return "expenses"
}
