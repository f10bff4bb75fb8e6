package service

import (
	"errors"
	"fmt"

	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateFinanceEntryRequest carries the fields for submitting an income or
// expense entry. Amounts are whole cents.
type CreateFinanceEntryRequest struct {
	EventID     uuid.UUID `json:"event_id" validate:"required"`
	Description string    `json:"description" validate:"required,max=500"`
	AmountCents int64     `json:"amount_cents" validate:"required,gt=0"`
}

// ReviewFinanceEntryRequest carries the reviewer's decision on a pending entry
type ReviewFinanceEntryRequest struct {
	Approve bool `json:"approve"`
}

// FinanceService manages event income and expense entries and their
// approval workflow. Entries leave pending exactly once.
type FinanceService struct {
	finance   repository.FinanceRepositoryInterface
	events    repository.EventRepositoryInterface
	validator *validator.Validate
}

// NewFinanceService creates a new finance service
func NewFinanceService(finance repository.FinanceRepositoryInterface, events repository.EventRepositoryInterface) *FinanceService {
	return &FinanceService{finance: finance, events: events, validator: validator.New()}
}

func (s *FinanceService) checkEvent(eventID, orgID uuid.UUID) error {
	if _, err := s.events.GetByID(eventID, orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("getting event: %w", err)
	}
	return nil
}

// SubmitIncome records a pending income entry for an event
func (s *FinanceService) SubmitIncome(orgID, submittedByID uuid.UUID, req *CreateFinanceEntryRequest) (*models.Income, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}
	if err := s.checkEvent(req.EventID, orgID); err != nil {
		return nil, err
	}

	income := &models.Income{
		OrganizationID: orgID,
		EventID:        req.EventID,
		Description:    req.Description,
		AmountCents:    req.AmountCents,
		Status:         models.FinanceStatusPending,
		SubmittedByID:  submittedByID,
	}
	if err := s.finance.CreateIncome(income); err != nil {
		return nil, fmt.Errorf("creating income: %w", err)
	}
	return income, nil
}

// SubmitExpense records a pending expense entry for an event
func (s *FinanceService) SubmitExpense(orgID, submittedByID uuid.UUID, req *CreateFinanceEntryRequest) (*models.Expense, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}
	if err := s.checkEvent(req.EventID, orgID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		OrganizationID: orgID,
		EventID:        req.EventID,
		Description:    req.Description,
		AmountCents:    req.AmountCents,
		Status:         models.FinanceStatusPending,
		SubmittedByID:  submittedByID,
	}
	if err := s.finance.CreateExpense(expense); err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}
	return expense, nil
}

// ListIncomes retrieves income entries of an event
func (s *FinanceService) ListIncomes(orgID, eventID uuid.UUID, limit, offset int) ([]models.Income, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if err := s.checkEvent(eventID, orgID); err != nil {
		return nil, 0, err
	}
	incomes, total, err := s.finance.ListIncomes(orgID, eventID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing incomes: %w", err)
	}
	return incomes, total, nil
}

// ListExpenses retrieves expense entries of an event
func (s *FinanceService) ListExpenses(orgID, eventID uuid.UUID, limit, offset int) ([]models.Expense, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if err := s.checkEvent(eventID, orgID); err != nil {
		return nil, 0, err
	}
	expenses, total, err := s.finance.ListExpenses(orgID, eventID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing expenses: %w", err)
	}
	return expenses, total, nil
}

// ReviewIncome approves or rejects a pending income entry
func (s *FinanceService) ReviewIncome(id, orgID, reviewerID uuid.UUID, req *ReviewFinanceEntryRequest) (*models.Income, error) {
	income, err := s.finance.GetIncome(id, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, fmt.Errorf("getting income: %w", err)
	}
	if income.Status != models.FinanceStatusPending {
		return nil, apperrors.ErrStatusNotPending
	}

	income.Status = models.FinanceStatusRejected
	if req.Approve {
		income.Status = models.FinanceStatusApproved
	}
	income.ReviewedByID = &reviewerID

	if err := s.finance.UpdateIncome(income); err != nil {
		return nil, fmt.Errorf("updating income: %w", err)
	}
	return income, nil
}

// ReviewExpense approves or rejects a pending expense entry
func (s *FinanceService) ReviewExpense(id, orgID, reviewerID uuid.UUID, req *ReviewFinanceEntryRequest) (*models.Expense, error) {
	expense, err := s.finance.GetExpense(id, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	if expense.Status != models.FinanceStatusPending {
		return nil, apperrors.ErrStatusNotPending
	}

	expense.Status = models.FinanceStatusRejected
	if req.Approve {
		expense.Status = models.FinanceStatusApproved
	}
	expense.ReviewedByID = &reviewerID

	if err := s.finance.UpdateExpense(expense); err != nil {
		return nil, fmt.Errorf("updating expense: %w", err)
	}
	return expense, nil
}
