package repository

import (
	"community-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FinanceRepository handles database operations for event incomes and expenses
type FinanceRepository struct {
	db *gorm.DB
}

// NewFinanceRepository creates a new finance repository
func NewFinanceRepository(db *gorm.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

// CreateIncome creates a new income entry
func (r *FinanceRepository) CreateIncome(income *models.Income) error {
	return r.db.Create(income).Error
}

// GetIncome retrieves an income entry by ID within the organization scope
func (r *FinanceRepository) GetIncome(id, orgID uuid.UUID) (*models.Income, error) {
	var income models.Income
	err := r.db.First(&income, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, err
	}
	return &income, nil
}

// ListIncomes retrieves income entries of an event with pagination
func (r *FinanceRepository) ListIncomes(orgID, eventID uuid.UUID, limit, offset int) ([]models.Income, int64, error) {
	var incomes []models.Income
	var total int64

	base := r.db.Model(&models.Income{}).Where("organization_id = ? AND event_id = ?", orgID, eventID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("organization_id = ? AND event_id = ?", orgID, eventID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&incomes).Error
	if err != nil {
		return nil, 0, err
	}

	return incomes, total, nil
}

// UpdateIncome updates an income entry
func (r *FinanceRepository) UpdateIncome(income *models.Income) error {
	return r.db.Save(income).Error
}

// CreateExpense creates a new expense entry
func (r *FinanceRepository) CreateExpense(expense *models.Expense) error {
	return r.db.Create(expense).Error
}

// GetExpense retrieves an expense entry by ID within the organization scope
func (r *FinanceRepository) GetExpense(id, orgID uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.First(&expense, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses retrieves expense entries of an event with pagination
func (r *FinanceRepository) ListExpenses(orgID, eventID uuid.UUID, limit, offset int) ([]models.Expense, int64, error) {
	var expenses []models.Expense
	var total int64

	base := r.db.Model(&models.Expense{}).Where("organization_id = ? AND event_id = ?", orgID, eventID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("organization_id = ? AND event_id = ?", orgID, eventID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// UpdateExpense updates an expense entry
func (r *FinanceRepository) UpdateExpense(expense *models.Expense) error {
	return r.db.Save(expense).Error
}
