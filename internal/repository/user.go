package repository

import (
	"community-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDWithRole retrieves a user by ID with the current role preloaded.
// The authorization engine uses this for its fresh per-request role read.
func (r *UserRepository) GetByIDWithRole(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Role").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPhoneNumber retrieves a user by phone number with role and organization
func (r *UserRepository) GetByPhoneNumber(phone string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Role").Preload("Organization").First(&user, "phone_number = ?", phone).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByOrganizationID retrieves users of an organization with pagination
func (r *UserRepository) GetByOrganizationID(orgID uuid.UUID, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	if err := r.db.Model(&models.User{}).Where("organization_id = ?", orgID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Role").
		Where("organization_id = ?", orgID).
		Order("full_name ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// SearchByOrganization searches users of an organization by name or phone
func (r *UserRepository) SearchByOrganization(orgID uuid.UUID, query string, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	pattern := "%" + query + "%"
	base := r.db.Model(&models.User{}).
		Where("organization_id = ? AND (full_name ILIKE ? OR phone_number ILIKE ?)", orgID, pattern, pattern)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Role").
		Where("organization_id = ? AND (full_name ILIKE ? OR phone_number ILIKE ?)", orgID, pattern, pattern).
		Order("full_name ASC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update updates a user
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete deletes a user
func (r *UserRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.User{}, "id = ?", id).Error
}
