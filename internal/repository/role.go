package repository

import (
	"community-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleRepository handles database operations for roles
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create creates a new role
func (r *RoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(id uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName retrieves a role by name within an organization
func (r *RoleRepository) GetByName(orgID uuid.UUID, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, "organization_id = ? AND name = ?", orgID, name).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByOrganizationID retrieves all roles of an organization
func (r *RoleRepository) GetByOrganizationID(orgID uuid.UUID) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.Where("organization_id = ?", orgID).Order("name ASC").Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// GetDefaultByOrganization retrieves the organization's default role
func (r *RoleRepository) GetDefaultByOrganization(orgID uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, "organization_id = ? AND is_default = true", orgID).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Update updates a role
func (r *RoleRepository) Update(role *models.Role) error {
	return r.db.Save(role).Error
}

// Delete deletes a role
func (r *RoleRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Role{}, "id = ?", id).Error
}

// ReassignUsers moves every user holding fromRoleID onto toRoleID
func (r *RoleRepository) ReassignUsers(fromRoleID, toRoleID uuid.UUID) error {
	return r.db.Model(&models.User{}).
		Where("role_id = ?", fromRoleID).
		Update("role_id", toRoleID).Error
}

// CountUsers returns how many users currently hold the role
func (r *RoleRepository) CountUsers(roleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}
