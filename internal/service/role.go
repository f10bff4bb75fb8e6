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

// CreateRoleRequest carries the fields for creating a role
type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" validate:"required"`
}

// UpdateRoleRequest carries the updatable fields of a role
type UpdateRoleRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
	IsDefault   *bool     `json:"is_default,omitempty"`
}

// RoleService manages roles and their permission sets
type RoleService struct {
	roles     repository.RoleRepositoryInterface
	validator *validator.Validate
}

// NewRoleService creates a new role service
func NewRoleService(roles repository.RoleRepositoryInterface) *RoleService {
	return &RoleService{roles: roles, validator: validator.New()}
}

// Create creates a new role in the organization. The wildcard permission is
// reserved for the seeded super admin role and cannot be granted here.
func (s *RoleService) Create(orgID uuid.UUID, req *CreateRoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}
	if models.PermissionSet(req.Permissions).HasWildcard() {
		return nil, apperrors.NewValidationError("permissions", "the wildcard permission cannot be granted")
	}

	if _, err := s.roles.GetByName(orgID, req.Name); err == nil {
		return nil, apperrors.ErrRoleExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking role name: %w", err)
	}

	role := &models.Role{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
		Permissions:    models.PermissionSet(req.Permissions),
	}
	if err := s.roles.Create(role); err != nil {
		return nil, fmt.Errorf("creating role: %w", err)
	}
	return role, nil
}

// Get retrieves a role within the organization scope
func (s *RoleService) Get(id, orgID uuid.UUID) (*models.Role, error) {
	role, err := s.roles.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, fmt.Errorf("getting role: %w", err)
	}
	if role.OrganizationID != orgID {
		return nil, apperrors.ErrRoleNotFound
	}
	return role, nil
}

// List retrieves all roles of an organization
func (s *RoleService) List(orgID uuid.UUID) ([]models.Role, error) {
	roles, err := s.roles.GetByOrganizationID(orgID)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	return roles, nil
}

// Update applies partial changes to a role
func (s *RoleService) Update(id, orgID uuid.UUID, req *UpdateRoleRequest) (*models.Role, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	role, err := s.Get(id, orgID)
	if err != nil {
		return nil, err
	}
	if role.IsSuperAdmin() {
		return nil, apperrors.NewValidationError("id", "the super admin role cannot be modified")
	}

	if req.Name != nil && *req.Name != role.Name {
		if _, err := s.roles.GetByName(orgID, *req.Name); err == nil {
			return nil, apperrors.ErrRoleExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("checking role name: %w", err)
		}
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Permissions != nil {
		if models.PermissionSet(*req.Permissions).HasWildcard() {
			return nil, apperrors.NewValidationError("permissions", "the wildcard permission cannot be granted")
		}
		role.Permissions = models.PermissionSet(*req.Permissions)
	}
	if req.IsDefault != nil {
		role.IsDefault = *req.IsDefault
	}

	if err := s.roles.Update(role); err != nil {
		return nil, fmt.Errorf("updating role: %w", err)
	}
	return role, nil
}

// Delete removes a role. Users holding it are reassigned to the
// organization's default role first; the default and super admin roles
// themselves cannot be deleted.
func (s *RoleService) Delete(id, orgID uuid.UUID) error {
	role, err := s.Get(id, orgID)
	if err != nil {
		return err
	}
	if role.IsDefault {
		return apperrors.ErrDefaultRoleDelete
	}
	if role.IsSuperAdmin() {
		return apperrors.ErrSuperAdminRoleDelete
	}

	count, err := s.roles.CountUsers(id)
	if err != nil {
		return fmt.Errorf("counting role users: %w", err)
	}
	if count > 0 {
		fallback, err := s.roles.GetDefaultByOrganization(orgID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNoDefaultRole
			}
			return fmt.Errorf("finding default role: %w", err)
		}
		if err := s.roles.ReassignUsers(id, fallback.ID); err != nil {
			return fmt.Errorf("reassigning users: %w", err)
		}
	}

	if err := s.roles.Delete(id); err != nil {
		return fmt.Errorf("deleting role: %w", err)
	}
	return nil
}
