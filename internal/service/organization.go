package service

import (
	"errors"
	"fmt"

	"community-portal-backend/internal/auth"
	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default role names created for every new organization
const (
	RoleNameAdmin     = "Admin"
	RoleNameModerator = "Moderator"
	RoleNameMember    = "Member"
)

var (
	adminPermissions = models.PermissionSet{
		"organizations:read", "organizations:write",
		"members:read", "members:write",
		"roles:read", "roles:write",
		"elections:read", "elections:write", "elections:vote", "elections:results",
		"events:read", "events:write",
		"announcements:read", "announcements:write",
		"chats:read", "chats:write",
		"finance:read", "finance:write", "finance:review",
	}
	moderatorPermissions = models.PermissionSet{
		"organizations:read",
		"members:read",
		"roles:read",
		"elections:read", "elections:vote", "elections:results",
		"events:read", "events:write",
		"announcements:read", "announcements:write",
		"chats:read", "chats:write",
		"finance:read", "finance:write",
	}
	memberPermissions = models.PermissionSet{
		"organizations:read",
		"members:read",
		"elections:read", "elections:vote", "elections:results",
		"events:read",
		"announcements:read",
		"chats:read", "chats:write",
	}
)

// CreateOrganizationRequest carries the fields for registering a new
// organization together with its first administrator
type CreateOrganizationRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Type        string `json:"type" validate:"required,max=50"`
	Description string `json:"description"`
	ThemeColor  string `json:"theme_color" validate:"omitempty,max=20"`
	Place       string `json:"place" validate:"omitempty,max=200"`

	AdminFullName    string `json:"admin_full_name" validate:"required,min=1,max=200"`
	AdminPhoneNumber string `json:"admin_phone_number" validate:"required,min=7,max=20"`
	AdminPassword    string `json:"admin_password" validate:"required,min=8"`
}

// UpdateOrganizationRequest carries the updatable fields of an organization
type UpdateOrganizationRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Type        *string `json:"type,omitempty" validate:"omitempty,max=50"`
	Description *string `json:"description,omitempty"`
	ThemeColor  *string `json:"theme_color,omitempty" validate:"omitempty,max=20"`
	Place       *string `json:"place,omitempty" validate:"omitempty,max=200"`
}

// OrganizationService manages organizations and their bootstrap roles
type OrganizationService struct {
	organizations repository.OrganizationRepositoryInterface
	roles         repository.RoleRepositoryInterface
	users         repository.UserRepositoryInterface
	validator     *validator.Validate
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	organizations repository.OrganizationRepositoryInterface,
	roles repository.RoleRepositoryInterface,
	users repository.UserRepositoryInterface,
) *OrganizationService {
	return &OrganizationService{
		organizations: organizations,
		roles:         roles,
		users:         users,
		validator:     validator.New(),
	}
}

// Create registers a new organization with its three stock roles and an
// initial administrator account
func (s *OrganizationService) Create(req *CreateOrganizationRequest) (*models.Organization, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}
	if req.Type == models.OrganizationTypeSystem {
		return nil, apperrors.NewValidationError("type", "reserved organization type")
	}

	if _, err := s.organizations.GetByName(req.Name); err == nil {
		return nil, apperrors.ErrOrganizationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking organization name: %w", err)
	}
	if _, err := s.users.GetByPhoneNumber(req.AdminPhoneNumber); err == nil {
		return nil, apperrors.ErrPhoneNumberExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking phone number: %w", err)
	}

	org := &models.Organization{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		ThemeColor:  req.ThemeColor,
		Place:       req.Place,
	}
	if err := s.organizations.Create(org); err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	adminRole, err := s.createStockRoles(org.ID)
	if err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.AdminPassword)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		OrganizationID: org.ID,
		RoleID:         adminRole.ID,
		FullName:       req.AdminFullName,
		PhoneNumber:    req.AdminPhoneNumber,
		PasswordHash:   passwordHash,
	}
	if err := s.users.Create(admin); err != nil {
		return nil, fmt.Errorf("creating administrator: %w", err)
	}

	return org, nil
}

func (s *OrganizationService) createStockRoles(orgID uuid.UUID) (*models.Role, error) {
	roles := []*models.Role{
		{OrganizationID: orgID, Name: RoleNameAdmin, Description: "Full control of the organization", Permissions: adminPermissions},
		{OrganizationID: orgID, Name: RoleNameModerator, Description: "Content and event management", Permissions: moderatorPermissions},
		{OrganizationID: orgID, Name: RoleNameMember, Description: "Regular member", Permissions: memberPermissions, IsDefault: true},
	}
	for _, role := range roles {
		if err := s.roles.Create(role); err != nil {
			return nil, fmt.Errorf("creating role %s: %w", role.Name, err)
		}
	}
	return roles[0], nil
}

// Get retrieves an organization by ID
func (s *OrganizationService) Get(id uuid.UUID) (*models.Organization, error) {
	org, err := s.organizations.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("getting organization: %w", err)
	}
	return org, nil
}

// List retrieves organizations with pagination. The sentinel system
// organization is filtered out.
func (s *OrganizationService) List(limit, offset int) ([]models.Organization, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	orgs, total, err := s.organizations.GetAll(limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing organizations: %w", err)
	}

	filtered := make([]models.Organization, 0, len(orgs))
	for _, org := range orgs {
		if org.IsSystem() {
			total--
			continue
		}
		filtered = append(filtered, org)
	}
	return filtered, total, nil
}

// Update applies partial changes to an organization
func (s *OrganizationService) Update(id uuid.UUID, req *UpdateOrganizationRequest) (*models.Organization, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	org, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != org.Name {
		if _, err := s.organizations.GetByName(*req.Name); err == nil {
			return nil, apperrors.ErrOrganizationExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("checking organization name: %w", err)
		}
		org.Name = *req.Name
	}
	if req.Type != nil {
		if *req.Type == models.OrganizationTypeSystem {
			return nil, apperrors.NewValidationError("type", "reserved organization type")
		}
		org.Type = *req.Type
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.ThemeColor != nil {
		org.ThemeColor = *req.ThemeColor
	}
	if req.Place != nil {
		org.Place = *req.Place
	}

	if err := s.organizations.Update(org); err != nil {
		return nil, fmt.Errorf("updating organization: %w", err)
	}
	return org, nil
}

// Delete removes an organization. Roles and users are removed through the
// database cascade.
func (s *OrganizationService) Delete(id uuid.UUID) error {
	org, err := s.Get(id)
	if err != nil {
		return err
	}
	if org.IsSystem() {
		return apperrors.NewValidationError("id", "the system organization cannot be deleted")
	}
	if err := s.organizations.Delete(id); err != nil {
		return fmt.Errorf("deleting organization: %w", err)
	}
	return nil
}
