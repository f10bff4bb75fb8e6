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

// CreateMemberRequest carries the fields for registering a member
type CreateMemberRequest struct {
	FullName    string     `json:"full_name" validate:"required,min=1,max=200"`
	PhoneNumber string     `json:"phone_number" validate:"required,min=7,max=20"`
	Password    string     `json:"password" validate:"required,min=8"`
	PhotoURL    string     `json:"photo_url" validate:"omitempty,url,max=500"`
	RoleID      *uuid.UUID `json:"role_id,omitempty"`
}

// UpdateMemberRequest carries the updatable fields of a member
type UpdateMemberRequest struct {
	FullName *string    `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	Password *string    `json:"password,omitempty" validate:"omitempty,min=8"`
	PhotoURL *string    `json:"photo_url,omitempty" validate:"omitempty,url,max=500"`
	RoleID   *uuid.UUID `json:"role_id,omitempty"`
}

// MemberService manages the users of an organization
type MemberService struct {
	users         repository.UserRepositoryInterface
	roles         repository.RoleRepositoryInterface
	notifications repository.NotificationRepositoryInterface
	validator     *validator.Validate
}

// NewMemberService creates a new member service
func NewMemberService(
	users repository.UserRepositoryInterface,
	roles repository.RoleRepositoryInterface,
	notifications repository.NotificationRepositoryInterface,
) *MemberService {
	return &MemberService{
		users:         users,
		roles:         roles,
		notifications: notifications,
		validator:     validator.New(),
	}
}

// Create registers a member in the organization. Without an explicit role
// the organization's default role is assigned.
func (s *MemberService) Create(orgID uuid.UUID, req *CreateMemberRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	if _, err := s.users.GetByPhoneNumber(req.PhoneNumber); err == nil {
		return nil, apperrors.ErrPhoneNumberExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking phone number: %w", err)
	}

	roleID, err := s.resolveRole(orgID, req.RoleID)
	if err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		OrganizationID: orgID,
		RoleID:         roleID,
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		PasswordHash:   passwordHash,
		PhotoURL:       req.PhotoURL,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}
	return user, nil
}

func (s *MemberService) resolveRole(orgID uuid.UUID, roleID *uuid.UUID) (uuid.UUID, error) {
	if roleID == nil {
		fallback, err := s.roles.GetDefaultByOrganization(orgID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, apperrors.ErrNoDefaultRole
			}
			return uuid.Nil, fmt.Errorf("finding default role: %w", err)
		}
		return fallback.ID, nil
	}

	role, err := s.roles.GetByID(*roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperrors.ErrRoleNotFound
		}
		return uuid.Nil, fmt.Errorf("getting role: %w", err)
	}
	if role.OrganizationID != orgID {
		return uuid.Nil, apperrors.ErrRoleNotFound
	}
	return role.ID, nil
}

// Get retrieves a member with their role within the organization scope
func (s *MemberService) Get(id, orgID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByIDWithRole(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting member: %w", err)
	}
	if user.OrganizationID != orgID {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// List retrieves members of an organization, optionally filtered by a
// name or phone number search query
func (s *MemberService) List(orgID uuid.UUID, query string, limit, offset int) ([]models.User, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if query != "" {
		users, total, err := s.users.SearchByOrganization(orgID, query, limit, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("searching members: %w", err)
		}
		return users, total, nil
	}

	users, total, err := s.users.GetByOrganizationID(orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing members: %w", err)
	}
	return users, total, nil
}

// Update applies partial changes to a member
func (s *MemberService) Update(id, orgID uuid.UUID, req *UpdateMemberRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	user, err := s.Get(id, orgID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Password != nil {
		passwordHash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.RoleID != nil {
		roleID, err := s.resolveRole(orgID, req.RoleID)
		if err != nil {
			return nil, err
		}
		user.RoleID = roleID
		user.Role = nil
	}

	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("updating member: %w", err)
	}
	return user, nil
}

// Delete removes a member and their notifications
func (s *MemberService) Delete(id, orgID uuid.UUID) error {
	if _, err := s.Get(id, orgID); err != nil {
		return err
	}
	if err := s.notifications.DeleteByUser(id); err != nil {
		return fmt.Errorf("deleting member notifications: %w", err)
	}
	if err := s.users.Delete(id); err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	return nil
}
