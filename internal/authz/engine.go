package authz

import (
	"errors"
	"fmt"

	"community-portal-backend/internal/auth"
	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Decision is the outcome of a successful authorization check. Services
// perform every database read scoped to OrganizationID.
type Decision struct {
	UserID         uuid.UUID
	UserName       string
	OrganizationID uuid.UUID
	Role           *models.Role
	IsSuperAdmin   bool
}

// Engine resolves a request's tenant scope and checks permissions. The user
// and role are read from the database on every call, never from the token,
// so permission or role changes apply to the very next request.
type Engine struct {
	users repository.UserRepositoryInterface
	roles repository.RoleRepositoryInterface
}

// NewEngine creates a new authorization engine
func NewEngine(users repository.UserRepositoryInterface, roles repository.RoleRepositoryInterface) *Engine {
	return &Engine{users: users, roles: roles}
}

// Authorize resolves the effective organization scope and verifies the
// caller holds the required permission.
//
// Scope resolution: a holder of the wildcard permission may address any
// organization. Everyone else is pinned to the organization in their token;
// asking for a different one is refused outright. When no organization is
// requested, the token's organization is the scope, and a caller with
// neither fails with a validation error.
//
// requiredPermission may be empty for endpoints that only need an
// authenticated, scoped caller. requestedOrgID is nil when the request
// names no organization.
func (e *Engine) Authorize(claims *auth.AuthClaims, requiredPermission string, requestedOrgID *uuid.UUID) (*Decision, error) {
	if claims == nil {
		return nil, apperrors.ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := e.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	role, err := e.roles.GetByID(user.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("loading role: %w", err)
	}

	isSuperAdmin := role.Permissions.HasWildcard()
	tokenOrgID, hasTokenOrg := claims.OrganizationID()

	if requestedOrgID != nil && hasTokenOrg && !isSuperAdmin && *requestedOrgID != tokenOrgID {
		return nil, apperrors.ErrOrganizationOutOfScope
	}

	var scope uuid.UUID
	switch {
	case requestedOrgID != nil:
		scope = *requestedOrgID
	case hasTokenOrg:
		scope = tokenOrgID
	default:
		return nil, apperrors.ErrMissingOrganizationScope
	}

	if requiredPermission != "" && !role.Permissions.Has(requiredPermission) {
		return nil, apperrors.ErrPermissionDenied
	}

	return &Decision{
		UserID:         user.ID,
		UserName:       user.FullName,
		OrganizationID: scope,
		Role:           role,
		IsSuperAdmin:   isSuperAdmin,
	}, nil
}
