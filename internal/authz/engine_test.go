package authz

import (
	"testing"

	"community-portal-backend/internal/auth"
	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/mocks"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type EngineTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	users  *mocks.MockUserRepositoryInterface
	roles  *mocks.MockRoleRepositoryInterface
	engine *Engine

	orgID    uuid.UUID
	otherOrg uuid.UUID
	user     *models.User
	role     *models.Role
}

func (s *EngineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.roles = mocks.NewMockRoleRepositoryInterface(s.ctrl)
	s.engine = NewEngine(s.users, s.roles)

	s.orgID = uuid.New()
	s.otherOrg = uuid.New()
	s.role = &models.Role{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		OrganizationID: s.orgID,
		Name:           "Member",
		Permissions:    models.PermissionSet{"elections:read", "elections:vote"},
	}
	s.user = &models.User{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		OrganizationID: s.orgID,
		RoleID:         s.role.ID,
	}
}

func (s *EngineTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EngineTestSuite) claims(orgID string) *auth.AuthClaims {
	return &auth.AuthClaims{
		OrgID:            orgID,
		Role:             s.role.Name,
		RegisteredClaims: jwt.RegisteredClaims{Subject: s.user.ID.String()},
	}
}

func (s *EngineTestSuite) expectLoad() {
	s.users.EXPECT().GetByID(s.user.ID).Return(s.user, nil)
	s.roles.EXPECT().GetByID(s.role.ID).Return(s.role, nil)
}

func (s *EngineTestSuite) TestSameOrganizationAllowed() {
	s.expectLoad()

	decision, err := s.engine.Authorize(s.claims(s.orgID.String()), "elections:read", &s.orgID)
	s.Require().NoError(err)
	s.Equal(s.orgID, decision.OrganizationID)
	s.Equal(s.user.ID, decision.UserID)
	s.False(decision.IsSuperAdmin)
}

func (s *EngineTestSuite) TestCrossTenantRefused() {
	s.expectLoad()

	_, err := s.engine.Authorize(s.claims(s.orgID.String()), "elections:read", &s.otherOrg)
	s.ErrorIs(err, apperrors.ErrOrganizationOutOfScope)
}

func (s *EngineTestSuite) TestSuperAdminCrossesTenants() {
	s.role.Permissions = models.PermissionSet{models.Wildcard}
	s.expectLoad()

	decision, err := s.engine.Authorize(s.claims(s.orgID.String()), "elections:read", &s.otherOrg)
	s.Require().NoError(err)
	s.Equal(s.otherOrg, decision.OrganizationID)
	s.True(decision.IsSuperAdmin)
}

func (s *EngineTestSuite) TestScopeFallsBackToTokenOrganization() {
	s.expectLoad()

	decision, err := s.engine.Authorize(s.claims(s.orgID.String()), "elections:read", nil)
	s.Require().NoError(err)
	s.Equal(s.orgID, decision.OrganizationID)
}

func (s *EngineTestSuite) TestMissingScope() {
	s.expectLoad()

	_, err := s.engine.Authorize(s.claims(""), "elections:read", nil)
	s.ErrorIs(err, apperrors.ErrMissingOrganizationScope)
}

func (s *EngineTestSuite) TestPermissionDenied() {
	s.expectLoad()

	_, err := s.engine.Authorize(s.claims(s.orgID.String()), "roles:write", &s.orgID)
	s.ErrorIs(err, apperrors.ErrPermissionDenied)
}

func (s *EngineTestSuite) TestWildcardGrantsAnyPermission() {
	s.role.Permissions = models.PermissionSet{models.Wildcard}
	s.expectLoad()

	_, err := s.engine.Authorize(s.claims(s.orgID.String()), "anything:at-all", &s.orgID)
	s.NoError(err)
}

func (s *EngineTestSuite) TestEmptyPermissionOnlyScopes() {
	s.expectLoad()

	decision, err := s.engine.Authorize(s.claims(s.orgID.String()), "", nil)
	s.Require().NoError(err)
	s.Equal(s.orgID, decision.OrganizationID)
}

func (s *EngineTestSuite) TestPermissionChangeTakesEffectImmediately() {
	// First call sees the permission, second call runs after it was
	// revoked. Both hit the database; nothing is cached from the token.
	claims := s.claims(s.orgID.String())

	s.expectLoad()
	_, err := s.engine.Authorize(claims, "elections:vote", &s.orgID)
	s.Require().NoError(err)

	revoked := *s.role
	revoked.Permissions = models.PermissionSet{"elections:read"}
	s.users.EXPECT().GetByID(s.user.ID).Return(s.user, nil)
	s.roles.EXPECT().GetByID(s.role.ID).Return(&revoked, nil)

	_, err = s.engine.Authorize(claims, "elections:vote", &s.orgID)
	s.ErrorIs(err, apperrors.ErrPermissionDenied)
}

func (s *EngineTestSuite) TestDeletedUserRejected() {
	s.users.EXPECT().GetByID(s.user.ID).Return(nil, gorm.ErrRecordNotFound)

	_, err := s.engine.Authorize(s.claims(s.orgID.String()), "elections:read", nil)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *EngineTestSuite) TestNilClaimsRejected() {
	_, err := s.engine.Authorize(nil, "elections:read", nil)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
