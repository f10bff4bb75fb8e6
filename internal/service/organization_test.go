package service

import (
	"testing"

	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type OrganizationServiceTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	organizations *mocks.MockOrganizationRepositoryInterface
	roles         *mocks.MockRoleRepositoryInterface
	users         *mocks.MockUserRepositoryInterface
	service       *OrganizationService
}

func (s *OrganizationServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.organizations = mocks.NewMockOrganizationRepositoryInterface(s.ctrl)
	s.roles = mocks.NewMockRoleRepositoryInterface(s.ctrl)
	s.users = mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.service = NewOrganizationService(s.organizations, s.roles, s.users)
}

func (s *OrganizationServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrganizationServiceTestSuite) createRequest() *CreateOrganizationRequest {
	return &CreateOrganizationRequest{
		Name:             "Green Hills",
		Type:             "neighborhood",
		AdminFullName:    "Dana Levi",
		AdminPhoneNumber: "0501234567",
		AdminPassword:    "secret-password",
	}
}

func (s *OrganizationServiceTestSuite) TestCreateBootstrapsRolesAndAdmin() {
	req := s.createRequest()

	s.organizations.EXPECT().GetByName(req.Name).Return(nil, gorm.ErrRecordNotFound)
	s.users.EXPECT().GetByPhoneNumber(req.AdminPhoneNumber).Return(nil, gorm.ErrRecordNotFound)
	s.organizations.EXPECT().Create(gomock.Any()).Return(nil)

	var createdRoles []*models.Role
	s.roles.EXPECT().Create(gomock.Any()).Times(3).DoAndReturn(func(role *models.Role) error {
		role.ID = uuid.New()
		createdRoles = append(createdRoles, role)
		return nil
	})
	s.users.EXPECT().Create(gomock.Any()).DoAndReturn(func(user *models.User) error {
		s.Equal(createdRoles[0].ID, user.RoleID)
		return nil
	})

	_, err := s.service.Create(req)
	s.Require().NoError(err)

	s.Require().Len(createdRoles, 3)
	s.Equal(RoleNameAdmin, createdRoles[0].Name)
	s.False(createdRoles[0].IsDefault)
	s.Equal(RoleNameMember, createdRoles[2].Name)
	s.True(createdRoles[2].IsDefault)
	for _, role := range createdRoles {
		s.False(role.Permissions.HasWildcard())
	}
}

func (s *OrganizationServiceTestSuite) TestCreateDuplicateName() {
	req := s.createRequest()
	s.organizations.EXPECT().GetByName(req.Name).Return(&models.Organization{}, nil)

	_, err := s.service.Create(req)
	s.ErrorIs(err, apperrors.ErrOrganizationExists)
}

func (s *OrganizationServiceTestSuite) TestCreateReservedType() {
	req := s.createRequest()
	req.Type = models.OrganizationTypeSystem

	_, err := s.service.Create(req)
	s.True(apperrors.IsValidation(err))
}

func (s *OrganizationServiceTestSuite) TestListFiltersSystemOrganization() {
	orgs := []models.Organization{
		{Name: "System", Type: models.OrganizationTypeSystem},
		{Name: "Green Hills", Type: "neighborhood"},
	}
	s.organizations.EXPECT().GetAll(defaultPageSize, 0).Return(orgs, int64(2), nil)

	out, total, err := s.service.List(0, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(out, 1)
	s.Equal("Green Hills", out[0].Name)
}

func (s *OrganizationServiceTestSuite) TestDeleteSystemRefused() {
	org := &models.Organization{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Name:      "System",
		Type:      models.OrganizationTypeSystem,
	}
	s.organizations.EXPECT().GetByID(org.ID).Return(org, nil)

	s.True(apperrors.IsValidation(s.service.Delete(org.ID)))
}

func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
