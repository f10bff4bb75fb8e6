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

type MemberServiceTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	users         *mocks.MockUserRepositoryInterface
	roles         *mocks.MockRoleRepositoryInterface
	notifications *mocks.MockNotificationRepositoryInterface
	service       *MemberService
	orgID         uuid.UUID
}

func (s *MemberServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.roles = mocks.NewMockRoleRepositoryInterface(s.ctrl)
	s.notifications = mocks.NewMockNotificationRepositoryInterface(s.ctrl)
	s.service = NewMemberService(s.users, s.roles, s.notifications)
	s.orgID = uuid.New()
}

func (s *MemberServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *MemberServiceTestSuite) TestCreateWithDefaultRole() {
	fallback := &models.Role{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		OrganizationID: s.orgID,
		Name:           "Member",
		IsDefault:      true,
	}

	s.users.EXPECT().GetByPhoneNumber("0501234567").Return(nil, gorm.ErrRecordNotFound)
	s.roles.EXPECT().GetDefaultByOrganization(s.orgID).Return(fallback, nil)
	s.users.EXPECT().Create(gomock.Any()).DoAndReturn(func(user *models.User) error {
		s.Equal(fallback.ID, user.RoleID)
		s.Equal(s.orgID, user.OrganizationID)
		s.NotEqual("secret-password", user.PasswordHash)
		s.NotEmpty(user.PasswordHash)
		return nil
	})

	_, err := s.service.Create(s.orgID, &CreateMemberRequest{
		FullName:    "Dana Levi",
		PhoneNumber: "0501234567",
		Password:    "secret-password",
	})
	s.NoError(err)
}

func (s *MemberServiceTestSuite) TestCreatePhoneConflict() {
	s.users.EXPECT().GetByPhoneNumber("0501234567").Return(&models.User{}, nil)

	_, err := s.service.Create(s.orgID, &CreateMemberRequest{
		FullName:    "Dana Levi",
		PhoneNumber: "0501234567",
		Password:    "secret-password",
	})
	s.ErrorIs(err, apperrors.ErrPhoneNumberExists)
}

func (s *MemberServiceTestSuite) TestCreateWithForeignRoleRefused() {
	roleID := uuid.New()
	s.users.EXPECT().GetByPhoneNumber("0501234567").Return(nil, gorm.ErrRecordNotFound)
	s.roles.EXPECT().GetByID(roleID).Return(&models.Role{
		BaseModel:      models.BaseModel{ID: roleID},
		OrganizationID: uuid.New(),
	}, nil)

	_, err := s.service.Create(s.orgID, &CreateMemberRequest{
		FullName:    "Dana Levi",
		PhoneNumber: "0501234567",
		Password:    "secret-password",
		RoleID:      &roleID,
	})
	s.ErrorIs(err, apperrors.ErrRoleNotFound)
}

func (s *MemberServiceTestSuite) TestGetOutOfScopeIsNotFound() {
	user := &models.User{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		OrganizationID: uuid.New(),
	}
	s.users.EXPECT().GetByIDWithRole(user.ID).Return(user, nil)

	_, err := s.service.Get(user.ID, s.orgID)
	s.ErrorIs(err, apperrors.ErrUserNotFound)
}

func (s *MemberServiceTestSuite) TestDeleteRemovesNotifications() {
	user := &models.User{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		OrganizationID: s.orgID,
	}
	s.users.EXPECT().GetByIDWithRole(user.ID).Return(user, nil)
	s.notifications.EXPECT().DeleteByUser(user.ID).Return(nil)
	s.users.EXPECT().Delete(user.ID).Return(nil)

	s.NoError(s.service.Delete(user.ID, s.orgID))
}

func TestMemberServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MemberServiceTestSuite))
}
