package auth

import (
	"testing"
	"time"

	"community-portal-backend/internal/config"
	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	users   *mocks.MockUserRepositoryInterface
	otp     *MemoryOTPStore
	service *AuthService
	now     time.Time
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.otp = NewMemoryOTPStore()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		TokenTTLHours: 24,
		OTPTTLMinutes: 5,
	}
	s.service = NewAuthService(cfg, s.users, s.otp).WithClock(func() time.Time { return s.now })
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuthServiceTestSuite) testUser() *models.User {
	orgID := uuid.New()
	hash, err := HashPassword("correct-password")
	s.Require().NoError(err)
	return &models.User{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		OrganizationID: orgID,
		RoleID:         uuid.New(),
		FullName:       "Dana Levi",
		PhoneNumber:    "0501234567",
		PasswordHash:   hash,
		Role:           &models.Role{Name: "Member"},
	}
}

func (s *AuthServiceTestSuite) TestTokenRoundTrip() {
	user := s.testUser()

	token, err := s.service.GenerateToken(user, "Member")
	s.Require().NoError(err)
	s.NotEmpty(token)

	claims, err := s.service.ValidateToken(token)
	s.Require().NoError(err)

	userID, err := claims.UserID()
	s.Require().NoError(err)
	s.Equal(user.ID, userID)

	orgID, ok := claims.OrganizationID()
	s.True(ok)
	s.Equal(user.OrganizationID, orgID)
	s.Equal("Member", claims.Role)
}

func (s *AuthServiceTestSuite) TestExpiredTokenRejected() {
	user := s.testUser()

	token, err := s.service.GenerateToken(user, "Member")
	s.Require().NoError(err)

	s.now = s.now.Add(25 * time.Hour)

	_, err = s.service.ValidateToken(token)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *AuthServiceTestSuite) TestTamperedTokenRejected() {
	user := s.testUser()

	token, err := s.service.GenerateToken(user, "Member")
	s.Require().NoError(err)

	_, err = s.service.ValidateToken(token + "x")
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *AuthServiceTestSuite) TestLoginWithPassword() {
	user := s.testUser()
	s.users.EXPECT().GetByPhoneNumber(user.PhoneNumber).Return(user, nil)

	token, err := s.service.LoginWithPassword(user.PhoneNumber, "correct-password")
	s.Require().NoError(err)
	s.NotEmpty(token)
}

func (s *AuthServiceTestSuite) TestLoginWrongPassword() {
	user := s.testUser()
	s.users.EXPECT().GetByPhoneNumber(user.PhoneNumber).Return(user, nil)

	_, err := s.service.LoginWithPassword(user.PhoneNumber, "wrong-password")
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLoginUnknownPhone() {
	s.users.EXPECT().GetByPhoneNumber("0500000000").Return(nil, gorm.ErrRecordNotFound)

	_, err := s.service.LoginWithPassword("0500000000", "whatever")
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestOTPFlow() {
	user := s.testUser()
	s.users.EXPECT().GetByPhoneNumber(user.PhoneNumber).Return(user, nil).Times(2)

	code, err := s.service.RequestOTP(user.PhoneNumber)
	s.Require().NoError(err)
	s.Len(code, 6)

	token, err := s.service.VerifyOTP(user.PhoneNumber, code)
	s.Require().NoError(err)
	s.NotEmpty(token)

	// The code is consumed on first use
	_, err = s.service.VerifyOTP(user.PhoneNumber, code)
	s.ErrorIs(err, apperrors.ErrOTPNotRequested)
}

func (s *AuthServiceTestSuite) TestOTPWrongCode() {
	user := s.testUser()
	s.users.EXPECT().GetByPhoneNumber(user.PhoneNumber).Return(user, nil)

	code, err := s.service.RequestOTP(user.PhoneNumber)
	s.Require().NoError(err)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	_, err = s.service.VerifyOTP(user.PhoneNumber, wrong)
	s.ErrorIs(err, apperrors.ErrOTPInvalid)
}

func (s *AuthServiceTestSuite) TestOTPExpires() {
	user := s.testUser()
	s.users.EXPECT().GetByPhoneNumber(user.PhoneNumber).Return(user, nil)

	code, err := s.service.RequestOTP(user.PhoneNumber)
	s.Require().NoError(err)

	s.now = s.now.Add(6 * time.Minute)

	_, err = s.service.VerifyOTP(user.PhoneNumber, code)
	s.ErrorIs(err, apperrors.ErrOTPExpired)

	// An expired code is gone for good
	_, err = s.service.VerifyOTP(user.PhoneNumber, code)
	s.ErrorIs(err, apperrors.ErrOTPNotRequested)
}

func (s *AuthServiceTestSuite) TestOTPNotRequested() {
	_, err := s.service.VerifyOTP("0509999999", "123456")
	s.ErrorIs(err, apperrors.ErrOTPNotRequested)
}

func (s *AuthServiceTestSuite) TestRequestOTPUnknownUser() {
	s.users.EXPECT().GetByPhoneNumber("0500000000").Return(nil, gorm.ErrRecordNotFound)

	_, err := s.service.RequestOTP("0500000000")
	s.ErrorIs(err, apperrors.ErrUserNotFound)
}

func (s *AuthServiceTestSuite) TestRefreshReflectsRoleChange() {
	user := s.testUser()

	token, err := s.service.GenerateToken(user, "Member")
	s.Require().NoError(err)

	promoted := *user
	promoted.Role = &models.Role{Name: "Admin"}
	s.users.EXPECT().GetByIDWithRole(user.ID).Return(&promoted, nil)

	refreshed, err := s.service.Refresh(token)
	s.Require().NoError(err)

	claims, err := s.service.ValidateToken(refreshed)
	s.Require().NoError(err)
	s.Equal("Admin", claims.Role)
}

func (s *AuthServiceTestSuite) TestRefreshInvalidToken() {
	_, err := s.service.Refresh("not-a-token")
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *AuthServiceTestSuite) TestCheckPhone() {
	user := s.testUser()
	s.users.EXPECT().GetByPhoneNumber(user.PhoneNumber).Return(user, nil)
	s.users.EXPECT().GetByPhoneNumber("0507777777").Return(nil, gorm.ErrRecordNotFound)

	available, err := s.service.CheckPhone(user.PhoneNumber)
	s.Require().NoError(err)
	s.False(available)

	available, err = s.service.CheckPhone("0507777777")
	s.Require().NoError(err)
	s.True(available)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
