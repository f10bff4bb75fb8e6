package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"community-portal-backend/internal/config"
	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpDigits = 6

// AuthClaims represents JWT token claims. The subject is the user ID; the
// organization and role claims are a snapshot from issuance time — the
// authorization engine always re-reads the current role from the database
// and only uses the orgId claim as the caller's home tenant.
type AuthClaims struct {
	OrgID string `json:"orgId"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the token subject as the user's UUID
func (c *AuthClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// OrganizationID parses the orgId claim; ok is false when the token
// carries no home organization.
func (c *AuthClaims) OrganizationID() (uuid.UUID, bool) {
	if c.OrgID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.OrgID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// AuthService issues and validates session tokens. Login is by phone number
// plus password or a one-time code delivered out of band.
type AuthService struct {
	secret   []byte
	tokenTTL time.Duration
	otpTTL   time.Duration
	users    repository.UserRepositoryInterface
	otp      OTPStore
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg *config.Config, users repository.UserRepositoryInterface, otp OTPStore) *AuthService {
	return &AuthService{
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: time.Duration(cfg.TokenTTLHours) * time.Hour,
		otpTTL:   time.Duration(cfg.OTPTTLMinutes) * time.Minute,
		users:    users,
		otp:      otp,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Tests use this to control token
// and OTP expiry.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// GenerateToken issues a signed token for the user with the given role name
func (s *AuthService) GenerateToken(user *models.User, roleName string) (string, error) {
	issuedAt := s.now()
	claims := &AuthClaims{
		OrgID: user.OrganizationID.String(),
		Role:  roleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry of a token
func (s *AuthService) ValidateToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// LoginWithPassword authenticates by phone number and password. Unknown
// phone and wrong password are deliberately the same error.
func (s *AuthService) LoginWithPassword(phone, password string) (string, error) {
	user, err := s.users.GetByPhoneNumber(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.GenerateToken(user, roleName(user))
}

// RequestOTP generates and stores a one-time code for the phone number.
// The code is returned so the caller can hand it to the delivery channel.
func (s *AuthService) RequestOTP(phone string) (string, error) {
	if _, err := s.users.GetByPhoneNumber(phone); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	code, err := generateOTPCode()
	if err != nil {
		return "", fmt.Errorf("generating OTP: %w", err)
	}

	s.otp.Put(phone, OTPEntry{Code: code, ExpiresAt: s.now().Add(s.otpTTL)})
	return code, nil
}

// VerifyOTP checks a one-time code and, on success, consumes it and issues
// a token. Codes are single use whether they match or expire.
func (s *AuthService) VerifyOTP(phone, code string) (string, error) {
	entry, ok := s.otp.Get(phone)
	if !ok {
		return "", apperrors.ErrOTPNotRequested
	}
	if s.now().After(entry.ExpiresAt) {
		s.otp.Delete(phone)
		return "", apperrors.ErrOTPExpired
	}
	if entry.Code != code {
		return "", apperrors.ErrOTPInvalid
	}
	s.otp.Delete(phone)

	user, err := s.users.GetByPhoneNumber(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	return s.GenerateToken(user, roleName(user))
}

// Refresh re-issues a token from a still-valid one, re-reading the user so
// organization or role reassignments since issuance take effect.
func (s *AuthService) Refresh(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	userID, err := claims.UserID()
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	user, err := s.users.GetByIDWithRole(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrUserNotFound
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	return s.GenerateToken(user, roleName(user))
}

// CheckPhone reports whether a phone number is still available
func (s *AuthService) CheckPhone(phone string) (bool, error) {
	_, err := s.users.GetByPhoneNumber(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("looking up user: %w", err)
	}
	return false, nil
}

// HashPassword hashes a plaintext password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func roleName(user *models.User) string {
	if user.Role != nil {
		return user.Role.Name
	}
	return ""
}

func generateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}
