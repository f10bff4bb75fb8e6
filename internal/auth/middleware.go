package auth

import (
	"errors"
	"net/http"
	"strings"

	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// ClaimsContextKey is the gin context key for validated token claims
	ClaimsContextKey = "auth_claims"
	// UserIDContextKey is the gin context key for the authenticated user ID
	UserIDContextKey = "user_id"
)

// Middleware provides request authentication
type Middleware struct {
	auth  *AuthService
	users repository.UserRepositoryInterface
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(auth *AuthService, users repository.UserRepositoryInterface) *Middleware {
	return &Middleware{auth: auth, users: users}
}

// RequireAuth validates the bearer token and confirms the user still exists.
// Deleted users hold syntactically valid tokens until expiry, so the
// existence check cannot be skipped.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			c.Abort()
			return
		}

		claims, err := m.auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrInvalidToken.Error()})
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrInvalidToken.Error()})
			c.Abort()
			return
		}

		if _, err := m.users.GetByID(userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrInvalidToken.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			c.Abort()
			return
		}

		c.Set(ClaimsContextKey, claims)
		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

// ClaimsFromContext extracts validated claims set by RequireAuth
func ClaimsFromContext(c *gin.Context) (*AuthClaims, bool) {
	value, exists := c.Get(ClaimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*AuthClaims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
