package handlers

import (
	"net/http"

	"community-portal-backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth *auth.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// LoginRequest carries phone number and password credentials
type LoginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// TokenResponse carries an issued session token
type TokenResponse struct {
	Token string `json:"token"`
}

// PhoneRequest carries a phone number
type PhoneRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// VerifyOTPRequest carries a phone number and one-time code
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

// Login handles POST /api/v1/auth/login
// @Summary Log in with phone number and password
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} TokenResponse "Session token"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	token, err := h.auth.LoginWithPassword(req.PhoneNumber, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// RequestOTP handles POST /api/v1/auth/otp/request
// @Summary Request a one-time login code
// @Tags auth
// @Accept json
// @Produce json
// @Param phone body PhoneRequest true "Phone number"
// @Success 204 "Code generated and dispatched"
// @Failure 404 {object} ErrorResponse "Unknown phone number"
// @Router /auth/otp/request [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	// The code travels through the SMS channel, never through this
	// response.
	if _, err := h.auth.RequestOTP(req.PhoneNumber); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// VerifyOTP handles POST /api/v1/auth/otp/verify
// @Summary Exchange a one-time code for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param verification body VerifyOTPRequest true "Phone number and code"
// @Success 200 {object} TokenResponse "Session token"
// @Failure 401 {object} ErrorResponse "Invalid or expired code"
// @Router /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	token, err := h.auth.VerifyOTP(req.PhoneNumber, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// Refresh handles POST /api/v1/auth/refresh
// @Summary Re-issue a token from a still-valid one
// @Tags auth
// @Produce json
// @Success 200 {object} TokenResponse "Fresh session token"
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Security BearerAuth
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
		return
	}

	token, err := h.auth.Refresh(header[len(prefix):])
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// CheckPhone handles POST /api/v1/auth/check-phone
// @Summary Check whether a phone number is available for registration
// @Tags auth
// @Accept json
// @Produce json
// @Param phone body PhoneRequest true "Phone number"
// @Success 200 {object} map[string]bool "Availability flag"
// @Router /auth/check-phone [post]
func (h *AuthHandler) CheckPhone(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	available, err := h.auth.CheckPhone(req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}
