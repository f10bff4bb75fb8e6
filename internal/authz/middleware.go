package authz

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"community-portal-backend/internal/auth"
	apperrors "community-portal-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DecisionContextKey is the gin context key for the authorization decision
const DecisionContextKey = "authz_decision"

// Middleware enforces tenant scope and permissions on routes
type Middleware struct {
	engine *Engine
}

// NewMiddleware creates a new authorization middleware
func NewMiddleware(engine *Engine) *Middleware {
	return &Middleware{engine: engine}
}

// RequireScope authorizes the request for the given permission and stores
// the resulting decision in the context. The requested organization is read
// from the organizationId query parameter or JSON body field; communityId
// is accepted as a legacy alias in both places.
func (m *Middleware) RequireScope(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrInvalidToken.Error()})
			c.Abort()
			return
		}

		requestedOrgID, err := requestedOrganization(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization id"})
			c.Abort()
			return
		}

		decision, err := m.engine.Authorize(claims, permission, requestedOrgID)
		if err != nil {
			status := http.StatusInternalServerError
			message := "internal server error"
			switch {
			case apperrors.IsAuthentication(err):
				status = http.StatusUnauthorized
				message = err.Error()
			case apperrors.IsAuthorization(err):
				status = http.StatusForbidden
				message = err.Error()
			case apperrors.IsValidation(err):
				status = http.StatusBadRequest
				message = err.Error()
			}
			c.JSON(status, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Set(DecisionContextKey, decision)
		c.Next()
	}
}

// DecisionFromContext extracts the decision set by RequireScope
func DecisionFromContext(c *gin.Context) (*Decision, bool) {
	value, exists := c.Get(DecisionContextKey)
	if !exists {
		return nil, false
	}
	decision, ok := value.(*Decision)
	return decision, ok
}

func requestedOrganization(c *gin.Context) (*uuid.UUID, error) {
	raw := c.Query("organizationId")
	if raw == "" {
		raw = c.Query("communityId")
	}
	if raw == "" {
		raw = organizationFromBody(c)
	}
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// organizationFromBody peeks at a JSON body for the scope field without
// consuming it, so the handler can still bind the request.
func organizationFromBody(c *gin.Context) string {
	if c.Request.Body == nil || !strings.Contains(c.ContentType(), "application/json") {
		return ""
	}
	data, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(data))
	if err != nil {
		return ""
	}

	var body struct {
		OrganizationID string `json:"organizationId"`
		CommunityID    string `json:"communityId"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.OrganizationID != "" {
		return body.OrganizationID
	}
	return body.CommunityID
}
