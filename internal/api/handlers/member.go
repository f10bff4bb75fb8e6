package handlers

import (
	"net/http"

	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// MemberHandler handles HTTP requests for organization members
type MemberHandler struct {
	service *service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(s *service.MemberService) *MemberHandler {
	return &MemberHandler{service: s}
}

// Create handles POST /api/v1/members
// @Summary Register a member in the scoped organization
// @Tags members
// @Accept json
// @Produce json
// @Param member body service.CreateMemberRequest true "Member data"
// @Success 201 {object} models.User
// @Failure 409 {object} ErrorResponse "Phone number already registered"
// @Security BearerAuth
// @Router /members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}

	var req service.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.service.Create(d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get handles GET /api/v1/members/:id
// @Summary Get a member with their role
// @Tags members
// @Produce json
// @Param id path string true "Member ID (UUID)"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse "Member not found"
// @Security BearerAuth
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.service.Get(id, d.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}

	// Role details are only exposed to callers who may read roles
	if !d.Role.Permissions.Has("roles:read") {
		user.Role = nil
	}
	c.JSON(http.StatusOK, user)
}

// List handles GET /api/v1/members
// @Summary List members of the scoped organization
// @Tags members
// @Produce json
// @Param q query string false "Search by name or phone number"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	users, total, err := h.service.List(d.OrganizationID, c.Query("q"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	if !d.Role.Permissions.Has("roles:read") {
		for i := range users {
			users[i].Role = nil
		}
	}
	c.JSON(http.StatusOK, ListResponse{Data: users, Total: total, Limit: limit, Offset: offset})
}

// Update handles PATCH /api/v1/members/:id
// @Summary Update a member
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Member ID (UUID)"
// @Param member body service.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse "Member not found"
// @Security BearerAuth
// @Router /members/{id} [patch]
func (h *MemberHandler) Update(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.service.Update(id, d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/v1/members/:id
// @Summary Remove a member
// @Tags members
// @Param id path string true "Member ID (UUID)"
// @Success 204 "Member deleted"
// @Failure 404 {object} ErrorResponse "Member not found"
// @Security BearerAuth
// @Router /members/{id} [delete]
func (h *MemberHandler) Delete(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(id, d.OrganizationID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
