package handlers

import (
	"net/http"

	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// RoleHandler handles HTTP requests for roles
type RoleHandler struct {
	service *service.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(s *service.RoleService) *RoleHandler {
	return &RoleHandler{service: s}
}

// Create handles POST /api/v1/roles
// @Summary Create a role in the scoped organization
// @Tags roles
// @Accept json
// @Produce json
// @Param role body service.CreateRoleRequest true "Role data"
// @Success 201 {object} models.Role
// @Failure 409 {object} ErrorResponse "Role name already taken"
// @Security BearerAuth
// @Router /roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}

	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	role, err := h.service.Create(d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// Get handles GET /api/v1/roles/:id
// @Summary Get a role
// @Tags roles
// @Produce json
// @Param id path string true "Role ID (UUID)"
// @Success 200 {object} models.Role
// @Failure 404 {object} ErrorResponse "Role not found"
// @Security BearerAuth
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.service.Get(id, d.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// List handles GET /api/v1/roles
// @Summary List roles of the scoped organization
// @Tags roles
// @Produce json
// @Success 200 {array} models.Role
// @Security BearerAuth
// @Router /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}

	roles, err := h.service.List(d.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// Update handles PATCH /api/v1/roles/:id
// @Summary Update a role
// @Tags roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID (UUID)"
// @Param role body service.UpdateRoleRequest true "Fields to update"
// @Success 200 {object} models.Role
// @Failure 404 {object} ErrorResponse "Role not found"
// @Security BearerAuth
// @Router /roles/{id} [patch]
func (h *RoleHandler) Update(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	role, err := h.service.Update(id, d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// Delete handles DELETE /api/v1/roles/:id
// @Summary Delete a role, reassigning its holders to the default role
// @Tags roles
// @Param id path string true "Role ID (UUID)"
// @Success 204 "Role deleted"
// @Failure 400 {object} ErrorResponse "Role is protected from deletion"
// @Failure 404 {object} ErrorResponse "Role not found"
// @Security BearerAuth
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
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
