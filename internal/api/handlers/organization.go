package handlers

import (
	"net/http"

	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// OrganizationHandler handles HTTP requests for organizations
type OrganizationHandler struct {
	service *service.OrganizationService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(s *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: s}
}

// Create handles POST /api/v1/organizations
// @Summary Register a new organization
// @Description Create an organization with its stock roles and first administrator
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body service.CreateOrganizationRequest true "Organization data"
// @Success 201 {object} models.Organization "Successfully created organization"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 409 {object} ErrorResponse "Organization already exists"
// @Router /organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req service.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	org, err := h.service.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, org)
}

// Get handles GET /api/v1/organizations/:id
// @Summary Get organization by ID
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Success 200 {object} models.Organization
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations/{id} [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	// Another tenant's organization is indistinguishable from a missing one
	if !d.IsSuperAdmin && id != d.OrganizationID {
		respondError(c, apperrors.ErrOrganizationNotFound)
		return
	}

	org, err := h.service.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

// List handles GET /api/v1/organizations
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *OrganizationHandler) List(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	// Regular members only ever see their own community
	if !d.IsSuperAdmin {
		org, err := h.service.Get(d.OrganizationID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ListResponse{Data: []interface{}{org}, Total: 1, Limit: limit, Offset: offset})
		return
	}

	orgs, total, err := h.service.List(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: orgs, Total: total, Limit: limit, Offset: offset})
}

// Update handles PATCH /api/v1/organizations/:id
// @Summary Update an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID (UUID)"
// @Param organization body service.UpdateOrganizationRequest true "Fields to update"
// @Success 200 {object} models.Organization
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations/{id} [patch]
func (h *OrganizationHandler) Update(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !d.IsSuperAdmin && id != d.OrganizationID {
		respondError(c, apperrors.ErrOrganizationNotFound)
		return
	}

	var req service.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	org, err := h.service.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

// Delete handles DELETE /api/v1/organizations/:id
// @Summary Delete an organization
// @Tags organizations
// @Param id path string true "Organization ID (UUID)"
// @Success 204 "Organization deleted"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations/{id} [delete]
func (h *OrganizationHandler) Delete(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if !d.IsSuperAdmin && id != d.OrganizationID {
		respondError(c, apperrors.ErrOrganizationNotFound)
		return
	}

	if err := h.service.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
