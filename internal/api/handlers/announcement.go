package handlers

import (
	"net/http"

	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AnnouncementHandler handles HTTP requests for announcements
type AnnouncementHandler struct {
	service *service.AnnouncementService
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(s *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: s}
}

// Create handles POST /api/v1/announcements
// @Summary Publish an announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param announcement body service.CreateAnnouncementRequest true "Announcement data"
// @Success 201 {object} models.Announcement
// @Security BearerAuth
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}

	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	announcement, err := h.service.Create(d.OrganizationID, d.UserID, d.UserName, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, announcement)
}

// Get handles GET /api/v1/announcements/:id
func (h *AnnouncementHandler) Get(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	announcement, err := h.service.Get(id, d.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcement)
}

// List handles GET /api/v1/announcements
// @Summary List announcements, pinned first
// @Tags announcements
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	announcements, total, err := h.service.List(d.OrganizationID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: announcements, Total: total, Limit: limit, Offset: offset})
}

// Update handles PATCH /api/v1/announcements/:id
func (h *AnnouncementHandler) Update(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	announcement, err := h.service.Update(id, d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcement)
}

// Delete handles DELETE /api/v1/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
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
