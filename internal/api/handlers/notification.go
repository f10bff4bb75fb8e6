package handlers

import (
	"net/http"

	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles HTTP requests for notifications
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(s *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// Create handles POST /api/v1/notifications
// @Summary Send a notification to a member
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body service.CreateNotificationRequest true "Notification data"
// @Success 201 {object} models.Notification
// @Failure 404 {object} ErrorResponse "Recipient not found"
// @Security BearerAuth
// @Router /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}

	var req service.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	notification, err := h.service.Create(d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// ListMine handles GET /api/v1/notifications
// @Summary List the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) ListMine(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	notifications, total, err := h.service.ListForUser(d.UserID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: notifications, Total: total, Limit: limit, Offset: offset})
}

// MarkRead handles POST /api/v1/notifications/:id/read
// @Summary Mark one of the caller's notifications as read
// @Tags notifications
// @Param id path string true "Notification ID (UUID)"
// @Success 204 "Notification marked read"
// @Failure 404 {object} ErrorResponse "Notification not found"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(id, d.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
