package handlers

import (
	"net/http"

	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles HTTP requests for chats and messages
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(s *service.ChatService) *ChatHandler {
	return &ChatHandler{service: s}
}

// Create handles POST /api/v1/chats
// @Summary Create a chat
// @Tags chats
// @Accept json
// @Produce json
// @Param chat body service.CreateChatRequest true "Chat data"
// @Success 201 {object} models.Chat
// @Security BearerAuth
// @Router /chats [post]
func (h *ChatHandler) Create(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}

	var req service.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	chat, err := h.service.Create(d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

// List handles GET /api/v1/chats
// @Summary List chats of the scoped organization
// @Tags chats
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /chats [get]
func (h *ChatHandler) List(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	chats, total, err := h.service.List(d.OrganizationID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: chats, Total: total, Limit: limit, Offset: offset})
}

// Delete handles DELETE /api/v1/chats/:id
func (h *ChatHandler) Delete(c *gin.Context) {
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

// PostMessage handles POST /api/v1/chats/:id/messages
// @Summary Post a message to a chat
// @Tags chats
// @Accept json
// @Produce json
// @Param id path string true "Chat ID (UUID)"
// @Param message body service.PostMessageRequest true "Message body"
// @Success 201 {object} models.Message
// @Failure 404 {object} ErrorResponse "Chat not found"
// @Security BearerAuth
// @Router /chats/{id}/messages [post]
func (h *ChatHandler) PostMessage(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req service.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	message, err := h.service.PostMessage(id, d.OrganizationID, d.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// ListMessages handles GET /api/v1/chats/:id/messages
// @Summary List messages of a chat, newest first
// @Tags chats
// @Produce json
// @Param id path string true "Chat ID (UUID)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Failure 404 {object} ErrorResponse "Chat not found"
// @Security BearerAuth
// @Router /chats/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	messages, total, err := h.service.ListMessages(id, d.OrganizationID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: messages, Total: total, Limit: limit, Offset: offset})
}
