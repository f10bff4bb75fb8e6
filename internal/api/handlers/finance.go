package handlers

import (
	"net/http"

	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// FinanceHandler handles HTTP requests for event incomes and expenses
type FinanceHandler struct {
	service *service.FinanceService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(s *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: s}
}

// SubmitIncome handles POST /api/v1/finance/incomes
// @Summary Submit a pending income entry for an event
// @Tags finance
// @Accept json
// @Produce json
// @Param income body service.CreateFinanceEntryRequest true "Income data"
// @Success 201 {object} models.Income
// @Failure 404 {object} ErrorResponse "Event not found"
// @Security BearerAuth
// @Router /finance/incomes [post]
func (h *FinanceHandler) SubmitIncome(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}

	var req service.CreateFinanceEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	income, err := h.service.SubmitIncome(d.OrganizationID, d.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, income)
}

// SubmitExpense handles POST /api/v1/finance/expenses
// @Summary Submit a pending expense entry for an event
// @Tags finance
// @Accept json
// @Produce json
// @Param expense body service.CreateFinanceEntryRequest true "Expense data"
// @Success 201 {object} models.Expense
// @Failure 404 {object} ErrorResponse "Event not found"
// @Security BearerAuth
// @Router /finance/expenses [post]
func (h *FinanceHandler) SubmitExpense(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}

	var req service.CreateFinanceEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	expense, err := h.service.SubmitExpense(d.OrganizationID, d.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// ListIncomes handles GET /api/v1/finance/incomes
// @Summary List income entries of an event
// @Tags finance
// @Produce json
// @Param eventId query string true "Event ID (UUID)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /finance/incomes [get]
func (h *FinanceHandler) ListIncomes(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	eventID, ok := parseUUIDQuery(c, "eventId")
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	incomes, total, err := h.service.ListIncomes(d.OrganizationID, eventID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: incomes, Total: total, Limit: limit, Offset: offset})
}

// ListExpenses handles GET /api/v1/finance/expenses
// @Summary List expense entries of an event
// @Tags finance
// @Produce json
// @Param eventId query string true "Event ID (UUID)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /finance/expenses [get]
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	eventID, ok := parseUUIDQuery(c, "eventId")
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	expenses, total, err := h.service.ListExpenses(d.OrganizationID, eventID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: expenses, Total: total, Limit: limit, Offset: offset})
}

// ReviewIncome handles POST /api/v1/finance/incomes/:id/review
// @Summary Approve or reject a pending income entry
// @Tags finance
// @Accept json
// @Produce json
// @Param id path string true "Income ID (UUID)"
// @Param review body service.ReviewFinanceEntryRequest true "Decision"
// @Success 200 {object} models.Income
// @Failure 409 {object} ErrorResponse "Entry is no longer pending"
// @Security BearerAuth
// @Router /finance/incomes/{id}/review [post]
func (h *FinanceHandler) ReviewIncome(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ReviewFinanceEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	income, err := h.service.ReviewIncome(id, d.OrganizationID, d.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, income)
}

// ReviewExpense handles POST /api/v1/finance/expenses/:id/review
// @Summary Approve or reject a pending expense entry
// @Tags finance
// @Accept json
// @Produce json
// @Param id path string true "Expense ID (UUID)"
// @Param review body service.ReviewFinanceEntryRequest true "Decision"
// @Success 200 {object} models.Expense
// @Failure 409 {object} ErrorResponse "Entry is no longer pending"
// @Security BearerAuth
// @Router /finance/expenses/{id}/review [post]
func (h *FinanceHandler) ReviewExpense(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ReviewFinanceEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	expense, err := h.service.ReviewExpense(id, d.OrganizationID, d.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}
