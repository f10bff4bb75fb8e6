package handlers

import (
	"net/http"

	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ElectionHandler handles HTTP requests for elections, candidates, ballots
// and results
type ElectionHandler struct {
	service *service.ElectionService
}

// NewElectionHandler creates a new election handler
func NewElectionHandler(s *service.ElectionService) *ElectionHandler {
	return &ElectionHandler{service: s}
}

// Create handles POST /api/v1/elections
// @Summary Create an election in draft status
// @Tags elections
// @Accept json
// @Produce json
// @Param election body service.CreateElectionRequest true "Election data"
// @Success 201 {object} models.Election
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Security BearerAuth
// @Router /elections [post]
func (h *ElectionHandler) Create(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}

	var req service.CreateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	election, err := h.service.Create(d.OrganizationID, d.UserID, d.Role.Name, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, election)
}

// Get handles GET /api/v1/elections/:id
// @Summary Get an election
// @Tags elections
// @Produce json
// @Param id path string true "Election ID (UUID)"
// @Success 200 {object} models.Election
// @Failure 404 {object} ErrorResponse "Election not found"
// @Security BearerAuth
// @Router /elections/{id} [get]
func (h *ElectionHandler) Get(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	election, err := h.service.Get(id, d.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// List handles GET /api/v1/elections
// @Summary List elections of the scoped organization
// @Tags elections
// @Produce json
// @Param status query string false "Filter by status (draft, active, closed)"
// @Param q query string false "Search by title"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /elections [get]
func (h *ElectionHandler) List(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}

	status := models.ElectionStatus(c.Query("status"))
	elections, total, err := h.service.List(d.OrganizationID, status, c.Query("q"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: elections, Total: total, Limit: limit, Offset: offset})
}

// Update handles PATCH /api/v1/elections/:id
// @Summary Update an election, including status transitions
// @Tags elections
// @Accept json
// @Produce json
// @Param id path string true "Election ID (UUID)"
// @Param election body service.UpdateElectionRequest true "Fields to update"
// @Success 200 {object} models.Election
// @Failure 404 {object} ErrorResponse "Election not found"
// @Security BearerAuth
// @Router /elections/{id} [patch]
func (h *ElectionHandler) Update(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	election, err := h.service.Update(id, d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// Delete handles DELETE /api/v1/elections/:id
// @Summary Delete an election with its candidates and votes
// @Tags elections
// @Param id path string true "Election ID (UUID)"
// @Success 204 "Election deleted"
// @Failure 404 {object} ErrorResponse "Election not found"
// @Security BearerAuth
// @Router /elections/{id} [delete]
func (h *ElectionHandler) Delete(c *gin.Context) {
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

// AddCandidate handles POST /api/v1/elections/:id/candidates
// @Summary Append a candidate to the ballot
// @Tags elections
// @Accept json
// @Produce json
// @Param id path string true "Election ID (UUID)"
// @Param candidate body service.AddCandidateRequest true "Candidate data"
// @Success 201 {object} models.Candidate
// @Failure 404 {object} ErrorResponse "Election not found"
// @Security BearerAuth
// @Router /elections/{id}/candidates [post]
func (h *ElectionHandler) AddCandidate(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req service.AddCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	candidate, err := h.service.AddCandidate(id, d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

// ListCandidates handles GET /api/v1/elections/:id/candidates
// @Summary List the election's ballot in order
// @Tags elections
// @Produce json
// @Param id path string true "Election ID (UUID)"
// @Success 200 {array} models.Candidate
// @Failure 404 {object} ErrorResponse "Election not found"
// @Security BearerAuth
// @Router /elections/{id}/candidates [get]
func (h *ElectionHandler) ListCandidates(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	candidates, err := h.service.ListCandidates(id, d.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// UpdateCandidate handles PATCH /api/v1/elections/:id/candidates/:candidateId
// @Summary Update a candidate
// @Tags elections
// @Accept json
// @Produce json
// @Param id path string true "Election ID (UUID)"
// @Param candidateId path string true "Candidate ID (UUID)"
// @Param candidate body service.UpdateCandidateRequest true "Fields to update"
// @Success 200 {object} models.Candidate
// @Failure 404 {object} ErrorResponse "Candidate not found"
// @Security BearerAuth
// @Router /elections/{id}/candidates/{candidateId} [patch]
func (h *ElectionHandler) UpdateCandidate(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	candidateID, ok := parseUUIDParam(c, "candidateId")
	if !ok {
		return
	}

	var req service.UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	candidate, err := h.service.UpdateCandidate(id, candidateID, d.OrganizationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// DeleteCandidate handles DELETE /api/v1/elections/:id/candidates/:candidateId
// @Summary Remove a candidate and votes cast for it
// @Tags elections
// @Param id path string true "Election ID (UUID)"
// @Param candidateId path string true "Candidate ID (UUID)"
// @Success 204 "Candidate deleted"
// @Failure 404 {object} ErrorResponse "Candidate not found"
// @Security BearerAuth
// @Router /elections/{id}/candidates/{candidateId} [delete]
func (h *ElectionHandler) DeleteCandidate(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	candidateID, ok := parseUUIDParam(c, "candidateId")
	if !ok {
		return
	}

	if err := h.service.DeleteCandidate(id, candidateID, d.OrganizationID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Vote handles POST /api/v1/elections/:id/votes
// @Summary Cast the caller's complete ballot
// @Tags elections
// @Accept json
// @Produce json
// @Param id path string true "Election ID (UUID)"
// @Param ballot body service.CastVoteRequest true "Selected candidates"
// @Success 204 "Ballot recorded"
// @Failure 400 {object} ErrorResponse "Ballot violates a voting rule"
// @Failure 404 {object} ErrorResponse "Election not found"
// @Failure 409 {object} ErrorResponse "Caller already voted"
// @Security BearerAuth
// @Router /elections/{id}/votes [post]
func (h *ElectionHandler) Vote(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req service.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.service.Cast(d.OrganizationID, d.UserID, d.UserName, id, &req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MyVoteStatus handles GET /api/v1/elections/:id/votes/me
// @Summary Report whether the caller already voted
// @Tags elections
// @Produce json
// @Param id path string true "Election ID (UUID)"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ErrorResponse "Election not found"
// @Security BearerAuth
// @Router /elections/{id}/votes/me [get]
func (h *ElectionHandler) MyVoteStatus(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	voted, err := h.service.HasVoted(d.OrganizationID, d.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_voted": voted})
}

// Results handles GET /api/v1/elections/:id/results
// @Summary Get the election tally
// @Tags elections
// @Produce json
// @Param id path string true "Election ID (UUID)"
// @Success 200 {object} service.ElectionResults
// @Failure 404 {object} ErrorResponse "Election not found"
// @Security BearerAuth
// @Router /elections/{id}/results [get]
func (h *ElectionHandler) Results(c *gin.Context) {
	d, ok := decision(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	results, err := h.service.Results(id, d.OrganizationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
