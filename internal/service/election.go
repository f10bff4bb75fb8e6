package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateElectionRequest carries the fields for creating an election
type CreateElectionRequest struct {
	Title         string    `json:"title" validate:"required,min=1,max=200"`
	Description   string    `json:"description"`
	Type          string    `json:"type" validate:"required,max=50"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required"`
	AllowMultiple bool      `json:"allow_multiple"`
	MaxVotes      *int      `json:"max_votes,omitempty"`
	IsAnonymous   bool      `json:"is_anonymous"`

	// Candidates may be supplied inline at creation; ballot order is the
	// slice index.
	Candidates []AddCandidateRequest `json:"candidates,omitempty" validate:"omitempty,dive"`
}

// UpdateElectionRequest carries the updatable fields of an election.
// Nil pointers leave the current value unchanged.
type UpdateElectionRequest struct {
	Title       *string                `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string                `json:"description,omitempty"`
	Type        *string                `json:"type,omitempty" validate:"omitempty,max=50"`
	StartDate   *time.Time             `json:"start_date,omitempty"`
	EndDate     *time.Time             `json:"end_date,omitempty"`
	IsAnonymous *bool                  `json:"is_anonymous,omitempty"`
	Status      *models.ElectionStatus `json:"status,omitempty"`
}

// AddCandidateRequest carries the fields for adding a candidate
type AddCandidateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url,max=500"`
	Position    string `json:"position" validate:"omitempty,max=100"`
}

// UpdateCandidateRequest carries the updatable fields of a candidate
type UpdateCandidateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty" validate:"omitempty,url,max=500"`
	Position    *string `json:"position,omitempty" validate:"omitempty,max=100"`
}

// CastVoteRequest carries a voter's full ballot for one election
type CastVoteRequest struct {
	CandidateIDs []uuid.UUID `json:"candidate_ids" validate:"required,min=1"`
}

// CandidateResult is one candidate's tally in the election results
type CandidateResult struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	Position    string    `json:"position,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	VoteCount   int64     `json:"vote_count"`
	Percentage  float64   `json:"percentage"`
}

// VoterSummary identifies one voter who participated. Only present in
// results of non-anonymous elections.
type VoterSummary struct {
	VoterID   uuid.UUID `json:"voter_id"`
	VoterName string    `json:"voter_name"`
}

// ElectionResults is the computed outcome of an election
type ElectionResults struct {
	ElectionID  uuid.UUID             `json:"election_id"`
	Title       string                `json:"title"`
	Status      models.ElectionStatus `json:"status"`
	IsAnonymous bool                  `json:"is_anonymous"`
	TotalVotes  int64                 `json:"total_votes"`
	Results     []CandidateResult     `json:"results"`
	Voters      []VoterSummary        `json:"voters,omitempty"`
}

// ElectionService manages elections, candidates, ballots and results
type ElectionService struct {
	elections repository.ElectionRepositoryInterface
	users     repository.UserRepositoryInterface
	validator *validator.Validate
	ballots   stripedMutex
	now       func() time.Time
}

// NewElectionService creates a new election service
func NewElectionService(elections repository.ElectionRepositoryInterface, users repository.UserRepositoryInterface) *ElectionService {
	return &ElectionService{
		elections: elections,
		users:     users,
		validator: validator.New(),
		now:       time.Now,
	}
}

// WithClock overrides the service clock for tests
func (s *ElectionService) WithClock(now func() time.Time) *ElectionService {
	s.now = now
	return s
}

// Create creates a new election in draft status
func (s *ElectionService) Create(orgID, createdByID uuid.UUID, createdByName string, req *CreateElectionRequest) (*models.Election, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, apperrors.NewValidationError("end_date", "must be after start_date")
	}

	maxVotes := req.MaxVotes
	if !req.AllowMultiple {
		maxVotes = nil
	} else if maxVotes != nil && *maxVotes < 2 {
		return nil, apperrors.NewValidationError("max_votes", "must be at least 2 when multiple votes are allowed")
	}

	election := &models.Election{
		OrganizationID: orgID,
		Title:          req.Title,
		Description:    req.Description,
		Type:           req.Type,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AllowMultiple:  req.AllowMultiple,
		MaxVotes:       maxVotes,
		IsAnonymous:    req.IsAnonymous,
		Status:         models.ElectionStatusDraft,
		CreatedByID:    createdByID,
		CreatedByName:  createdByName,
	}

	for i, cand := range req.Candidates {
		election.Candidates = append(election.Candidates, models.Candidate{
			Name:        cand.Name,
			Description: cand.Description,
			PhotoURL:    cand.PhotoURL,
			Position:    cand.Position,
			Order:       i,
		})
	}

	if err := s.elections.Create(election); err != nil {
		return nil, fmt.Errorf("creating election: %w", err)
	}
	return election, nil
}

// Get retrieves an election within the organization scope
func (s *ElectionService) Get(id, orgID uuid.UUID) (*models.Election, error) {
	election, err := s.elections.GetByID(id, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrElectionNotFound
		}
		return nil, fmt.Errorf("getting election: %w", err)
	}
	return election, nil
}

// List retrieves elections of an organization, optionally filtered by
// status and a title search query
func (s *ElectionService) List(orgID uuid.UUID, status models.ElectionStatus, query string, limit, offset int) ([]models.Election, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if status != "" && !status.Valid() {
		return nil, 0, apperrors.NewValidationError("status", "unknown election status")
	}

	elections, total, err := s.elections.List(orgID, status, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing elections: %w", err)
	}
	return elections, total, nil
}

// Update applies partial changes to an election, including status
// transitions between draft, active and closed
func (s *ElectionService) Update(id, orgID uuid.UUID, req *UpdateElectionRequest) (*models.Election, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	election, err := s.Get(id, orgID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		election.Title = *req.Title
	}
	if req.Description != nil {
		election.Description = *req.Description
	}
	if req.Type != nil {
		election.Type = *req.Type
	}
	if req.StartDate != nil {
		election.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		election.EndDate = *req.EndDate
	}
	if req.IsAnonymous != nil {
		election.IsAnonymous = *req.IsAnonymous
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.NewValidationError("status", "unknown election status")
		}
		election.Status = *req.Status
	}
	if !election.EndDate.After(election.StartDate) {
		return nil, apperrors.NewValidationError("end_date", "must be after start_date")
	}

	if err := s.elections.Update(election); err != nil {
		return nil, fmt.Errorf("updating election: %w", err)
	}
	return election, nil
}

// Delete removes an election together with its candidates and votes
func (s *ElectionService) Delete(id, orgID uuid.UUID) error {
	if _, err := s.Get(id, orgID); err != nil {
		return err
	}
	if err := s.elections.DeleteCascade(id); err != nil {
		return fmt.Errorf("deleting election: %w", err)
	}
	return nil
}

// AddCandidate appends a candidate to the election's ballot. Ballot order
// is assigned by the repository and never reused.
func (s *ElectionService) AddCandidate(electionID, orgID uuid.UUID, req *AddCandidateRequest) (*models.Candidate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	if _, err := s.Get(electionID, orgID); err != nil {
		return nil, err
	}

	candidate := &models.Candidate{
		ElectionID:  electionID,
		Name:        req.Name,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Position:    req.Position,
	}
	if err := s.elections.AddCandidate(electionID, candidate); err != nil {
		return nil, fmt.Errorf("adding candidate: %w", err)
	}
	return candidate, nil
}

// ListCandidates retrieves the election's ballot in order
func (s *ElectionService) ListCandidates(electionID, orgID uuid.UUID) ([]models.Candidate, error) {
	if _, err := s.Get(electionID, orgID); err != nil {
		return nil, err
	}
	candidates, err := s.elections.ListCandidates(electionID)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	return candidates, nil
}

// UpdateCandidate applies partial changes to a candidate
func (s *ElectionService) UpdateCandidate(electionID, candidateID, orgID uuid.UUID, req *UpdateCandidateRequest) (*models.Candidate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	if _, err := s.Get(electionID, orgID); err != nil {
		return nil, err
	}

	candidate, err := s.elections.GetCandidate(electionID, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("getting candidate: %w", err)
	}

	if req.Name != nil {
		candidate.Name = *req.Name
	}
	if req.Description != nil {
		candidate.Description = *req.Description
	}
	if req.PhotoURL != nil {
		candidate.PhotoURL = *req.PhotoURL
	}
	if req.Position != nil {
		candidate.Position = *req.Position
	}

	if err := s.elections.UpdateCandidate(candidate); err != nil {
		return nil, fmt.Errorf("updating candidate: %w", err)
	}
	return candidate, nil
}

// DeleteCandidate removes a candidate and any votes cast for it
func (s *ElectionService) DeleteCandidate(electionID, candidateID, orgID uuid.UUID) error {
	if _, err := s.Get(electionID, orgID); err != nil {
		return err
	}
	if _, err := s.elections.GetCandidate(electionID, candidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCandidateNotFound
		}
		return fmt.Errorf("getting candidate: %w", err)
	}
	if err := s.elections.DeleteCandidateCascade(candidateID); err != nil {
		return fmt.Errorf("deleting candidate: %w", err)
	}
	return nil
}

// Cast records a voter's complete ballot. The ballot is all-or-nothing: a
// voter votes exactly once per election, and the whole selection is
// inserted atomically. A per-voter lock plus the transactional recheck in
// the repository keep concurrent duplicate submissions down to one winner.
func (s *ElectionService) Cast(orgID, voterID uuid.UUID, voterName string, electionID uuid.UUID, req *CastVoteRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return apperrors.NewValidationError("", err.Error())
	}

	mu := s.ballots.lock(voterID.String() + ":" + electionID.String())
	defer mu.Unlock()

	election, err := s.Get(electionID, orgID)
	if err != nil {
		return err
	}

	if election.Status != models.ElectionStatusActive {
		return apperrors.ErrElectionNotOpen
	}
	if !election.WindowContains(s.now()) {
		return apperrors.ErrElectionNotOpen
	}

	prior, err := s.elections.FindVotes(voterID, electionID)
	if err != nil {
		return fmt.Errorf("checking prior votes: %w", err)
	}
	if len(prior) > 0 {
		return apperrors.ErrAlreadyVoted
	}

	candidates, err := s.elections.ListCandidates(electionID)
	if err != nil {
		return fmt.Errorf("listing candidates: %w", err)
	}
	valid := make(map[uuid.UUID]bool, len(candidates))
	for _, c := range candidates {
		valid[c.ID] = true
	}
	seen := make(map[uuid.UUID]bool, len(req.CandidateIDs))
	for _, id := range req.CandidateIDs {
		if !valid[id] || seen[id] {
			return apperrors.ErrInvalidCandidate
		}
		seen[id] = true
	}

	if !election.AllowMultiple && len(req.CandidateIDs) > 1 {
		return apperrors.ErrSingleChoiceOnly
	}
	if election.AllowMultiple && election.MaxVotes != nil && len(req.CandidateIDs) > *election.MaxVotes {
		return apperrors.ErrTooManyChoices
	}

	votes := make([]models.Vote, 0, len(req.CandidateIDs))
	for _, candidateID := range req.CandidateIDs {
		votes = append(votes, models.Vote{
			VoterID:     voterID,
			ElectionID:  electionID,
			CandidateID: candidateID,
			VoterName:   voterName,
		})
	}
	if err := s.elections.CreateVotes(votes); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyVoted) {
			return apperrors.ErrAlreadyVoted
		}
		return fmt.Errorf("recording ballot: %w", err)
	}
	return nil
}

// HasVoted reports whether the voter already cast a ballot in the election
func (s *ElectionService) HasVoted(orgID, voterID, electionID uuid.UUID) (bool, error) {
	if _, err := s.Get(electionID, orgID); err != nil {
		return false, err
	}
	votes, err := s.elections.FindVotes(voterID, electionID)
	if err != nil {
		return false, fmt.Errorf("checking votes: %w", err)
	}
	return len(votes) > 0, nil
}

// Results tallies the election. Candidates are ordered by vote count
// descending, ties broken by ballot order. Voter identities are withheld
// for anonymous elections.
func (s *ElectionService) Results(electionID, orgID uuid.UUID) (*ElectionResults, error) {
	election, err := s.Get(electionID, orgID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.elections.ListCandidates(electionID)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	votes, err := s.elections.ListVotes(electionID)
	if err != nil {
		return nil, fmt.Errorf("listing votes: %w", err)
	}

	counts := make(map[uuid.UUID]int64, len(candidates))
	for _, v := range votes {
		counts[v.CandidateID]++
	}
	total := int64(len(votes))

	results := make([]CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		count := counts[c.ID]
		percentage := 0.0
		if total > 0 {
			percentage = float64(count) / float64(total) * 100
		}
		results = append(results, CandidateResult{
			CandidateID: c.ID,
			Name:        c.Name,
			Position:    c.Position,
			PhotoURL:    c.PhotoURL,
			VoteCount:   count,
			Percentage:  percentage,
		})
	}
	// Candidates arrive in ballot order, which the stable sort preserves
	// among equal counts.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].VoteCount > results[j].VoteCount
	})

	out := &ElectionResults{
		ElectionID:  election.ID,
		Title:       election.Title,
		Status:      election.Status,
		IsAnonymous: election.IsAnonymous,
		TotalVotes:  total,
		Results:     results,
	}

	if !election.IsAnonymous {
		seen := make(map[uuid.UUID]bool)
		voters := make([]VoterSummary, 0)
		for _, v := range votes {
			if seen[v.VoterID] {
				continue
			}
			seen[v.VoterID] = true
			voters = append(voters, VoterSummary{VoterID: v.VoterID, VoterName: v.VoterName})
		}
		out.Voters = voters
	}

	return out, nil
}
