package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type ElectionServiceTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	elections *mocks.MockElectionRepositoryInterface
	users     *mocks.MockUserRepositoryInterface
	service   *ElectionService
	now       time.Time

	orgID   uuid.UUID
	voterID uuid.UUID
}

func (s *ElectionServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.elections = mocks.NewMockElectionRepositoryInterface(s.ctrl)
	s.users = mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.service = NewElectionService(s.elections, s.users).WithClock(func() time.Time { return s.now })
	s.orgID = uuid.New()
	s.voterID = uuid.New()
}

func (s *ElectionServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ElectionServiceTestSuite) activeElection() *models.Election {
	return &models.Election{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		OrganizationID: s.orgID,
		Title:          "Board Election",
		Type:           "board",
		StartDate:      s.now.Add(-time.Hour),
		EndDate:        s.now.Add(time.Hour),
		Status:         models.ElectionStatusActive,
	}
}

func (s *ElectionServiceTestSuite) candidates(election *models.Election, n int) []models.Candidate {
	out := make([]models.Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Candidate{
			BaseModel:  models.BaseModel{ID: uuid.New()},
			ElectionID: election.ID,
			Name:       "Candidate",
			Order:      i,
		})
	}
	return out
}

func (s *ElectionServiceTestSuite) TestCastSingleChoice() {
	election := s.activeElection()
	candidates := s.candidates(election, 2)

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().FindVotes(s.voterID, election.ID).Return(nil, nil)
	s.elections.EXPECT().ListCandidates(election.ID).Return(candidates, nil)
	s.elections.EXPECT().CreateVotes(gomock.Len(1)).Return(nil)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", election.ID, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{candidates[0].ID},
	})
	s.NoError(err)
}

func (s *ElectionServiceTestSuite) TestCastMultipleWithinLimit() {
	election := s.activeElection()
	election.AllowMultiple = true
	maxVotes := 3
	election.MaxVotes = &maxVotes
	candidates := s.candidates(election, 4)

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().FindVotes(s.voterID, election.ID).Return(nil, nil)
	s.elections.EXPECT().ListCandidates(election.ID).Return(candidates, nil)
	s.elections.EXPECT().CreateVotes(gomock.Len(2)).Return(nil)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", election.ID, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{candidates[0].ID, candidates[2].ID},
	})
	s.NoError(err)
}

func (s *ElectionServiceTestSuite) TestCastNotFoundInScope() {
	id := uuid.New()
	s.elections.EXPECT().GetByID(id, s.orgID).Return(nil, gorm.ErrRecordNotFound)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", id, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{uuid.New()},
	})
	s.ErrorIs(err, apperrors.ErrElectionNotFound)
}

func (s *ElectionServiceTestSuite) TestCastDraftElection() {
	election := s.activeElection()
	election.Status = models.ElectionStatusDraft

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", election.ID, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{uuid.New()},
	})
	s.ErrorIs(err, apperrors.ErrElectionNotOpen)
}

func (s *ElectionServiceTestSuite) TestCastOutsideWindow() {
	// Status says active but the window already closed. The clock wins.
	election := s.activeElection()
	election.EndDate = s.now.Add(-time.Minute)

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", election.ID, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{uuid.New()},
	})
	s.ErrorIs(err, apperrors.ErrElectionNotOpen)
}

func (s *ElectionServiceTestSuite) TestCastTwiceRejected() {
	election := s.activeElection()

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().FindVotes(s.voterID, election.ID).Return([]models.Vote{{}}, nil)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", election.ID, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{uuid.New()},
	})
	s.ErrorIs(err, apperrors.ErrAlreadyVoted)
}

func (s *ElectionServiceTestSuite) TestCastUnknownCandidate() {
	election := s.activeElection()
	candidates := s.candidates(election, 2)

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().FindVotes(s.voterID, election.ID).Return(nil, nil)
	s.elections.EXPECT().ListCandidates(election.ID).Return(candidates, nil)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", election.ID, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{uuid.New()},
	})
	s.ErrorIs(err, apperrors.ErrInvalidCandidate)
}

func (s *ElectionServiceTestSuite) TestCastDuplicateCandidate() {
	election := s.activeElection()
	election.AllowMultiple = true
	candidates := s.candidates(election, 2)

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().FindVotes(s.voterID, election.ID).Return(nil, nil)
	s.elections.EXPECT().ListCandidates(election.ID).Return(candidates, nil)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", election.ID, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{candidates[0].ID, candidates[0].ID},
	})
	s.ErrorIs(err, apperrors.ErrInvalidCandidate)
}

func (s *ElectionServiceTestSuite) TestCastSingleChoiceOnly() {
	election := s.activeElection()
	candidates := s.candidates(election, 2)

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().FindVotes(s.voterID, election.ID).Return(nil, nil)
	s.elections.EXPECT().ListCandidates(election.ID).Return(candidates, nil)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", election.ID, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{candidates[0].ID, candidates[1].ID},
	})
	s.ErrorIs(err, apperrors.ErrSingleChoiceOnly)
}

func (s *ElectionServiceTestSuite) TestCastTooManyChoices() {
	election := s.activeElection()
	election.AllowMultiple = true
	maxVotes := 2
	election.MaxVotes = &maxVotes
	candidates := s.candidates(election, 4)

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().FindVotes(s.voterID, election.ID).Return(nil, nil)
	s.elections.EXPECT().ListCandidates(election.ID).Return(candidates, nil)

	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", election.ID, &CastVoteRequest{
		CandidateIDs: []uuid.UUID{candidates[0].ID, candidates[1].ID, candidates[2].ID},
	})
	s.ErrorIs(err, apperrors.ErrTooManyChoices)
}

func (s *ElectionServiceTestSuite) TestCastEmptyBallot() {
	err := s.service.Cast(s.orgID, s.voterID, "Dana Levi", uuid.New(), &CastVoteRequest{})
	s.True(apperrors.IsValidation(err))
}

func (s *ElectionServiceTestSuite) TestResultsPercentagesAndOrder() {
	election := s.activeElection()
	election.Status = models.ElectionStatusClosed
	candidates := s.candidates(election, 2)

	votes := make([]models.Vote, 0, 10)
	for i := 0; i < 7; i++ {
		votes = append(votes, models.Vote{VoterID: uuid.New(), ElectionID: election.ID, CandidateID: candidates[1].ID})
	}
	for i := 0; i < 3; i++ {
		votes = append(votes, models.Vote{VoterID: uuid.New(), ElectionID: election.ID, CandidateID: candidates[0].ID})
	}

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().ListCandidates(election.ID).Return(candidates, nil)
	s.elections.EXPECT().ListVotes(election.ID).Return(votes, nil)

	results, err := s.service.Results(election.ID, s.orgID)
	s.Require().NoError(err)

	s.Equal(int64(10), results.TotalVotes)
	s.Require().Len(results.Results, 2)
	s.Equal(candidates[1].ID, results.Results[0].CandidateID)
	s.InDelta(70.0, results.Results[0].Percentage, 0.001)
	s.Equal(candidates[0].ID, results.Results[1].CandidateID)
	s.InDelta(30.0, results.Results[1].Percentage, 0.001)
	s.Len(results.Voters, 10)
}

func (s *ElectionServiceTestSuite) TestResultsNoVotes() {
	election := s.activeElection()
	candidates := s.candidates(election, 3)

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().ListCandidates(election.ID).Return(candidates, nil)
	s.elections.EXPECT().ListVotes(election.ID).Return(nil, nil)

	results, err := s.service.Results(election.ID, s.orgID)
	s.Require().NoError(err)

	s.Equal(int64(0), results.TotalVotes)
	for i, r := range results.Results {
		// Ballot order is preserved when every count is zero
		s.Equal(candidates[i].ID, r.CandidateID)
		s.Zero(r.Percentage)
	}
}

func (s *ElectionServiceTestSuite) TestResultsAnonymousHidesVoters() {
	election := s.activeElection()
	election.IsAnonymous = true
	candidates := s.candidates(election, 1)
	votes := []models.Vote{{VoterID: s.voterID, ElectionID: election.ID, CandidateID: candidates[0].ID, VoterName: "Dana Levi"}}

	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().ListCandidates(election.ID).Return(candidates, nil)
	s.elections.EXPECT().ListVotes(election.ID).Return(votes, nil)

	results, err := s.service.Results(election.ID, s.orgID)
	s.Require().NoError(err)

	s.True(results.IsAnonymous)
	s.Empty(results.Voters)
	s.Equal(int64(1), results.TotalVotes)
}

func (s *ElectionServiceTestSuite) TestCreateRejectsInvertedWindow() {
	_, err := s.service.Create(s.orgID, uuid.New(), "Admin", &CreateElectionRequest{
		Title:     "Budget",
		Type:      "general",
		StartDate: s.now,
		EndDate:   s.now.Add(-time.Hour),
	})
	s.True(apperrors.IsValidation(err))
}

func (s *ElectionServiceTestSuite) TestCreateDropsMaxVotesWithoutAllowMultiple() {
	maxVotes := 5
	s.elections.EXPECT().Create(gomock.Any()).DoAndReturn(func(e *models.Election) error {
		s.Nil(e.MaxVotes)
		s.Equal(models.ElectionStatusDraft, e.Status)
		return nil
	})

	_, err := s.service.Create(s.orgID, uuid.New(), "Admin", &CreateElectionRequest{
		Title:     "Budget",
		Type:      "general",
		StartDate: s.now,
		EndDate:   s.now.Add(time.Hour),
		MaxVotes:  &maxVotes,
	})
	s.NoError(err)
}

func (s *ElectionServiceTestSuite) TestDeleteCascades() {
	election := s.activeElection()
	s.elections.EXPECT().GetByID(election.ID, s.orgID).Return(election, nil)
	s.elections.EXPECT().DeleteCascade(election.ID).Return(nil)

	s.NoError(s.service.Delete(election.ID, s.orgID))
}

func TestElectionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ElectionServiceTestSuite))
}

// fakeBallotBox is a minimal stateful double for exercising concurrent
// ballot submission through the service lock.
type fakeBallotBox struct {
	mocks.MockElectionRepositoryInterface

	mu       sync.Mutex
	election *models.Election
	ballot   []models.Candidate
	votes    []models.Vote
}

func (f *fakeBallotBox) GetByID(id, orgID uuid.UUID) (*models.Election, error) {
	if f.election.ID != id || f.election.OrganizationID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.election, nil
}

func (f *fakeBallotBox) ListCandidates(electionID uuid.UUID) ([]models.Candidate, error) {
	return f.ballot, nil
}

func (f *fakeBallotBox) FindVotes(voterID, electionID uuid.UUID) ([]models.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Vote
	for _, v := range f.votes {
		if v.VoterID == voterID && v.ElectionID == electionID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeBallotBox) CreateVotes(votes []models.Vote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range votes {
		for _, existing := range f.votes {
			if existing.VoterID == v.VoterID && existing.ElectionID == v.ElectionID {
				return apperrors.ErrAlreadyVoted
			}
		}
	}
	f.votes = append(f.votes, votes...)
	return nil
}

func TestConcurrentCastSingleWinner(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	orgID := uuid.New()
	voterID := uuid.New()

	election := &models.Election{
		BaseModel:      models.BaseModel{ID: uuid.New()},
		OrganizationID: orgID,
		Title:          "Board Election",
		StartDate:      now.Add(-time.Hour),
		EndDate:        now.Add(time.Hour),
		Status:         models.ElectionStatusActive,
	}
	candidate := models.Candidate{BaseModel: models.BaseModel{ID: uuid.New()}, ElectionID: election.ID}
	box := &fakeBallotBox{election: election, ballot: []models.Candidate{candidate}}

	service := NewElectionService(box, nil).WithClock(func() time.Time { return now })

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- service.Cast(orgID, voterID, "Dana Levi", election.ID, &CastVoteRequest{
				CandidateIDs: []uuid.UUID{candidate.ID},
			})
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrAlreadyVoted):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful ballot, got %d", succeeded)
	}
	if rejected != attempts-1 {
		t.Fatalf("expected %d rejections, got %d", attempts-1, rejected)
	}
	if len(box.votes) != 1 {
		t.Fatalf("expected one stored vote, got %d", len(box.votes))
	}
}
