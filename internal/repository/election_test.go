//go:build integration
// +build integration

package repository

import (
	"errors"
	"sync"
	"testing"

	"community-portal-backend/internal/database/models"
	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// ElectionRepositoryTestSuite tests the ElectionRepository
type ElectionRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *ElectionRepository
	factories     *testutils.FactorySet
}

// SetupSuite runs before all tests in the suite
func (suite *ElectionRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewElectionRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

// TearDownSuite runs after all tests in the suite
func (suite *ElectionRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *ElectionRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *ElectionRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *ElectionRepositoryTestSuite) createElection(orgID uuid.UUID) *models.Election {
	election := suite.factories.Election.WithOrganization(orgID)
	suite.Require().NoError(suite.repo.Create(election))
	return election
}

// TestCreate tests creating a new election
func (suite *ElectionRepositoryTestSuite) TestCreate() {
	org, _, _ := suite.factories.CreateTenant(suite.baseTestSuite)

	election := suite.factories.Election.WithOrganization(org.ID)
	err := suite.repo.Create(election)

	suite.NoError(err)
	suite.NotEqual(uuid.Nil, election.ID)
	suite.NotZero(election.CreatedAt)
}

// TestGetByIDScoped tests that an election of another organization behaves
// exactly like a missing one
func (suite *ElectionRepositoryTestSuite) TestGetByIDScoped() {
	org, _, _ := suite.factories.CreateTenant(suite.baseTestSuite)
	otherOrg, _, _ := suite.factories.CreateTenant(suite.baseTestSuite)
	election := suite.createElection(org.ID)

	found, err := suite.repo.GetByID(election.ID, org.ID)
	suite.NoError(err)
	suite.Equal(election.ID, found.ID)

	crossTenant, err := suite.repo.GetByID(election.ID, otherOrg.ID)
	suite.Error(err)
	suite.Equal(gorm.ErrRecordNotFound, err)
	suite.Nil(crossTenant)

	missing, err := suite.repo.GetByID(uuid.New(), org.ID)
	suite.Error(err)
	suite.Equal(gorm.ErrRecordNotFound, err)
	suite.Nil(missing)
}

// TestListFilters tests filtering elections by status and text query
func (suite *ElectionRepositoryTestSuite) TestListFilters() {
	org, _, _ := suite.factories.CreateTenant(suite.baseTestSuite)

	active := suite.factories.Election.WithOrganization(org.ID)
	active.Title = "Committee 2026"
	suite.Require().NoError(suite.repo.Create(active))

	draft := suite.factories.Election.WithStatus(org.ID, models.ElectionStatusDraft)
	draft.Title = "Budget approval"
	suite.Require().NoError(suite.repo.Create(draft))

	elections, total, err := suite.repo.List(org.ID, models.ElectionStatusActive, "", 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(elections, 1)
	suite.Equal(active.ID, elections[0].ID)

	elections, total, err = suite.repo.List(org.ID, "", "budget", 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(draft.ID, elections[0].ID)

	elections, total, err = suite.repo.List(org.ID, "", "", 10, 0)
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(elections, 2)
}

// TestAddCandidateAssignsOrder tests monotonic ballot order assignment
func (suite *ElectionRepositoryTestSuite) TestAddCandidateAssignsOrder() {
	org, _, _ := suite.factories.CreateTenant(suite.baseTestSuite)
	election := suite.createElection(org.ID)

	first := &models.Candidate{Name: "First"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, first))
	second := &models.Candidate{Name: "Second"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, second))
	third := &models.Candidate{Name: "Third"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, third))

	suite.Equal(0, first.Order)
	suite.Equal(1, second.Order)
	suite.Equal(2, third.Order)

	// Deleting the middle candidate must not renumber the rest
	suite.Require().NoError(suite.repo.DeleteCandidateCascade(second.ID))
	fourth := &models.Candidate{Name: "Fourth"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, fourth))
	suite.Equal(3, fourth.Order)

	candidates, err := suite.repo.ListCandidates(election.ID)
	suite.NoError(err)
	suite.Len(candidates, 3)
	suite.Equal("First", candidates[0].Name)
	suite.Equal("Third", candidates[1].Name)
	suite.Equal("Fourth", candidates[2].Name)
}

// TestCreateVotesRejectsSecondBallot tests the transactional double-vote check
func (suite *ElectionRepositoryTestSuite) TestCreateVotesRejectsSecondBallot() {
	org, _, user := suite.factories.CreateTenant(suite.baseTestSuite)
	election := suite.createElection(org.ID)

	candidate := &models.Candidate{Name: "Only"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, candidate))

	ballot := []models.Vote{{
		VoterID:     user.ID,
		ElectionID:  election.ID,
		CandidateID: candidate.ID,
		VoterName:   user.FullName,
	}}
	suite.NoError(suite.repo.CreateVotes(ballot))

	again := []models.Vote{{
		VoterID:     user.ID,
		ElectionID:  election.ID,
		CandidateID: candidate.ID,
		VoterName:   user.FullName,
	}}
	err := suite.repo.CreateVotes(again)
	suite.Error(err)
	suite.True(errors.Is(err, apperrors.ErrAlreadyVoted))

	count, err := suite.repo.CountVotesByElection(election.ID)
	suite.NoError(err)
	suite.Equal(int64(1), count)
}

// TestCreateVotesConcurrent tests that concurrent ballots from the same
// voter produce exactly one stored ballot
func (suite *ElectionRepositoryTestSuite) TestCreateVotesConcurrent() {
	org, _, user := suite.factories.CreateTenant(suite.baseTestSuite)
	election := suite.createElection(org.ID)

	candidate := &models.Candidate{Name: "Contested"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, candidate))

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- suite.repo.CreateVotes([]models.Vote{{
				VoterID:     user.ID,
				ElectionID:  election.ID,
				CandidateID: candidate.ID,
				VoterName:   user.FullName,
			}})
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		if err == nil {
			succeeded++
		} else if errors.Is(err, apperrors.ErrAlreadyVoted) {
			rejected++
		} else {
			suite.FailNowf("unexpected error", "%v", err)
		}
	}
	suite.Equal(1, succeeded)
	suite.Equal(attempts-1, rejected)

	count, err := suite.repo.CountVotesByElection(election.ID)
	suite.NoError(err)
	suite.Equal(int64(1), count)
}

// TestCreateVotesMultiChoiceBallot tests that one multi-selection ballot
// lands atomically
func (suite *ElectionRepositoryTestSuite) TestCreateVotesMultiChoiceBallot() {
	org, _, user := suite.factories.CreateTenant(suite.baseTestSuite)
	election := suite.factories.Election.MultiChoice(org.ID, 2)
	suite.Require().NoError(suite.repo.Create(election))

	a := &models.Candidate{Name: "A"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, a))
	b := &models.Candidate{Name: "B"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, b))

	ballot := []models.Vote{
		{VoterID: user.ID, ElectionID: election.ID, CandidateID: a.ID, VoterName: user.FullName},
		{VoterID: user.ID, ElectionID: election.ID, CandidateID: b.ID, VoterName: user.FullName},
	}
	suite.NoError(suite.repo.CreateVotes(ballot))

	votes, err := suite.repo.FindVotes(user.ID, election.ID)
	suite.NoError(err)
	suite.Len(votes, 2)

	aCount, err := suite.repo.CountVotesByCandidate(a.ID)
	suite.NoError(err)
	suite.Equal(int64(1), aCount)
}

// TestDeleteCascade tests that deleting an election removes its candidates
// and votes
func (suite *ElectionRepositoryTestSuite) TestDeleteCascade() {
	org, _, user := suite.factories.CreateTenant(suite.baseTestSuite)
	election := suite.createElection(org.ID)

	candidate := &models.Candidate{Name: "Gone"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, candidate))
	suite.Require().NoError(suite.repo.CreateVotes([]models.Vote{{
		VoterID:     user.ID,
		ElectionID:  election.ID,
		CandidateID: candidate.ID,
	}}))

	suite.NoError(suite.repo.DeleteCascade(election.ID))

	_, err := suite.repo.GetByID(election.ID, org.ID)
	suite.Equal(gorm.ErrRecordNotFound, err)

	candidates, err := suite.repo.ListCandidates(election.ID)
	suite.NoError(err)
	suite.Empty(candidates)

	count, err := suite.repo.CountVotesByElection(election.ID)
	suite.NoError(err)
	suite.Zero(count)
}

// TestDeleteCandidateCascade tests that deleting a candidate removes its votes
func (suite *ElectionRepositoryTestSuite) TestDeleteCandidateCascade() {
	org, _, user := suite.factories.CreateTenant(suite.baseTestSuite)
	election := suite.createElection(org.ID)

	candidate := &models.Candidate{Name: "Withdrawn"}
	suite.Require().NoError(suite.repo.AddCandidate(election.ID, candidate))
	suite.Require().NoError(suite.repo.CreateVotes([]models.Vote{{
		VoterID:     user.ID,
		ElectionID:  election.ID,
		CandidateID: candidate.ID,
	}}))

	suite.NoError(suite.repo.DeleteCandidateCascade(candidate.ID))

	count, err := suite.repo.CountVotesByCandidate(candidate.ID)
	suite.NoError(err)
	suite.Zero(count)

	_, err = suite.repo.GetCandidate(election.ID, candidate.ID)
	suite.Equal(gorm.ErrRecordNotFound, err)
}

// Run the test suite
func TestElectionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ElectionRepositoryTestSuite))
}
