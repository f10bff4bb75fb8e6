package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"community-portal-backend/internal/authz"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/mocks"
	"community-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// ElectionHandlerTestSuite exercises the election endpoints end to end
// through gin, with the repository mocked out underneath a real service.
type ElectionHandlerTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	elections *mocks.MockElectionRepositoryInterface
	users     *mocks.MockUserRepositoryInterface
	router    *gin.Engine

	orgID   uuid.UUID
	voterID uuid.UUID
}

func (s *ElectionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ctrl = gomock.NewController(s.T())
	s.elections = mocks.NewMockElectionRepositoryInterface(s.ctrl)
	s.users = mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.orgID = uuid.New()
	s.voterID = uuid.New()

	handler := NewElectionHandler(service.NewElectionService(s.elections, s.users))

	s.router = gin.New()
	s.router.Use(s.withDecision())
	s.router.POST("/elections", handler.Create)
	s.router.GET("/elections/:id", handler.Get)
	s.router.POST("/elections/:id/votes", handler.Vote)
	s.router.GET("/elections/:id/votes/me", handler.MyVoteStatus)
	s.router.GET("/elections/:id/results", handler.Results)
}

func (s *ElectionHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// withDecision stands in for the auth and scope middleware chain
func (s *ElectionHandlerTestSuite) withDecision() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(authz.DecisionContextKey, &authz.Decision{
			UserID:         s.voterID,
			UserName:       "Dana Levi",
			OrganizationID: s.orgID,
			Role: &models.Role{
				Permissions: models.PermissionSet{"elections:read", "elections:write", "elections:vote", "elections:results"},
			},
		})
		c.Next()
	}
}

func (s *ElectionHandlerTestSuite) activeElection(id uuid.UUID) *models.Election {
	now := time.Now()
	return &models.Election{
		BaseModel:      models.BaseModel{ID: id},
		OrganizationID: s.orgID,
		Title:          "Committee Election",
		Type:           "committee",
		StartDate:      now.Add(-time.Hour),
		EndDate:        now.Add(time.Hour),
		Status:         models.ElectionStatusActive,
	}
}

func (s *ElectionHandlerTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ElectionHandlerTestSuite) TestVoteReturnsNoContent() {
	electionID := uuid.New()
	candidateID := uuid.New()

	s.elections.EXPECT().GetByID(electionID, s.orgID).Return(s.activeElection(electionID), nil)
	s.elections.EXPECT().FindVotes(s.voterID, electionID).Return(nil, nil)
	s.elections.EXPECT().ListCandidates(electionID).Return([]models.Candidate{
		{BaseModel: models.BaseModel{ID: candidateID}, Name: "Only", Order: 0},
	}, nil)
	s.elections.EXPECT().CreateVotes(gomock.Len(1)).Return(nil)

	w := s.do(http.MethodPost, "/elections/"+electionID.String()+"/votes",
		service.CastVoteRequest{CandidateIDs: []uuid.UUID{candidateID}})

	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ElectionHandlerTestSuite) TestVoteTwiceReturnsConflict() {
	electionID := uuid.New()
	candidateID := uuid.New()

	s.elections.EXPECT().GetByID(electionID, s.orgID).Return(s.activeElection(electionID), nil)
	s.elections.EXPECT().FindVotes(s.voterID, electionID).Return([]models.Vote{
		{VoterID: s.voterID, ElectionID: electionID, CandidateID: candidateID},
	}, nil)

	w := s.do(http.MethodPost, "/elections/"+electionID.String()+"/votes",
		service.CastVoteRequest{CandidateIDs: []uuid.UUID{candidateID}})

	s.Equal(http.StatusConflict, w.Code)
}

func (s *ElectionHandlerTestSuite) TestVoteOnDraftReturnsBadRequest() {
	electionID := uuid.New()
	election := s.activeElection(electionID)
	election.Status = models.ElectionStatusDraft

	s.elections.EXPECT().GetByID(electionID, s.orgID).Return(election, nil)

	w := s.do(http.MethodPost, "/elections/"+electionID.String()+"/votes",
		service.CastVoteRequest{CandidateIDs: []uuid.UUID{uuid.New()}})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ElectionHandlerTestSuite) TestGetMissingReturnsNotFound() {
	electionID := uuid.New()

	s.elections.EXPECT().GetByID(electionID, s.orgID).Return(nil, gorm.ErrRecordNotFound)

	w := s.do(http.MethodGet, "/elections/"+electionID.String(), nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ElectionHandlerTestSuite) TestGetInvalidIDReturnsBadRequest() {
	w := s.do(http.MethodGet, "/elections/not-a-uuid", nil)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ElectionHandlerTestSuite) TestCreateReturnsCreated() {
	s.elections.EXPECT().Create(gomock.Any()).DoAndReturn(func(e *models.Election) error {
		s.Equal(s.orgID, e.OrganizationID)
		s.Equal(models.ElectionStatusDraft, e.Status)
		s.Equal("Dana Levi", e.CreatedByName)
		s.Len(e.Candidates, 2)
		s.Equal(0, e.Candidates[0].Order)
		s.Equal(1, e.Candidates[1].Order)
		return nil
	})

	w := s.do(http.MethodPost, "/elections", service.CreateElectionRequest{
		Title:     "Committee Election",
		Type:      "committee",
		StartDate: time.Now().Add(time.Hour),
		EndDate:   time.Now().Add(48 * time.Hour),
		Candidates: []service.AddCandidateRequest{
			{Name: "First"},
			{Name: "Second"},
		},
	})

	s.Equal(http.StatusCreated, w.Code)
}

func (s *ElectionHandlerTestSuite) TestMyVoteStatus() {
	electionID := uuid.New()

	s.elections.EXPECT().GetByID(electionID, s.orgID).Return(s.activeElection(electionID), nil)
	s.elections.EXPECT().FindVotes(s.voterID, electionID).Return([]models.Vote{
		{VoterID: s.voterID, ElectionID: electionID},
	}, nil)

	w := s.do(http.MethodGet, "/elections/"+electionID.String()+"/votes/me", nil)

	s.Equal(http.StatusOK, w.Code)
	var body map[string]bool
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.True(body["has_voted"])
}

func (s *ElectionHandlerTestSuite) TestResultsPayload() {
	electionID := uuid.New()
	winner := uuid.New()
	runnerUp := uuid.New()
	voterA := uuid.New()
	voterB := uuid.New()

	s.elections.EXPECT().GetByID(electionID, s.orgID).Return(s.activeElection(electionID), nil)
	s.elections.EXPECT().ListCandidates(electionID).Return([]models.Candidate{
		{BaseModel: models.BaseModel{ID: runnerUp}, Name: "Runner Up", Order: 0},
		{BaseModel: models.BaseModel{ID: winner}, Name: "Winner", Order: 1},
	}, nil)
	s.elections.EXPECT().ListVotes(electionID).Return([]models.Vote{
		{VoterID: voterA, ElectionID: electionID, CandidateID: winner, VoterName: "A"},
		{VoterID: voterB, ElectionID: electionID, CandidateID: winner, VoterName: "B"},
		{VoterID: uuid.New(), ElectionID: electionID, CandidateID: runnerUp, VoterName: "C"},
	}, nil)

	w := s.do(http.MethodGet, "/elections/"+electionID.String()+"/results", nil)

	s.Equal(http.StatusOK, w.Code)
	var results service.ElectionResults
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &results))
	s.Equal(int64(3), results.TotalVotes)
	s.Require().Len(results.Results, 2)
	s.Equal("Winner", results.Results[0].Name)
	s.InDelta(66.6, results.Results[0].Percentage, 0.1)
	s.Len(results.Voters, 3)
}

func TestElectionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ElectionHandlerTestSuite))
}
