package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

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

// OrganizationHandlerTestSuite exercises the organization endpoints through
// gin with mocked repositories, including the tenant guard on path IDs.
type OrganizationHandlerTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	organizations *mocks.MockOrganizationRepositoryInterface
	roles         *mocks.MockRoleRepositoryInterface
	users         *mocks.MockUserRepositoryInterface
	router        *gin.Engine

	callerOrgID uuid.UUID
	superAdmin  bool
}

func (s *OrganizationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ctrl = gomock.NewController(s.T())
	s.organizations = mocks.NewMockOrganizationRepositoryInterface(s.ctrl)
	s.roles = mocks.NewMockRoleRepositoryInterface(s.ctrl)
	s.users = mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.callerOrgID = uuid.New()
	s.superAdmin = false

	handler := NewOrganizationHandler(service.NewOrganizationService(s.organizations, s.roles, s.users))

	s.router = gin.New()
	s.router.POST("/organizations", handler.Create)

	scoped := s.router.Group("", s.withDecision())
	scoped.GET("/organizations", handler.List)
	scoped.GET("/organizations/:id", handler.Get)
	scoped.PATCH("/organizations/:id", handler.Update)
	scoped.DELETE("/organizations/:id", handler.Delete)
}

func (s *OrganizationHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrganizationHandlerTestSuite) withDecision() gin.HandlerFunc {
	return func(c *gin.Context) {
		permissions := models.PermissionSet{"organizations:read", "organizations:write"}
		if s.superAdmin {
			permissions = models.PermissionSet{models.Wildcard}
		}
		c.Set(authz.DecisionContextKey, &authz.Decision{
			UserID:         uuid.New(),
			UserName:       "Noa Barak",
			OrganizationID: s.callerOrgID,
			Role:           &models.Role{Permissions: permissions},
			IsSuperAdmin:   s.superAdmin,
		})
		c.Next()
	}
}

func (s *OrganizationHandlerTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
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

func validCreateRequest() service.CreateOrganizationRequest {
	return service.CreateOrganizationRequest{
		Name:             "Neve Shaanan Residents",
		Type:             "Residential",
		AdminFullName:    "Noa Barak",
		AdminPhoneNumber: "+972501234001",
		AdminPassword:    "a-strong-password",
	}
}

func (s *OrganizationHandlerTestSuite) TestCreateBootstrapsTenant() {
	s.organizations.EXPECT().GetByName("Neve Shaanan Residents").Return(nil, gorm.ErrRecordNotFound)
	s.users.EXPECT().GetByPhoneNumber("+972501234001").Return(nil, gorm.ErrRecordNotFound)
	s.organizations.EXPECT().Create(gomock.Any()).Return(nil)

	var created []*models.Role
	s.roles.EXPECT().Create(gomock.Any()).Times(3).DoAndReturn(func(r *models.Role) error {
		created = append(created, r)
		return nil
	})
	s.users.EXPECT().Create(gomock.Any()).DoAndReturn(func(u *models.User) error {
		s.Equal("Noa Barak", u.FullName)
		s.NotEqual("a-strong-password", u.PasswordHash)
		return nil
	})

	w := s.do(http.MethodPost, "/organizations", validCreateRequest())

	s.Equal(http.StatusCreated, w.Code)
	s.Require().Len(created, 3)
	s.Equal(service.RoleNameAdmin, created[0].Name)
	s.Equal(service.RoleNameMember, created[2].Name)
	s.True(created[2].IsDefault)
	for _, r := range created {
		s.False(r.Permissions.HasWildcard())
	}
}

func (s *OrganizationHandlerTestSuite) TestCreateDuplicateNameReturnsConflict() {
	s.organizations.EXPECT().GetByName("Neve Shaanan Residents").Return(&models.Organization{}, nil)

	w := s.do(http.MethodPost, "/organizations", validCreateRequest())

	s.Equal(http.StatusConflict, w.Code)
}

func (s *OrganizationHandlerTestSuite) TestCreateReservedTypeReturnsBadRequest() {
	req := validCreateRequest()
	req.Type = models.OrganizationTypeSystem

	w := s.do(http.MethodPost, "/organizations", req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *OrganizationHandlerTestSuite) TestGetOwnOrganization() {
	s.organizations.EXPECT().GetByID(s.callerOrgID).Return(&models.Organization{
		BaseModel: models.BaseModel{ID: s.callerOrgID},
		Name:      "Neve Shaanan Residents",
	}, nil)

	w := s.do(http.MethodGet, "/organizations/"+s.callerOrgID.String(), nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *OrganizationHandlerTestSuite) TestGetForeignOrganizationReturnsNotFound() {
	// No repository call expected: the guard refuses before the service runs
	w := s.do(http.MethodGet, "/organizations/"+uuid.New().String(), nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *OrganizationHandlerTestSuite) TestSuperAdminCrossesTenants() {
	s.superAdmin = true
	foreignID := uuid.New()

	s.organizations.EXPECT().GetByID(foreignID).Return(&models.Organization{
		BaseModel: models.BaseModel{ID: foreignID},
	}, nil)

	w := s.do(http.MethodGet, "/organizations/"+foreignID.String(), nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *OrganizationHandlerTestSuite) TestListShowsOnlyOwnOrganization() {
	s.organizations.EXPECT().GetByID(s.callerOrgID).Return(&models.Organization{
		BaseModel: models.BaseModel{ID: s.callerOrgID},
	}, nil)

	w := s.do(http.MethodGet, "/organizations", nil)

	s.Equal(http.StatusOK, w.Code)
	var body ListResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(int64(1), body.Total)
}

func (s *OrganizationHandlerTestSuite) TestSuperAdminListHidesSystemOrganization() {
	s.superAdmin = true

	s.organizations.EXPECT().GetAll(20, 0).Return([]models.Organization{
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "System", Type: models.OrganizationTypeSystem},
		{BaseModel: models.BaseModel{ID: uuid.New()}, Name: "Givat Alonim", Type: "Residential"},
	}, int64(2), nil)

	w := s.do(http.MethodGet, "/organizations", nil)

	s.Equal(http.StatusOK, w.Code)
	var body ListResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(int64(1), body.Total)
}

func (s *OrganizationHandlerTestSuite) TestDeleteForeignOrganizationReturnsNotFound() {
	w := s.do(http.MethodDelete, "/organizations/"+uuid.New().String(), nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func TestOrganizationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationHandlerTestSuite))
}
