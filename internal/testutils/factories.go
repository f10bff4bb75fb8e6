package testutils

import (
	"time"

	"community-portal-backend/internal/database/models"

	"github.com/google/uuid"
)

// OrganizationFactory provides methods to create test Organization data
type OrganizationFactory struct{}

// NewOrganizationFactory creates a new OrganizationFactory
func NewOrganizationFactory() *OrganizationFactory {
	return &OrganizationFactory{}
}

// Create creates a test Organization with default values
func (f *OrganizationFactory) Create() *models.Organization {
	id := uuid.New()
	return &models.Organization{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "Community " + id.String()[:8],
		Type:        "Residential",
		Description: "A test community",
		ThemeColor:  "#1d4ed8",
		Place:       "Haifa",
	}
}

// WithName sets a custom name for the organization
func (f *OrganizationFactory) WithName(name string) *models.Organization {
	org := f.Create()
	org.Name = name
	return org
}

// System creates the sentinel system organization
func (f *OrganizationFactory) System() *models.Organization {
	org := f.Create()
	org.Name = "System"
	org.Type = models.OrganizationTypeSystem
	return org
}

// RoleFactory provides methods to create test Role data
type RoleFactory struct{}

// NewRoleFactory creates a new RoleFactory
func NewRoleFactory() *RoleFactory {
	return &RoleFactory{}
}

// Create creates a test Role with default values
func (f *RoleFactory) Create() *models.Role {
	id := uuid.New()
	return &models.Role{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: uuid.New(),
		Name:           "Role " + id.String()[:8],
		Description:    "A test role",
		Permissions:    models.PermissionSet{"elections:read", "events:read", "announcements:read"},
		IsDefault:      false,
	}
}

// WithOrganization sets the organization ID for the role
func (f *RoleFactory) WithOrganization(orgID uuid.UUID) *models.Role {
	role := f.Create()
	role.OrganizationID = orgID
	return role
}

// WithPermissions sets a custom permission set for the role
func (f *RoleFactory) WithPermissions(orgID uuid.UUID, perms ...string) *models.Role {
	role := f.WithOrganization(orgID)
	role.Permissions = models.PermissionSet(perms)
	return role
}

// Default creates the default role of an organization
func (f *RoleFactory) Default(orgID uuid.UUID) *models.Role {
	role := f.WithOrganization(orgID)
	role.IsDefault = true
	return role
}

// SuperAdmin creates a wildcard role for the given organization
func (f *RoleFactory) SuperAdmin(orgID uuid.UUID) *models.Role {
	role := f.WithOrganization(orgID)
	role.Name = "Super Admin"
	role.Permissions = models.PermissionSet{models.Wildcard}
	return role
}

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with default values. Phone numbers derive from
// the UUID so concurrent fixtures never collide on the unique index.
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OrganizationID: uuid.New(),
		RoleID:         uuid.New(),
		FullName:       "Dana Levi",
		PhoneNumber:    "+97250" + id.String()[:7],
		PasswordHash:   "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
}

// WithOrganization sets the organization and role for the user
func (f *UserFactory) WithOrganization(orgID, roleID uuid.UUID) *models.User {
	user := f.Create()
	user.OrganizationID = orgID
	user.RoleID = roleID
	return user
}

// WithName sets a custom full name for the user
func (f *UserFactory) WithName(orgID, roleID uuid.UUID, name string) *models.User {
	user := f.WithOrganization(orgID, roleID)
	user.FullName = name
	return user
}

// ElectionFactory provides methods to create test Election data
type ElectionFactory struct{}

// NewElectionFactory creates a new ElectionFactory
func NewElectionFactory() *ElectionFactory {
	return &ElectionFactory{}
}

// Create creates an active test Election whose window spans now
func (f *ElectionFactory) Create() *models.Election {
	now := time.Now()
	return &models.Election{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrganizationID: uuid.New(),
		Title:          "Committee Election",
		Description:    "Annual committee election",
		Type:           "committee",
		StartDate:      now.Add(-time.Hour),
		EndDate:        now.Add(time.Hour),
		AllowMultiple:  false,
		IsAnonymous:    false,
		Status:         models.ElectionStatusActive,
	}
}

// WithOrganization sets the organization ID for the election
func (f *ElectionFactory) WithOrganization(orgID uuid.UUID) *models.Election {
	election := f.Create()
	election.OrganizationID = orgID
	return election
}

// WithStatus sets a custom status for the election
func (f *ElectionFactory) WithStatus(orgID uuid.UUID, status models.ElectionStatus) *models.Election {
	election := f.WithOrganization(orgID)
	election.Status = status
	return election
}

// MultiChoice configures the election to accept up to maxVotes selections
func (f *ElectionFactory) MultiChoice(orgID uuid.UUID, maxVotes int) *models.Election {
	election := f.WithOrganization(orgID)
	election.AllowMultiple = true
	election.MaxVotes = &maxVotes
	return election
}

// CandidateFactory provides methods to create test Candidate data
type CandidateFactory struct{}

// NewCandidateFactory creates a new CandidateFactory
func NewCandidateFactory() *CandidateFactory {
	return &CandidateFactory{}
}

// Create creates a test Candidate with default values
func (f *CandidateFactory) Create() *models.Candidate {
	id := uuid.New()
	return &models.Candidate{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ElectionID:  uuid.New(),
		Name:        "Candidate " + id.String()[:8],
		Description: "A test candidate",
		Position:    "Chair",
		Order:       1,
	}
}

// WithElection sets the election and ballot order for the candidate
func (f *CandidateFactory) WithElection(electionID uuid.UUID, order int) *models.Candidate {
	candidate := f.Create()
	candidate.ElectionID = electionID
	candidate.Order = order
	return candidate
}

// FactorySet provides access to all factories
type FactorySet struct {
	Organization *OrganizationFactory
	Role         *RoleFactory
	User         *UserFactory
	Election     *ElectionFactory
	Candidate    *CandidateFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Organization: NewOrganizationFactory(),
		Role:         NewRoleFactory(),
		User:         NewUserFactory(),
		Election:     NewElectionFactory(),
		Candidate:    NewCandidateFactory(),
	}
}

// CreateTenant persists an organization with a default role and one member,
// returning all three. Intended for integration suites that need a minimal
// working tenant.
func (fs *FactorySet) CreateTenant(s *BaseTestSuite) (*models.Organization, *models.Role, *models.User) {
	org := fs.Organization.Create()
	s.Require().NoError(s.DB.Create(org).Error)

	role := fs.Role.Default(org.ID)
	s.Require().NoError(s.DB.Create(role).Error)

	user := fs.User.WithOrganization(org.ID, role.ID)
	s.Require().NoError(s.DB.Create(user).Error)

	return org, role, user
}
