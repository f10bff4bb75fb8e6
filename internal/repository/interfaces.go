package repository

import (
	"community-portal-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// OrganizationRepositoryInterface defines the interface for organization repository operations
type OrganizationRepositoryInterface interface {
	Create(org *models.Organization) error
	GetByID(id uuid.UUID) (*models.Organization, error)
	GetByName(name string) (*models.Organization, error)
	GetAll(limit, offset int) ([]models.Organization, int64, error)
	Update(org *models.Organization) error
	Delete(id uuid.UUID) error
}

// RoleRepositoryInterface defines the interface for role repository operations
type RoleRepositoryInterface interface {
	Create(role *models.Role) error
	GetByID(id uuid.UUID) (*models.Role, error)
	GetByName(orgID uuid.UUID, name string) (*models.Role, error)
	GetByOrganizationID(orgID uuid.UUID) ([]models.Role, error)
	GetDefaultByOrganization(orgID uuid.UUID) (*models.Role, error)
	Update(role *models.Role) error
	Delete(id uuid.UUID) error
	ReassignUsers(fromRoleID, toRoleID uuid.UUID) error
	CountUsers(roleID uuid.UUID) (int64, error)
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByIDWithRole(id uuid.UUID) (*models.User, error)
	GetByPhoneNumber(phone string) (*models.User, error)
	GetByOrganizationID(orgID uuid.UUID, limit, offset int) ([]models.User, int64, error)
	SearchByOrganization(orgID uuid.UUID, query string, limit, offset int) ([]models.User, int64, error)
	Update(user *models.User) error
	Delete(id uuid.UUID) error
}

// ElectionRepositoryInterface defines the interface for election repository operations
type ElectionRepositoryInterface interface {
	Create(election *models.Election) error
	GetByID(id, orgID uuid.UUID) (*models.Election, error)
	List(orgID uuid.UUID, status models.ElectionStatus, query string, limit, offset int) ([]models.Election, int64, error)
	Update(election *models.Election) error
	DeleteCascade(id uuid.UUID) error

	AddCandidate(electionID uuid.UUID, candidate *models.Candidate) error
	GetCandidate(electionID, candidateID uuid.UUID) (*models.Candidate, error)
	ListCandidates(electionID uuid.UUID) ([]models.Candidate, error)
	UpdateCandidate(candidate *models.Candidate) error
	DeleteCandidateCascade(candidateID uuid.UUID) error

	FindVotes(voterID, electionID uuid.UUID) ([]models.Vote, error)
	ListVotes(electionID uuid.UUID) ([]models.Vote, error)
	CreateVotes(votes []models.Vote) error
	CountVotesByElection(electionID uuid.UUID) (int64, error)
	CountVotesByCandidate(candidateID uuid.UUID) (int64, error)
}

// EventRepositoryInterface defines the interface for event repository operations
type EventRepositoryInterface interface {
	Create(event *models.Event) error
	GetByID(id, orgID uuid.UUID) (*models.Event, error)
	List(orgID uuid.UUID, limit, offset int) ([]models.Event, int64, error)
	Update(event *models.Event) error
	Delete(id uuid.UUID) error
}

// AnnouncementRepositoryInterface defines the interface for announcement repository operations
type AnnouncementRepositoryInterface interface {
	Create(announcement *models.Announcement) error
	GetByID(id, orgID uuid.UUID) (*models.Announcement, error)
	List(orgID uuid.UUID, limit, offset int) ([]models.Announcement, int64, error)
	Update(announcement *models.Announcement) error
	Delete(id uuid.UUID) error
}

// ChatRepositoryInterface defines the interface for chat repository operations
type ChatRepositoryInterface interface {
	Create(chat *models.Chat) error
	GetByID(id, orgID uuid.UUID) (*models.Chat, error)
	List(orgID uuid.UUID, limit, offset int) ([]models.Chat, int64, error)
	Delete(id uuid.UUID) error
	CreateMessage(message *models.Message) error
	ListMessages(chatID uuid.UUID, limit, offset int) ([]models.Message, int64, error)
}

// NotificationRepositoryInterface defines the interface for notification repository operations
type NotificationRepositoryInterface interface {
	Create(notification *models.Notification) error
	GetByID(id uuid.UUID) (*models.Notification, error)
	ListByUser(userID uuid.UUID, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(id, userID uuid.UUID) error
	DeleteByUser(userID uuid.UUID) error
}

// FinanceRepositoryInterface defines the interface for income/expense repository operations
type FinanceRepositoryInterface interface {
	CreateIncome(income *models.Income) error
	GetIncome(id, orgID uuid.UUID) (*models.Income, error)
	ListIncomes(orgID, eventID uuid.UUID, limit, offset int) ([]models.Income, int64, error)
	UpdateIncome(income *models.Income) error
	CreateExpense(expense *models.Expense) error
	GetExpense(id, orgID uuid.UUID) (*models.Expense, error)
	ListExpenses(orgID, eventID uuid.UUID, limit, offset int) ([]models.Expense, int64, error)
	UpdateExpense(expense *models.Expense) error
}
