package service

import (
	"errors"
	"fmt"

	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateNotificationRequest carries the fields for sending a notification
type CreateNotificationRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Title  string    `json:"title" validate:"required,max=200"`
	Body   string    `json:"body"`
}

// NotificationService manages per-user notifications
type NotificationService struct {
	notifications repository.NotificationRepositoryInterface
	users         repository.UserRepositoryInterface
	validator     *validator.Validate
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications repository.NotificationRepositoryInterface, users repository.UserRepositoryInterface) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		validator:     validator.New(),
	}
}

// Create sends a notification to a member of the organization
func (s *NotificationService) Create(orgID uuid.UUID, req *CreateNotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	user, err := s.users.GetByID(req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting recipient: %w", err)
	}
	if user.OrganizationID != orgID {
		return nil, apperrors.ErrUserNotFound
	}

	notification := &models.Notification{
		OrganizationID: orgID,
		UserID:         req.UserID,
		Title:          req.Title,
		Body:           req.Body,
	}
	if err := s.notifications.Create(notification); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	return notification, nil
}

// ListForUser retrieves a user's notifications, newest first
func (s *NotificationService) ListForUser(userID uuid.UUID, limit, offset int) ([]models.Notification, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	notifications, total, err := s.notifications.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(id, userID uuid.UUID) error {
	if err := s.notifications.MarkRead(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}
