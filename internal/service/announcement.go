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

// CreateAnnouncementRequest carries the fields for creating an announcement
type CreateAnnouncementRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Body     string `json:"body" validate:"required"`
	IsPinned bool   `json:"is_pinned"`
}

// UpdateAnnouncementRequest carries the updatable fields of an announcement
type UpdateAnnouncementRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Body     *string `json:"body,omitempty"`
	IsPinned *bool   `json:"is_pinned,omitempty"`
}

// AnnouncementService manages organization announcements
type AnnouncementService struct {
	announcements repository.AnnouncementRepositoryInterface
	validator     *validator.Validate
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(announcements repository.AnnouncementRepositoryInterface) *AnnouncementService {
	return &AnnouncementService{announcements: announcements, validator: validator.New()}
}

// Create creates a new announcement
func (s *AnnouncementService) Create(orgID, createdByID uuid.UUID, createdByName string, req *CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	announcement := &models.Announcement{
		OrganizationID: orgID,
		Title:          req.Title,
		Body:           req.Body,
		IsPinned:       req.IsPinned,
		CreatedByID:    createdByID,
		CreatedByName:  createdByName,
	}
	if err := s.announcements.Create(announcement); err != nil {
		return nil, fmt.Errorf("creating announcement: %w", err)
	}
	return announcement, nil
}

// Get retrieves an announcement within the organization scope
func (s *AnnouncementService) Get(id, orgID uuid.UUID) (*models.Announcement, error) {
	announcement, err := s.announcements.GetByID(id, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("getting announcement: %w", err)
	}
	return announcement, nil
}

// List retrieves announcements of an organization, pinned first
func (s *AnnouncementService) List(orgID uuid.UUID, limit, offset int) ([]models.Announcement, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	announcements, total, err := s.announcements.List(orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing announcements: %w", err)
	}
	return announcements, total, nil
}

// Update applies partial changes to an announcement
func (s *AnnouncementService) Update(id, orgID uuid.UUID, req *UpdateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	announcement, err := s.Get(id, orgID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Body != nil {
		if *req.Body == "" {
			return nil, apperrors.NewValidationError("body", "cannot be empty")
		}
		announcement.Body = *req.Body
	}
	if req.IsPinned != nil {
		announcement.IsPinned = *req.IsPinned
	}

	if err := s.announcements.Update(announcement); err != nil {
		return nil, fmt.Errorf("updating announcement: %w", err)
	}
	return announcement, nil
}

// Delete removes an announcement
func (s *AnnouncementService) Delete(id, orgID uuid.UUID) error {
	if _, err := s.Get(id, orgID); err != nil {
		return err
	}
	if err := s.announcements.Delete(id); err != nil {
		return fmt.Errorf("deleting announcement: %w", err)
	}
	return nil
}
