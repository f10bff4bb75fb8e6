package service

import (
	"errors"
	"fmt"
	"time"

	apperrors "community-portal-backend/internal/errors"
	"community-portal-backend/internal/database/models"
	"community-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateEventRequest carries the fields for creating an event
type CreateEventRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Description string    `json:"description"`
	Location    string    `json:"location" validate:"omitempty,max=200"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
}

// UpdateEventRequest carries the updatable fields of an event
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty" validate:"omitempty,max=200"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// EventService manages organization events
type EventService struct {
	events    repository.EventRepositoryInterface
	validator *validator.Validate
}

// NewEventService creates a new event service
func NewEventService(events repository.EventRepositoryInterface) *EventService {
	return &EventService{events: events, validator: validator.New()}
}

// Create creates a new event
func (s *EventService) Create(orgID, createdByID uuid.UUID, createdByName string, req *CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, apperrors.NewValidationError("end_date", "must be after start_date")
	}

	event := &models.Event{
		OrganizationID: orgID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		CreatedByID:    createdByID,
		CreatedByName:  createdByName,
	}
	if err := s.events.Create(event); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return event, nil
}

// Get retrieves an event within the organization scope
func (s *EventService) Get(id, orgID uuid.UUID) (*models.Event, error) {
	event, err := s.events.GetByID(id, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return event, nil
}

// List retrieves events of an organization with pagination
func (s *EventService) List(orgID uuid.UUID, limit, offset int) ([]models.Event, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	events, total, err := s.events.List(orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing events: %w", err)
	}
	return events, total, nil
}

// Update applies partial changes to an event
func (s *EventService) Update(id, orgID uuid.UUID, req *UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	event, err := s.Get(id, orgID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if !event.EndDate.After(event.StartDate) {
		return nil, apperrors.NewValidationError("end_date", "must be after start_date")
	}

	if err := s.events.Update(event); err != nil {
		return nil, fmt.Errorf("updating event: %w", err)
	}
	return event, nil
}

// Delete removes an event
func (s *EventService) Delete(id, orgID uuid.UUID) error {
	if _, err := s.Get(id, orgID); err != nil {
		return err
	}
	if err := s.events.Delete(id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}
