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

// CreateChatRequest carries the fields for creating a chat
type CreateChatRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}

// PostMessageRequest carries the body of a new chat message
type PostMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

// ChatService manages organization chats and their messages
type ChatService struct {
	chats     repository.ChatRepositoryInterface
	users     repository.UserRepositoryInterface
	validator *validator.Validate
}

// NewChatService creates a new chat service
func NewChatService(chats repository.ChatRepositoryInterface, users repository.UserRepositoryInterface) *ChatService {
	return &ChatService{chats: chats, users: users, validator: validator.New()}
}

// Create creates a new chat
func (s *ChatService) Create(orgID uuid.UUID, req *CreateChatRequest) (*models.Chat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	chat := &models.Chat{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
	}
	if err := s.chats.Create(chat); err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}
	return chat, nil
}

// Get retrieves a chat within the organization scope
func (s *ChatService) Get(id, orgID uuid.UUID) (*models.Chat, error) {
	chat, err := s.chats.GetByID(id, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("getting chat: %w", err)
	}
	return chat, nil
}

// List retrieves chats of an organization with pagination
func (s *ChatService) List(orgID uuid.UUID, limit, offset int) ([]models.Chat, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	chats, total, err := s.chats.List(orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing chats: %w", err)
	}
	return chats, total, nil
}

// Delete removes a chat and all its messages
func (s *ChatService) Delete(id, orgID uuid.UUID) error {
	if _, err := s.Get(id, orgID); err != nil {
		return err
	}
	if err := s.chats.Delete(id); err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}
	return nil
}

// PostMessage appends a message to a chat. The sender's name is
// snapshotted so the message survives sender deletion.
func (s *ChatService) PostMessage(chatID, orgID, senderID uuid.UUID, req *PostMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("", err.Error())
	}

	if _, err := s.Get(chatID, orgID); err != nil {
		return nil, err
	}

	sender, err := s.users.GetByID(senderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting sender: %w", err)
	}

	message := &models.Message{
		ChatID:     chatID,
		SenderID:   senderID,
		SenderName: sender.FullName,
		Body:       req.Body,
	}
	if err := s.chats.CreateMessage(message); err != nil {
		return nil, fmt.Errorf("posting message: %w", err)
	}
	return message, nil
}

// ListMessages retrieves messages of a chat, newest first
func (s *ChatService) ListMessages(chatID, orgID uuid.UUID, limit, offset int) ([]models.Message, int64, error) {
	limit, offset, err := normalizePagination(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.Get(chatID, orgID); err != nil {
		return nil, 0, err
	}
	messages, total, err := s.chats.ListMessages(chatID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing messages: %w", err)
	}
	return messages, total, nil
}
