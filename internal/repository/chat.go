package repository

import (
	"community-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRepository handles database operations for chats and their messages
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create creates a new chat
func (r *ChatRepository) Create(chat *models.Chat) error {
	return r.db.Create(chat).Error
}

// GetByID retrieves a chat by ID within the given organization scope
func (r *ChatRepository) GetByID(id, orgID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.First(&chat, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// List retrieves chats of an organization with pagination
func (r *ChatRepository) List(orgID uuid.UUID, limit, offset int) ([]models.Chat, int64, error) {
	var chats []models.Chat
	var total int64

	if err := r.db.Model(&models.Chat{}).Where("organization_id = ?", orgID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&chats).Error
	if err != nil {
		return nil, 0, err
	}

	return chats, total, nil
}

// Delete deletes a chat and its messages
func (r *ChatRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Message{}, "chat_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Chat{}, "id = ?", id).Error
	})
}

// CreateMessage creates a new message in a chat
func (r *ChatRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// ListMessages retrieves messages of a chat, newest first
func (r *ChatRepository) ListMessages(chatID uuid.UUID, limit, offset int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	if err := r.db.Model(&models.Message{}).Where("chat_id = ?", chatID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
