package repository

import (
	"community-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnouncementRepository handles database operations for announcements
type AnnouncementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// Create creates a new announcement
func (r *AnnouncementRepository) Create(announcement *models.Announcement) error {
	return r.db.Create(announcement).Error
}

// GetByID retrieves an announcement by ID within the given organization scope
func (r *AnnouncementRepository) GetByID(id, orgID uuid.UUID) (*models.Announcement, error) {
	var announcement models.Announcement
	err := r.db.First(&announcement, "id = ? AND organization_id = ?", id, orgID).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

// List retrieves announcements of an organization, pinned first
func (r *AnnouncementRepository) List(orgID uuid.UUID, limit, offset int) ([]models.Announcement, int64, error) {
	var announcements []models.Announcement
	var total int64

	if err := r.db.Model(&models.Announcement{}).Where("organization_id = ?", orgID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("organization_id = ?", orgID).
		Order("is_pinned DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&announcements).Error
	if err != nil {
		return nil, 0, err
	}

	return announcements, total, nil
}

// Update updates an announcement
func (r *AnnouncementRepository) Update(announcement *models.Announcement) error {
	return r.db.Save(announcement).Error
}

// Delete deletes an announcement
func (r *AnnouncementRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Announcement{}, "id = ?", id).Error
}
