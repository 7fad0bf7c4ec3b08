package repository

import (
	"errors"

	"whattheygot/internal/http-api/models"

	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(announcement *models.Announcement) error
	Update(announcement *models.Announcement) error
	Delete(announcementID int64) error
	GetByID(announcementID int64) (*models.Announcement, error)
	List() ([]models.Announcement, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(announcement *models.Announcement) error {
	return r.db.Create(announcement).Error
}

func (r *announcementRepository) Update(announcement *models.Announcement) error {
	return r.db.Save(announcement).Error
}

func (r *announcementRepository) Delete(announcementID int64) error {
	result := r.db.Where("id = ?", announcementID).Delete(&models.Announcement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("announcement not found")
	}
	return nil
}

func (r *announcementRepository) GetByID(announcementID int64) (*models.Announcement, error) {
	var announcement models.Announcement
	err := r.db.Where("id = ?", announcementID).First(&announcement).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

// List returns announcements pinned-first, newest within each group
func (r *announcementRepository) List() ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.db.Order("is_pinned DESC, created_at DESC").Find(&announcements).Error
	return announcements, err
}
