package repository

import (
	"whattheygot/internal/http-api/models"

	"gorm.io/gorm"
)

type ModerationEventRepository interface {
	Create(event *models.ModerationEvent) error
	List(action string, page, pageSize int) ([]models.ModerationEvent, int64, error)
}

// Append-only: there is deliberately no update or delete method.
type moderationEventRepository struct {
	db *gorm.DB
}

func NewModerationEventRepository(db *gorm.DB) ModerationEventRepository {
	return &moderationEventRepository{db: db}
}

func (r *moderationEventRepository) Create(event *models.ModerationEvent) error {
	return r.db.Create(event).Error
}

// List retrieves moderation events newest first, optionally filtered by
// action, with pagination.
func (r *moderationEventRepository) List(action string, page, pageSize int) ([]models.ModerationEvent, int64, error) {
	var events []models.ModerationEvent
	var total int64

	query := r.db.Model(&models.ModerationEvent{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&events).Error

	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
