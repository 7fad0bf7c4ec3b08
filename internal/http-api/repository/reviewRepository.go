package repository

import (
	"whattheygot/internal/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	Save(review *models.Review) error
	GetByID(reviewID int64) (*models.Review, error)
	GetVisibleByMenuItem(menuItemID int64, page, pageSize int) ([]models.Review, int64, error)
	GetPending(page, pageSize int) ([]models.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create a new review
func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// Save persists all fields of an existing review
func (r *reviewRepository) Save(review *models.Review) error {
	return r.db.Save(review).Error
}

// GetByID retrieves a review by its ID
func (r *reviewRepository) GetByID(reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("id = ?", reviewID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetVisibleByMenuItem retrieves publicly visible reviews for a menu item
// with pagination. Only approved, unhidden, unflagged reviews are returned.
func (r *reviewRepository) GetVisibleByMenuItem(menuItemID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	visible := r.db.Model(&models.Review{}).
		Where("menu_item_id = ?", menuItemID).
		Where("moderation_status = ?", models.ModerationStatusApproved).
		Where("is_hidden = ? AND is_flagged = ?", false, false)

	if err := visible.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := visible.
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error

	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// GetPending retrieves reviews awaiting manual moderation, oldest first,
// joined with their menu item for admin display.
func (r *reviewRepository) GetPending(page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	pending := r.db.Model(&models.Review{}).
		Where("moderation_status = ?", models.ModerationStatusPending)

	if err := pending.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Where("moderation_status = ?", models.ModerationStatusPending).
		Preload("MenuItem").
		Order("created_at ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error

	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
