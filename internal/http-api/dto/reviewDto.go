package dto

import (
	"time"

	"whattheygot/internal/http-api/models"
)

// CreateReviewDTO for submitting a review. Rating is the only required
// field; text triggers moderation scoring when present.
type CreateReviewDTO struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Text     string `json:"text" binding:"max=2000"`
	Emoji    string `json:"emoji" binding:"max=16"`
	PhotoURL string `json:"photo_url" binding:"omitempty,url"`
}

// ReviewResponse for returning review information without caller identity
type ReviewResponse struct {
	ID               int64     `json:"id"`
	MenuItemID       int64     `json:"menu_item_id"`
	Rating           int       `json:"rating"`
	Text             string    `json:"text,omitempty"`
	Emoji            string    `json:"emoji,omitempty"`
	PhotoURL         string    `json:"photo_url,omitempty"`
	ModerationStatus string    `json:"moderation_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// FromModelToReviewResponse converts a Review model to ReviewResponse DTO
func FromModelToReviewResponse(review *models.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:               review.ID,
		MenuItemID:       review.MenuItemID,
		Rating:           review.Rating,
		Text:             review.Text,
		Emoji:            review.Emoji,
		PhotoURL:         review.PhotoURL,
		ModerationStatus: review.ModerationStatus,
		CreatedAt:        review.CreatedAt,
	}
}

// CreatedReviewResponse wraps a created review with the user-facing message
// for the pending ("under review") case.
type CreatedReviewResponse struct {
	Review  *ReviewResponse `json:"review"`
	Message string          `json:"message,omitempty"`
}

// PaginatedReviewResponse for returning paginated reviews
type PaginatedReviewResponse struct {
	Data       []ReviewResponse `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// NewPaginatedReviewResponse creates a paginated review response
func NewPaginatedReviewResponse(data []ReviewResponse, total, page, pageSize int) *PaginatedReviewResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedReviewResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
