package dto

import "whattheygot/internal/http-api/models"

// RejectReviewDTO for the admin reject override
type RejectReviewDTO struct {
	Reason    string `json:"reason" binding:"required,max=500"`
	BanDevice bool   `json:"ban_device"`
}

// PendingReviewResponse pairs a pending review with its menu item for the
// admin moderation queue.
type PendingReviewResponse struct {
	Review        ReviewResponse `json:"review"`
	MenuItemName  string         `json:"menu_item_name"`
	Station       string         `json:"station,omitempty"`
	FlaggedReason string         `json:"flagged_reason,omitempty"`
}

// FromModelToPendingReviewResponse converts a Review (with MenuItem
// preloaded) to the admin queue shape.
func FromModelToPendingReviewResponse(review *models.Review) *PendingReviewResponse {
	return &PendingReviewResponse{
		Review:        *FromModelToReviewResponse(review),
		MenuItemName:  review.MenuItem.Name,
		Station:       review.MenuItem.Station,
		FlaggedReason: review.FlaggedReason,
	}
}

// PaginatedEventResponse for returning paginated moderation events
type PaginatedEventResponse struct {
	Data       []models.ModerationEvent `json:"data"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	Total      int                      `json:"total"`
	TotalPages int                      `json:"total_pages"`
}

// NewPaginatedEventResponse creates a paginated event response
func NewPaginatedEventResponse(data []models.ModerationEvent, total, page, pageSize int) *PaginatedEventResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedEventResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
