package dto

import (
	"time"

	"whattheygot/internal/http-api/models"
)

// CreatePollDTO for creating a poll with its options
type CreatePollDTO struct {
	Question string   `json:"question" binding:"required,max=300"`
	Options  []string `json:"options" binding:"required,min=2,max=10,dive,required,max=100"`
}

// VoteDTO for casting a vote
type VoteDTO struct {
	OptionID int64 `json:"option_id" binding:"required"`
}

// PollOptionResponse includes the running vote count per option
type PollOptionResponse struct {
	ID    int64  `json:"id"`
	Text  string `json:"text"`
	Votes int64  `json:"votes"`
}

// PollResponse for returning a poll with options and counts
type PollResponse struct {
	ID        int64                `json:"id"`
	Question  string               `json:"question"`
	IsActive  bool                 `json:"is_active"`
	Options   []PollOptionResponse `json:"options"`
	CreatedAt time.Time            `json:"created_at"`
}

// FromModelToPollResponse converts a Poll model plus vote counts to the
// response shape.
func FromModelToPollResponse(poll *models.Poll, counts map[int64]int64) *PollResponse {
	options := make([]PollOptionResponse, 0, len(poll.Options))
	for _, option := range poll.Options {
		options = append(options, PollOptionResponse{
			ID:    option.ID,
			Text:  option.Text,
			Votes: counts[option.ID],
		})
	}

	return &PollResponse{
		ID:        poll.ID,
		Question:  poll.Question,
		IsActive:  poll.IsActive,
		Options:   options,
		CreatedAt: poll.CreatedAt,
	}
}
