package models

import "time"

type Poll struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Question  string    `json:"question" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true;not null;index"`
	AdminID   string    `json:"admin_id" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Options []PollOption `json:"options,omitempty" gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE;"`
}

func (Poll) TableName() string {
	return "polls"
}

type PollOption struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PollID    int64     `json:"poll_id" gorm:"not null;index"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PollOption) TableName() string {
	return "poll_options"
}

// PollVote enforces one vote per caller per poll. VoterKey is the user ID for
// authenticated callers, else the device hash — the same accountability rule
// reviews follow.
type PollVote struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PollID    int64     `json:"poll_id" gorm:"not null;uniqueIndex:idx_poll_votes_poll_voter"`
	OptionID  int64     `json:"option_id" gorm:"not null;index"`
	VoterKey  string    `json:"-" gorm:"not null;uniqueIndex:idx_poll_votes_poll_voter"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PollVote) TableName() string {
	return "poll_votes"
}
