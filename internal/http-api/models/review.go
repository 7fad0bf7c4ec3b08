package models

import (
	"time"

	"gorm.io/datatypes"
)

// Moderation statuses for a review. pending is a waiting state resolved only
// by an admin; approved and rejected are terminal (rejected rows are retained
// for audit, never shown to users).
const (
	ModerationStatusApproved = "approved"
	ModerationStatusPending  = "pending"
	ModerationStatusRejected = "rejected"
)

type Review struct {
	ID           int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	MenuItemID   int64   `json:"menu_item_id" gorm:"not null;index"`
	UserID       *string `json:"user_id,omitempty" gorm:"type:uuid;index"`
	DeviceIDHash *string `json:"-" gorm:"index"`
	Rating       int     `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Text         string  `json:"text,omitempty" gorm:"type:text"`
	Emoji        string  `json:"emoji,omitempty"`
	PhotoURL     string  `json:"photo_url,omitempty"`

	IsHidden         bool              `json:"is_hidden" gorm:"default:false;not null"`
	IsFlagged        bool              `json:"is_flagged" gorm:"default:false;not null"`
	ModerationStatus string            `json:"moderation_status" gorm:"default:'approved';not null;index"`
	ModerationScores datatypes.JSONMap `json:"moderation_scores,omitempty"`
	FlaggedReason    string            `json:"flagged_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	MenuItem MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}

// Visible reports whether the review may be shown publicly: approved by
// moderation, not hidden by a report, not flagged.
func (r *Review) Visible() bool {
	return r.ModerationStatus == ModerationStatusApproved && !r.IsHidden && !r.IsFlagged
}
