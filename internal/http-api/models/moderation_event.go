package models

import (
	"time"

	"gorm.io/datatypes"
)

// Content types a moderation event can refer to.
const (
	ContentTypeReview = "review"
	ContentTypeDevice = "device"
)

// Moderation event actions. The auto_* actions are written by the intake
// pipeline; the rest by admin overrides.
const (
	EventActionApprove    = "approve"
	EventActionReject     = "reject"
	EventActionAutoReject = "auto_reject"
	EventActionAutoShadow = "auto_shadow"
	EventActionBan        = "ban"
	EventActionUnban      = "unban"
)

// ModerationEvent is the append-only record of every automated or manual
// moderation decision. Rows are never mutated or deleted.
type ModerationEvent struct {
	ID           int64             `json:"id" gorm:"primaryKey;autoIncrement"`
	ContentType  string            `json:"content_type" gorm:"not null;index"`
	ContentID    int64             `json:"content_id" gorm:"not null;index"`
	DeviceIDHash *string           `json:"device_id_hash,omitempty"`
	Action       string            `json:"action" gorm:"not null;index"`
	Scores       datatypes.JSONMap `json:"scores,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	AdminID      *string           `json:"admin_id,omitempty" gorm:"type:uuid"`
	CreatedAt    time.Time         `json:"created_at" gorm:"autoCreateTime;index"`
}

func (ModerationEvent) TableName() string {
	return "moderation_events"
}
