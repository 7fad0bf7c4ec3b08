package models

import "time"

// BannedDevice is keyed by the unique device hash; the unique index is what
// the upsert-with-strike-increment keys off. A nil ExpiresAt means the ban is
// permanent. Strikes only ever increase; unban is a hard delete.
type BannedDevice struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceIDHash string     `json:"device_id_hash" gorm:"uniqueIndex;not null"`
	Reason       string     `json:"reason" gorm:"not null"`
	Strikes      int        `json:"strikes" gorm:"not null;default:1"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (BannedDevice) TableName() string {
	return "banned_devices"
}

// Active reports whether the ban is in force at the given instant. Expired
// temporary bans are treated as not-banned; no cleanup pass is required.
func (b *BannedDevice) Active(now time.Time) bool {
	return b.ExpiresAt == nil || b.ExpiresAt.After(now)
}
