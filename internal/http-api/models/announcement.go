package models

import "time"

type Announcement struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body" gorm:"not null;type:text"`
	IsPinned  bool      `json:"is_pinned" gorm:"default:false;not null"`
	AdminID   string    `json:"admin_id" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Announcement) TableName() string {
	return "announcements"
}
