package dto

// CreateAnnouncementDTO for creating or updating an announcement
type CreateAnnouncementDTO struct {
	Title    string `json:"title" binding:"required,max=200"`
	Body     string `json:"body" binding:"required,max=5000"`
	IsPinned bool   `json:"is_pinned"`
}
