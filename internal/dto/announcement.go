package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

type AnnouncementResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Message   string          `json:"message"`
	CreatedAt time.Time       `json:"createdAt"`
	Likes     int64           `json:"likes"`
	Dislikes  int64           `json:"dislikes"`
	Viewer    *ReactionViewer `json:"viewer,omitempty"`
}

// AnnouncementList 公告和作者按下标对应
type AnnouncementList struct {
	Announcements []AnnouncementResponse `json:"announcements"`
	Users         []UserResponse         `json:"users"`
	State         ViewState              `json:"state"`
}

func ToAnnouncementResponse(announcement *model.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        announcement.ID,
		UserID:    announcement.UserID,
		Message:   announcement.Message,
		CreatedAt: announcement.CreatedAt,
	}
}
