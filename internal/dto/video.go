package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

type VideoResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoURL     string    `json:"videoUrl"`
	Publish      bool      `json:"publish"`
	CreatedAt    time.Time `json:"createdAt"`
}

// VideoCounts 全部来自对EngagementEvent的实时计数
type VideoCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
	Views    int64 `json:"views"`
}

type VideoViewer struct {
	HasLiked    bool `json:"hasLiked"`
	HasDisliked bool `json:"hasDisliked"`
	HasFollowed bool `json:"hasFollowed"`
}

type VideoWithCounts struct {
	VideoResponse
	VideoCounts
	// 列表里只有登录用户才会带上
	Viewer *VideoViewer `json:"viewer,omitempty"`
}

type VideoDetail struct {
	Video    VideoWithCounts   `json:"video"`
	User     UserWithFollowers `json:"user"`
	Comments []CommentWithUser `json:"comments"`
	Viewer   VideoViewer       `json:"viewer"`
}

// VideoList 视频列表和作者列表按下标一一对应
type VideoList struct {
	Videos []VideoWithCounts `json:"videos"`
	Users  []UserResponse    `json:"users"`
	State  ViewState         `json:"state"`
}

// ToVideoResponse 把DB模型转换为API响应模型
func ToVideoResponse(video *model.Video) VideoResponse {
	return VideoResponse{
		ID:           video.ID,
		UserID:       video.UserID,
		Title:        video.Title,
		Description:  video.Description,
		ThumbnailURL: video.ThumbnailURL,
		VideoURL:     video.VideoURL,
		Publish:      video.Publish,
		CreatedAt:    video.CreatedAt,
	}
}

// ToVideoAuthor 检查作者是否被成功preload，没有就只返回ID
func ToVideoAuthor(video *model.Video) UserResponse {
	if video.User.ID != "" {
		return ToUserResponse(&video.User)
	}
	return UserResponse{ID: video.UserID}
}
