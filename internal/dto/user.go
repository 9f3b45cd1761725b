package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

type UserResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Image           string    `json:"image"`
	BackgroundImage string    `json:"backgroundImage"`
	Handle          string    `json:"handle"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UserWithFollowers 视频/播放列表页上的作者信息
type UserWithFollowers struct {
	UserResponse
	Followers int64 `json:"followers"`
}

// ChannelUser 频道页的用户，同时带关注数和粉丝数
type ChannelUser struct {
	UserResponse
	Followers  int64 `json:"followers"`
	Followings int64 `json:"followings"`
}

type ChannelViewer struct {
	HasFollowed bool `json:"hasFollowed"`
}

type ChannelView struct {
	User   ChannelUser   `json:"user"`
	Viewer ChannelViewer `json:"viewer"`
}

type FollowingEntry struct {
	User              UserWithFollowers `json:"user"`
	ViewerHasFollowed bool              `json:"viewerHasFollowed"`
}

type FollowingsView struct {
	User       UserResponse     `json:"user"`
	Followings []FollowingEntry `json:"followings"`
	State      ViewState        `json:"state"`
}

type DashboardView struct {
	User           UserResponse      `json:"user"`
	TotalFollowers int64             `json:"totalFollowers"`
	Videos         []VideoWithCounts `json:"videos"`
	TotalLikes     int64             `json:"totalLikes"`
	TotalViews     int64             `json:"totalViews"`
}

// ToUserResponse 未preload的零值User返回空ID，调用方据此判断
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Image:           user.Image,
		BackgroundImage: user.BackgroundImage,
		Handle:          user.Handle,
		Description:     user.Description,
		CreatedAt:       user.CreatedAt,
	}
}
