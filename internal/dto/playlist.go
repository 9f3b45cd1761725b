package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

type PlaylistResponse struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Title             string    `json:"title"`
	Description       *string   `json:"description"`
	CreatedAt         time.Time `json:"createdAt"`
	VideoCount        int64     `json:"videoCount"`
	PlaylistThumbnail *string   `json:"playlistThumbnail"`
}

type PlaylistDetail struct {
	Playlist PlaylistResponse  `json:"playlist"`
	Videos   []VideoWithCounts `json:"videos"`
	Authors  []UserResponse    `json:"authors"`
	User     UserWithFollowers `json:"user"`
	State    ViewState         `json:"state"`
}

type PlaylistList struct {
	Playlists []PlaylistResponse `json:"playlists"`
	State     ViewState          `json:"state"`
}

// SavePlaylist “保存到播放列表”弹窗需要知道每个列表里已有哪些视频
type SavePlaylist struct {
	PlaylistResponse
	VideoIDs []string `json:"videoIds"`
}

// ToPlaylistResponse 派生字段由assembler填充
func ToPlaylistResponse(playlist *model.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:          playlist.ID,
		UserID:      playlist.UserID,
		Title:       playlist.Title,
		Description: playlist.Description,
		CreatedAt:   playlist.CreatedAt,
	}
}
