package model

import "time"

const (
	PlaylistLikedVideos = "Liked Videos"
	PlaylistHistory     = "History"
)

// IsReservedPlaylistTitle 判断是否是系统隐式创建的播放列表
func IsReservedPlaylistTitle(title string) bool {
	return title == PlaylistLikedVideos || title == PlaylistHistory
}

type Playlist struct {
	BaseModel
	UserID      string `gorm:"type:varchar(36);not null;index:idx_playlist_user_title"`
	Title       string `gorm:"not null;index:idx_playlist_user_title"`
	Description *string
	// 只有保留标题才会写入该列，NULL不参与唯一约束，保证每个用户最多一个"Liked Videos"/"History"
	ReservedKey *string `gorm:"type:varchar(128);uniqueIndex"`

	User   User            `gorm:"foreignKey:UserID;references:ID"`
	Videos []PlaylistVideo `gorm:"foreignKey:PlaylistID"`
}

// ReservedKeyFor 生成保留播放列表的唯一键，普通标题返回nil
func ReservedKeyFor(userID, title string) *string {
	if !IsReservedPlaylistTitle(title) {
		return nil
	}
	key := userID + ":" + title
	return &key
}

// 播放列表与视频的关联，自增ID就是插入顺序；关系是“开关”，不做软删除，否则唯一索引会挡住再次加入
type PlaylistVideo struct {
	ID         uint64 `gorm:"primarykey"`
	CreatedAt  time.Time
	PlaylistID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_playlist_video"`
	VideoID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_playlist_video;index"`

	Video Video `gorm:"foreignKey:VideoID;references:ID"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}

func (p *Playlist) OwnerID() string {
	return p.UserID
}
