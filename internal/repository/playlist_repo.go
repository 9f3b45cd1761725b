package repository

import (
	"Orion_Tube/internal/model"
	"context"

	"gorm.io/gorm"
)

// PlaylistQuery 控制按用户列出播放列表时的附加行为
type PlaylistQuery struct {
	ExcludeReserved bool
	WithMembers     bool
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	FindByID(ctx context.Context, playlistID string) (*model.Playlist, error)
	FindByUserAndTitle(ctx context.Context, userID, title string) (*model.Playlist, error)
	FindByUser(ctx context.Context, userID string, query PlaylistQuery) ([]model.Playlist, error)

	// 成员按插入顺序返回，并preload视频及其作者
	Members(ctx context.Context, playlistID string) ([]model.PlaylistVideo, error)
	CountMembers(ctx context.Context, playlistIDs []string) (map[string]int64, error)
	// 每个播放列表最早加入的那条成员（带视频），用于封面
	FirstMembers(ctx context.Context, playlistIDs []string) (map[string]model.PlaylistVideo, error)
	HasMember(ctx context.Context, playlistID, videoID string) (bool, error)
	AddMember(ctx context.Context, playlistID, videoID string) error
	RemoveMember(ctx context.Context, playlistID, videoID string) (int64, error)
	RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error)

	WithTx(tx *gorm.DB) PlaylistRepository
}

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) WithTx(tx *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: tx}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if playlist.ReservedKey == nil {
		playlist.ReservedKey = model.ReservedKeyFor(playlist.UserID, playlist.Title)
	}
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *playlistRepository) FindByID(ctx context.Context, playlistID string) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", playlistID).First(&playlist).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// 同名的普通播放列表可能有多个，取最早创建的那个
func (r *playlistRepository) FindByUserAndTitle(ctx context.Context, userID, title string) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ? AND title = ?", userID, title).
		Order("created_at asc").
		First(&playlist).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *playlistRepository) FindByUser(ctx context.Context, userID string, query PlaylistQuery) ([]model.Playlist, error) {
	var playlists []model.Playlist
	q := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID)
	if query.ExcludeReserved {
		q = q.Where("title NOT IN ?", []string{model.PlaylistLikedVideos, model.PlaylistHistory})
	}
	if query.WithMembers {
		q = q.Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		})
	}
	err := q.Order("created_at asc").Order("id asc").Find(&playlists).Error
	return playlists, err
}

func (r *playlistRepository) Members(ctx context.Context, playlistID string) ([]model.PlaylistVideo, error) {
	var members []model.PlaylistVideo
	err := r.db.WithContext(ctx).
		Preload("Video").
		Preload("Video.User").
		Where("playlist_id = ?", playlistID).
		Order("id asc").
		Find(&members).Error
	return members, err
}

type playlistCount struct {
	PlaylistID string
	Total      int64
}

func (r *playlistRepository) CountMembers(ctx context.Context, playlistIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(playlistIDs))
	if len(playlistIDs) == 0 {
		return counts, nil
	}
	var rows []playlistCount
	err := r.db.WithContext(ctx).Model(&model.PlaylistVideo{}).
		Select("playlist_id, COUNT(*) AS total").
		Where("playlist_id IN ?", playlistIDs).
		Group("playlist_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PlaylistID] = row.Total
	}
	return counts, nil
}

func (r *playlistRepository) FirstMembers(ctx context.Context, playlistIDs []string) (map[string]model.PlaylistVideo, error) {
	firsts := make(map[string]model.PlaylistVideo, len(playlistIDs))
	if len(playlistIDs) == 0 {
		return firsts, nil
	}
	// 自增ID即插入顺序，MIN(id)就是每个列表的第一条
	sub := r.db.Model(&model.PlaylistVideo{}).
		Select("MIN(id)").
		Where("playlist_id IN ?", playlistIDs).
		Group("playlist_id")
	var members []model.PlaylistVideo
	err := r.db.WithContext(ctx).Preload("Video").Where("id IN (?)", sub).Find(&members).Error
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		firsts[m.PlaylistID] = m
	}
	return firsts, nil
}

func (r *playlistRepository) HasMember(ctx context.Context, playlistID, videoID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlaylistVideo{}).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Count(&count).Error
	return count > 0, err
}

func (r *playlistRepository) AddMember(ctx context.Context, playlistID, videoID string) error {
	return r.db.WithContext(ctx).Create(&model.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}).Error
}

func (r *playlistRepository) RemoveMember(ctx context.Context, playlistID, videoID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{})
	return result.RowsAffected, result.Error
}

func (r *playlistRepository) RemoveVideoEverywhere(ctx context.Context, videoID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("video_id = ?", videoID).Delete(&model.PlaylistVideo{})
	return result.RowsAffected, result.Error
}
