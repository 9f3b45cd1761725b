package service

import (
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/logger"
	"context"
	"strings"
	"unicode/utf8"
)

const (
	minPlaylistDescription = 5
	maxPlaylistDescription = 50
)

type PlaylistService interface {
	AddPlaylist(ctx context.Context, callerID, title string, description *string) (*model.Playlist, error)
	GetPlaylistByID(ctx context.Context, playlistID, viewerID string) (*dto.PlaylistDetail, error)
	// 调用者自己的同名播放列表，不存在就创建
	GetPlaylistByTitle(ctx context.Context, callerID, title string) (*dto.PlaylistDetail, error)
	GetPlaylistsByUser(ctx context.Context, userID string) (*dto.PlaylistList, error)
	GetSavePlaylistData(ctx context.Context, callerID string) ([]dto.SavePlaylist, error)
	ToggleVideoInPlaylist(ctx context.Context, callerID, playlistID, videoID string) (ToggleResult, error)
}

type playlistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	userRepo     repository.UserRepository
	uow          data.UnitOfWork
	assembler    *ViewAssembler
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository, videoRepo repository.VideoRepository, userRepo repository.UserRepository, uow data.UnitOfWork, assembler *ViewAssembler) PlaylistService {
	return &playlistService{
		playlistRepo: playlistRepo,
		videoRepo:    videoRepo,
		userRepo:     userRepo,
		uow:          uow,
		assembler:    assembler,
	}
}

// 新建播放列表：标题必填且不能占用系统保留名，描述可选，填了就得是5到50个字符
func (s *playlistService) AddPlaylist(ctx context.Context, callerID, title string, description *string) (*model.Playlist, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "不能为空")
	}
	if model.IsReservedPlaylistTitle(title) {
		return nil, invalid("title", "系统保留名称")
	}
	if description != nil {
		n := utf8.RuneCountInString(*description)
		if n < minPlaylistDescription || n > maxPlaylistDescription {
			return nil, invalid("description", "长度必须在5到50之间")
		}
	}
	if _, err := s.userRepo.FindByID(ctx, callerID); err != nil {
		return nil, notFoundOr(err, "用户")
	}

	playlist := &model.Playlist{UserID: callerID, Title: title, Description: description}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *playlistService) GetPlaylistByID(ctx context.Context, playlistID, viewerID string) (*dto.PlaylistDetail, error) {
	playlist, err := s.playlistRepo.FindByID(ctx, playlistID)
	if err != nil {
		return nil, notFoundOr(err, "播放列表")
	}
	return s.assembler.ResolvePlaylistView(ctx, playlist, viewerID)
}

func (s *playlistService) GetPlaylistByTitle(ctx context.Context, callerID, title string) (*dto.PlaylistDetail, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "不能为空")
	}
	if _, err := s.userRepo.FindByID(ctx, callerID); err != nil {
		return nil, notFoundOr(err, "用户")
	}
	playlist, err := upsertNamedPlaylist(ctx, s.playlistRepo, callerID, title)
	if err != nil {
		return nil, err
	}
	return s.assembler.ResolvePlaylistView(ctx, playlist, callerID)
}

func (s *playlistService) GetPlaylistsByUser(ctx context.Context, userID string) (*dto.PlaylistList, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "用户")
	}
	playlists, err := s.playlistRepo.FindByUser(ctx, userID, repository.PlaylistQuery{})
	if err != nil {
		return nil, err
	}
	summaries, err := s.assembler.ResolvePlaylistSummaries(ctx, playlists)
	if err != nil {
		return nil, err
	}
	return &dto.PlaylistList{Playlists: summaries, State: dto.StateOf(len(summaries))}, nil
}

// “保存到播放列表”弹窗：自己的普通播放列表及其中已有的视频ID
func (s *playlistService) GetSavePlaylistData(ctx context.Context, callerID string) ([]dto.SavePlaylist, error) {
	playlists, err := s.playlistRepo.FindByUser(ctx, callerID, repository.PlaylistQuery{ExcludeReserved: true, WithMembers: true})
	if err != nil {
		return nil, err
	}
	summaries, err := s.assembler.ResolvePlaylistSummaries(ctx, playlists)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SavePlaylist, 0, len(playlists))
	for i := range playlists {
		videoIDs := make([]string, 0, len(playlists[i].Videos))
		for _, m := range playlists[i].Videos {
			videoIDs = append(videoIDs, m.VideoID)
		}
		result = append(result, dto.SavePlaylist{PlaylistResponse: summaries[i], VideoIDs: videoIDs})
	}
	return result, nil
}

// 只有播放列表的拥有者能增删其中的视频
func (s *playlistService) ToggleVideoInPlaylist(ctx context.Context, callerID, playlistID, videoID string) (ToggleResult, error) {
	if _, err := checkOwnership(ctx, s.playlistRepo.FindByID, playlistID, callerID, "播放列表"); err != nil {
		return ToggleResult{}, err
	}
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return ToggleResult{}, notFoundOr(err, "视频")
	}

	var result ToggleResult
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		var err error
		result, err = toggleMembership(ctx, repos.PlaylistRepo, playlistID, videoID)
		return err
	})
	if err != nil {
		return ToggleResult{}, err
	}
	logger.Log.WithField("playlist_id", playlistID).
		WithField("video_id", videoID).
		WithField("active", result.Active).
		Info("播放列表成员已切换")
	return result, nil
}
