package service

import (
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/logger"
	"context"
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/sync/singleflight"
)

const (
	maxRandomVideos = 100
	searchLimit     = 10
)

type CreateVideoInput struct {
	Title        string
	Description  string
	ThumbnailURL string
	VideoURL     string
}

// UpdateVideoInput nil表示不修改该字段
type UpdateVideoInput struct {
	Title        *string
	Description  *string
	ThumbnailURL *string
}

type VideoService interface {
	CreateVideo(ctx context.Context, userID string, input CreateVideoInput) (*model.Video, error)
	UpdateVideo(ctx context.Context, callerID, videoID string, input UpdateVideoInput) (*model.Video, error)
	PublishVideo(ctx context.Context, callerID, videoID string) (*model.Video, error)
	DeleteVideo(ctx context.Context, callerID, videoID string) error

	GetVideoByID(ctx context.Context, videoID, viewerID string) (*dto.VideoDetail, error)
	GetVideosByUser(ctx context.Context, userID, viewerID string) (*dto.VideoList, error)
	GetRandomVideos(ctx context.Context, n int, viewerID string) (*dto.VideoList, error)
	SearchVideos(ctx context.Context, query, viewerID string) (*dto.VideoList, error)
}

type videoService struct {
	sf singleflight.Group

	videoRepo   repository.VideoRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	uow         data.UnitOfWork
	assembler   *ViewAssembler
}

func NewVideoService(videoRepo repository.VideoRepository, userRepo repository.UserRepository, commentRepo repository.CommentRepository, uow data.UnitOfWork, assembler *ViewAssembler) VideoService {
	return &videoService{
		videoRepo:   videoRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		uow:         uow,
		assembler:   assembler,
	}
}

// 创建视频：1、videoUrl必填 2、作者必须存在 3、新视频默认不公开
func (s *videoService) CreateVideo(ctx context.Context, userID string, input CreateVideoInput) (*model.Video, error) {
	if strings.TrimSpace(input.VideoURL) == "" {
		return nil, invalid("videoUrl", "不能为空")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "用户")
	}
	video := &model.Video{
		UserID:       userID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		ThumbnailURL: input.ThumbnailURL,
		VideoURL:     input.VideoURL,
		Publish:      false,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *videoService) UpdateVideo(ctx context.Context, callerID, videoID string, input UpdateVideoInput) (*model.Video, error) {
	video, err := checkOwnership(ctx, s.videoRepo.FindByID, videoID, callerID, "视频")
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.ThumbnailURL != nil {
		fields["thumbnail_url"] = *input.ThumbnailURL
	}
	if len(fields) == 0 {
		return video, nil
	}
	if err := s.videoRepo.Update(ctx, videoID, fields); err != nil {
		return nil, err
	}
	s.invalidate(ctx, videoID)
	return s.videoRepo.FindByID(ctx, videoID)
}

// 发布开关：公开<->不公开
func (s *videoService) PublishVideo(ctx context.Context, callerID, videoID string) (*model.Video, error) {
	video, err := checkOwnership(ctx, s.videoRepo.FindByID, videoID, callerID, "视频")
	if err != nil {
		return nil, err
	}
	if err := s.videoRepo.Update(ctx, videoID, map[string]interface{}{"publish": !video.Publish}); err != nil {
		return nil, err
	}
	s.invalidate(ctx, videoID)
	video.Publish = !video.Publish
	return video, nil
}

// 删除视频：视频和它在所有播放列表里的成员关系在同一个事务里删掉
func (s *videoService) DeleteVideo(ctx context.Context, callerID, videoID string) error {
	if _, err := checkOwnership(ctx, s.videoRepo.FindByID, videoID, callerID, "视频"); err != nil {
		return err
	}
	var removed int64
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		if err := repos.VideoRepo.Delete(ctx, videoID); err != nil {
			return err
		}
		n, err := repos.PlaylistRepo.RemoveVideoEverywhere(ctx, videoID)
		removed = n
		return err
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, videoID)
	logger.Log.WithField("video_id", videoID).WithField("memberships_removed", removed).Info("视频已删除")
	return nil
}

// 缓存失效失败只记日志，TTL到期后会自然过期
func (s *videoService) invalidate(ctx context.Context, videoID string) {
	if err := s.videoRepo.DeleteVideoCache(ctx, videoID); err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("删除视频缓存失败")
	}
}

// 根据videoID查找视频：1、查找Redis缓存 2、通过SingleFlight进行数据库查找并回填缓存
func (s *videoService) loadVideo(ctx context.Context, videoID string) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoCache(ctx, videoID)
	if err == nil && video != nil {
		return video, nil
	}
	// Redis本身出错时退回数据库，不影响读
	if err != nil {
		logger.Log.WithError(err).WithField("video_id", videoID).Warn("读取视频缓存失败")
	}
	// 缓存未命中，同一时间对同一视频的查询只放一个到数据库
	key := fmt.Sprintf("get_video_%s", videoID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbVideo, dbErr := s.videoRepo.FindByID(ctx, videoID)
		if dbErr != nil {
			return nil, dbErr
		}
		if cacheErr := s.videoRepo.SetVideoCache(ctx, dbVideo); cacheErr != nil {
			logger.Log.WithError(cacheErr).WithField("video_id", videoID).Warn("回填视频缓存失败")
		}
		return dbVideo, nil
	})
	if err != nil {
		return nil, notFoundOr(err, "视频")
	}
	return result.(*model.Video), nil
}

// 视频详情：视频+计数、作者+粉丝数、评论（带作者和赞踩数）、观看者状态。只读，不记播放
func (s *videoService) GetVideoByID(ctx context.Context, videoID, viewerID string) (*dto.VideoDetail, error) {
	video, err := s.loadVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	item, viewer, err := s.assembler.ResolveVideoView(ctx, video, viewerID)
	if err != nil {
		return nil, err
	}

	// 缓存里不带作者，作者资料每次现查
	author, err := s.userRepo.FindByID(ctx, video.UserID)
	if err != nil {
		return nil, notFoundOr(err, "作者")
	}
	user, err := s.assembler.UserWithFollowers(ctx, author)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	commentViews, err := s.assembler.ResolveCommentCollection(ctx, comments, viewerID)
	if err != nil {
		return nil, err
	}

	return &dto.VideoDetail{
		Video:    item,
		User:     user,
		Comments: commentViews,
		Viewer:   viewer,
	}, nil
}

func (s *videoService) listing(ctx context.Context, videos []model.Video, viewerID string) (*dto.VideoList, error) {
	items, users, err := s.assembler.ResolveVideoCollection(ctx, videos, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.VideoList{Videos: items, Users: users, State: dto.StateOf(len(items))}, nil
}

// 某个用户公开的视频
func (s *videoService) GetVideosByUser(ctx context.Context, userID, viewerID string) (*dto.VideoList, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "用户")
	}
	videos, err := s.videoRepo.FindMany(ctx, repository.VideoFilter{UserID: userID, PublishedOnly: true})
	if err != nil {
		return nil, err
	}
	return s.listing(ctx, videos, viewerID)
}

// 随机推荐：在全部公开视频里无放回地抽n个，作者列表跟着同一个排列走
func (s *videoService) GetRandomVideos(ctx context.Context, n int, viewerID string) (*dto.VideoList, error) {
	if n < 0 || n > maxRandomVideos {
		return nil, invalid("n", fmt.Sprintf("取值范围是0到%d", maxRandomVideos))
	}
	videos, err := s.videoRepo.FindMany(ctx, repository.VideoFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}
	authors := make([]dto.UserResponse, 0, len(videos))
	for i := range videos {
		authors = append(authors, dto.ToVideoAuthor(&videos[i]))
	}
	picked, pickedAuthors := PickRandomSubset(rand.Intn, videos, authors, n)

	items, _, err := s.assembler.ResolveVideoCollection(ctx, picked, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.VideoList{Videos: items, Users: pickedAuthors, State: dto.StateOf(len(items))}, nil
}

// 按标题搜索公开视频，最多返回searchLimit条；空查询直接返回空结果
func (s *videoService) SearchVideos(ctx context.Context, query, viewerID string) (*dto.VideoList, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.listing(ctx, nil, viewerID)
	}
	videos, err := s.videoRepo.FindMany(ctx, repository.VideoFilter{
		PublishedOnly: true,
		TitleContains: query,
		Limit:         searchLimit,
	})
	if err != nil {
		return nil, err
	}
	return s.listing(ctx, videos, viewerID)
}
