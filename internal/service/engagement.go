package service

import (
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/logger"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ViewPublisher 异步播放记录的投递方，由消息队列实现
type ViewPublisher interface {
	PublishView(ctx context.Context, actorID, videoID string, viewedAt time.Time) error
}

type EngagementService interface {
	ToggleFollow(ctx context.Context, actorID, userID string) (ToggleResult, error)
	// 赞和踩互斥；赞的状态同步到“Liked Videos”
	ToggleLike(ctx context.Context, actorID, videoID string) (ToggleResult, error)
	ToggleDislike(ctx context.Context, actorID, videoID string) (ToggleResult, error)
	ToggleCommentReaction(ctx context.Context, actorID, commentID string, kind model.EngagementKind) (ToggleResult, error)
	ToggleAnnouncementReaction(ctx context.Context, actorID, announcementID string, kind model.EngagementKind) (ToggleResult, error)

	// RecordView 校验视频和观看者存在后同步落库，或交给publisher异步落库
	RecordView(ctx context.Context, actorID, videoID string) error
	// PersistView 消费者落库入口：重新校验后插入一条viewedAt时刻的VIEW；actor已知时把视频加入其“History”
	PersistView(ctx context.Context, actorID, videoID string, viewedAt time.Time) error
}

type engagementService struct {
	userRepo         repository.UserRepository
	videoRepo        repository.VideoRepository
	commentRepo      repository.CommentRepository
	announcementRepo repository.AnnouncementRepository
	playlistRepo     repository.PlaylistRepository
	uow              data.UnitOfWork

	// 为nil时同步写库
	publisher ViewPublisher
}

func NewEngagementService(
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	commentRepo repository.CommentRepository,
	announcementRepo repository.AnnouncementRepository,
	playlistRepo repository.PlaylistRepository,
	uow data.UnitOfWork,
	publisher ViewPublisher,
) EngagementService {
	return &engagementService{
		userRepo:         userRepo,
		videoRepo:        videoRepo,
		commentRepo:      commentRepo,
		announcementRepo: announcementRepo,
		playlistRepo:     playlistRepo,
		uow:              uow,
		publisher:        publisher,
	}
}

func opposite(kind model.EngagementKind) model.EngagementKind {
	if kind == model.KindLike {
		return model.KindDislike
	}
	return model.KindLike
}

func logToggle(fields logrus.Fields, result ToggleResult) {
	logCtx := logger.Log.WithFields(fields).WithField("active", result.Active)
	if result.ConflictIgnored {
		logCtx.WithError(ErrConflictIgnored).WithField("removed", result.Removed).Warn("开关操作清理了重复记录")
		return
	}
	logCtx.Info("开关操作完成")
}

// requireActor token里的用户ID只说明签名有效，不代表用户还在库里
func (s *engagementService) requireActor(ctx context.Context, actorID string) error {
	if _, err := s.userRepo.FindByID(ctx, actorID); err != nil {
		return notFoundOr(err, "用户")
	}
	return nil
}

// 关注/取关：不能关注自己
func (s *engagementService) ToggleFollow(ctx context.Context, actorID, userID string) (ToggleResult, error) {
	if actorID == userID {
		return ToggleResult{}, invalid("userId", "不能关注自己")
	}
	if err := s.requireActor(ctx, actorID); err != nil {
		return ToggleResult{}, err
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return ToggleResult{}, notFoundOr(err, "用户")
	}
	var result ToggleResult
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		var err error
		result, err = toggleEngagement(ctx, repos.EngagementRepo, actorID, model.SubjectUser, userID, model.KindFollow)
		return err
	})
	if err != nil {
		return ToggleResult{}, err
	}
	logToggle(logrus.Fields{"actor_id": actorID, "user_id": userID, "kind": model.KindFollow}, result)
	return result, nil
}

// toggleReaction 事务里切换赞/踩，开启时顺带删掉同一actor对同一对象的反向互动。
// after在同一事务里执行，拿到的是本次切换的结果。
func (s *engagementService) toggleReaction(ctx context.Context, actorID string, subjectType model.SubjectType, subjectID string, kind model.EngagementKind, after func(repos *data.TransactionalRepositories, result ToggleResult) error) (ToggleResult, error) {
	if kind != model.KindLike && kind != model.KindDislike {
		return ToggleResult{}, invalid("kind", "只支持LIKE或DISLIKE")
	}
	var result ToggleResult
	err := s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		var err error
		result, err = toggleEngagement(ctx, repos.EngagementRepo, actorID, subjectType, subjectID, kind)
		if err != nil {
			return err
		}
		if result.Active {
			_, err = repos.EngagementRepo.DeleteMany(ctx, repository.EngagementFilter{
				SubjectType: subjectType,
				SubjectID:   subjectID,
				ActorID:     actorID,
				Kind:        opposite(kind),
			})
			if err != nil {
				return err
			}
		}
		if after != nil {
			return after(repos, result)
		}
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}
	logToggle(logrus.Fields{"actor_id": actorID, "subject_type": subjectType, "subject_id": subjectID, "kind": kind}, result)
	return result, nil
}

// 点赞：赞开启时视频进入“Liked Videos”，关闭时移出
func (s *engagementService) ToggleLike(ctx context.Context, actorID, videoID string) (ToggleResult, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return ToggleResult{}, err
	}
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return ToggleResult{}, notFoundOr(err, "视频")
	}
	// 保留播放列表要在事务外建好，见upsertNamedPlaylist
	liked, err := upsertNamedPlaylist(ctx, s.playlistRepo, actorID, model.PlaylistLikedVideos)
	if err != nil {
		return ToggleResult{}, err
	}
	return s.toggleReaction(ctx, actorID, model.SubjectVideo, videoID, model.KindLike, func(repos *data.TransactionalRepositories, result ToggleResult) error {
		if result.Active {
			return addMemberIfAbsent(ctx, repos.PlaylistRepo, liked.ID, videoID)
		}
		_, err := repos.PlaylistRepo.RemoveMember(ctx, liked.ID, videoID)
		return err
	})
}

// 点踩：踩开启时赞被清掉，视频也要从“Liked Videos”移出；没有这个播放列表就什么都不用做
func (s *engagementService) ToggleDislike(ctx context.Context, actorID, videoID string) (ToggleResult, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return ToggleResult{}, err
	}
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return ToggleResult{}, notFoundOr(err, "视频")
	}
	return s.toggleReaction(ctx, actorID, model.SubjectVideo, videoID, model.KindDislike, func(repos *data.TransactionalRepositories, result ToggleResult) error {
		if !result.Active {
			return nil
		}
		liked, err := repos.PlaylistRepo.FindByUserAndTitle(ctx, actorID, model.PlaylistLikedVideos)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = repos.PlaylistRepo.RemoveMember(ctx, liked.ID, videoID)
		return err
	})
}

func (s *engagementService) ToggleCommentReaction(ctx context.Context, actorID, commentID string, kind model.EngagementKind) (ToggleResult, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return ToggleResult{}, err
	}
	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		return ToggleResult{}, notFoundOr(err, "评论")
	}
	return s.toggleReaction(ctx, actorID, model.SubjectComment, commentID, kind, nil)
}

func (s *engagementService) ToggleAnnouncementReaction(ctx context.Context, actorID, announcementID string, kind model.EngagementKind) (ToggleResult, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return ToggleResult{}, err
	}
	if _, err := s.announcementRepo.FindByID(ctx, announcementID); err != nil {
		return ToggleResult{}, notFoundOr(err, "公告")
	}
	return s.toggleReaction(ctx, actorID, model.SubjectAnnouncement, announcementID, kind, nil)
}

// checkView 播放的视频必须存在；匿名播放不校验actor
func (s *engagementService) checkView(ctx context.Context, actorID, videoID string) error {
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return notFoundOr(err, "视频")
	}
	if actorID == "" {
		return nil
	}
	return s.requireActor(ctx, actorID)
}

func (s *engagementService) RecordView(ctx context.Context, actorID, videoID string) error {
	if err := s.checkView(ctx, actorID, videoID); err != nil {
		return err
	}
	viewedAt := time.Now()
	if s.publisher != nil {
		return s.publisher.PublishView(ctx, actorID, videoID, viewedAt)
	}
	return s.persistView(ctx, actorID, videoID, viewedAt)
}

// 消息在队列里期间视频或用户可能已被删除，落库前再校验一次
func (s *engagementService) PersistView(ctx context.Context, actorID, videoID string, viewedAt time.Time) error {
	if err := s.checkView(ctx, actorID, videoID); err != nil {
		return err
	}
	return s.persistView(ctx, actorID, videoID, viewedAt)
}

// 播放只增不减，匿名播放actor为空；viewedAt为零值时用当前时间
func (s *engagementService) persistView(ctx context.Context, actorID, videoID string, viewedAt time.Time) error {
	var history *model.Playlist
	if actorID != "" {
		var err error
		history, err = upsertNamedPlaylist(ctx, s.playlistRepo, actorID, model.PlaylistHistory)
		if err != nil {
			return err
		}
	}
	return s.uow.Execute(ctx, func(repos *data.TransactionalRepositories) error {
		err := repos.EngagementRepo.Create(ctx, &model.EngagementEvent{
			CreatedAt:   viewedAt,
			SubjectType: model.SubjectVideo,
			SubjectID:   videoID,
			ActorID:     actorID,
			Kind:        model.KindView,
		})
		if err != nil {
			return err
		}
		if history == nil {
			return nil
		}
		return addMemberIfAbsent(ctx, repos.PlaylistRepo, history.ID, videoID)
	})
}
