package service

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"context"
	"strings"
)

// UpdateUserInput nil表示不修改
type UpdateUserInput struct {
	Name            *string
	Handle          *string
	Description     *string
	Image           *string
	BackgroundImage *string
}

// 频道（用户）服务：频道页、关注列表、创作者面板、修改资料
type UserService interface {
	GetChannelByID(ctx context.Context, userID, viewerID string) (*dto.ChannelView, error)
	GetUserFollowings(ctx context.Context, userID, viewerID string) (*dto.FollowingsView, error)
	GetDashboard(ctx context.Context, callerID string) (*dto.DashboardView, error)
	UpdateUser(ctx context.Context, callerID string, input UpdateUserInput) (*model.User, error)
}

type userService struct {
	userRepo       repository.UserRepository
	videoRepo      repository.VideoRepository
	engagementRepo repository.EngagementRepository
	assembler      *ViewAssembler
}

func NewUserService(userRepo repository.UserRepository, videoRepo repository.VideoRepository, engagementRepo repository.EngagementRepository, assembler *ViewAssembler) UserService {
	return &userService{
		userRepo:       userRepo,
		videoRepo:      videoRepo,
		engagementRepo: engagementRepo,
		assembler:      assembler,
	}
}

func (s *userService) GetChannelByID(ctx context.Context, userID, viewerID string) (*dto.ChannelView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "用户")
	}
	return s.assembler.ResolveChannelView(ctx, user, viewerID)
}

// 关注列表：按关注的先后顺序，每个被关注者带粉丝数，以及观看者是否也关注了他
func (s *userService) GetUserFollowings(ctx context.Context, userID, viewerID string) (*dto.FollowingsView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "用户")
	}
	events, err := s.engagementRepo.FindMany(ctx, repository.EngagementFilter{
		SubjectType: model.SubjectUser,
		ActorID:     userID,
		Kind:        model.KindFollow,
	})
	if err != nil {
		return nil, err
	}
	followedIDs := make([]string, 0, len(events))
	for _, e := range events {
		followedIDs = append(followedIDs, e.SubjectID)
	}

	users, err := s.userRepo.FindByIDs(ctx, followedIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	followers, err := s.engagementRepo.CountBySubjects(ctx, model.SubjectUser, followedIDs, model.KindFollow)
	if err != nil {
		return nil, err
	}
	flags, err := s.engagementRepo.FlagsByActor(ctx, viewerID, model.SubjectUser, followedIDs, model.KindFollow)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.FollowingEntry, 0, len(followedIDs))
	for _, id := range followedIDs {
		followed, ok := byID[id]
		// 被关注的用户已经不存在
		if !ok {
			continue
		}
		entries = append(entries, dto.FollowingEntry{
			User: dto.UserWithFollowers{
				UserResponse: dto.ToUserResponse(followed),
				Followers:    followers.Get(id, model.KindFollow),
			},
			ViewerHasFollowed: flags.Has(id, model.KindFollow),
		})
	}
	return &dto.FollowingsView{
		User:       dto.ToUserResponse(user),
		Followings: entries,
		State:      dto.StateOf(len(entries)),
	}, nil
}

// 创作者面板：自己的全部视频（含未公开）及其计数，外加总赞数、总播放数、粉丝数
func (s *userService) GetDashboard(ctx context.Context, callerID string) (*dto.DashboardView, error) {
	user, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, notFoundOr(err, "用户")
	}
	videos, err := s.videoRepo.FindMany(ctx, repository.VideoFilter{UserID: callerID})
	if err != nil {
		return nil, err
	}
	items, _, err := s.assembler.ResolveVideoCollection(ctx, videos, "")
	if err != nil {
		return nil, err
	}
	followers, err := s.assembler.Followers(ctx, callerID)
	if err != nil {
		return nil, err
	}

	view := &dto.DashboardView{
		User:           dto.ToUserResponse(user),
		TotalFollowers: followers,
		Videos:         items,
	}
	for _, item := range items {
		view.TotalLikes += item.Likes
		view.TotalViews += item.Views
	}
	return view, nil
}

// 只能改自己的资料，未提供的字段保持原值
func (s *userService) UpdateUser(ctx context.Context, callerID string, input UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, notFoundOr(err, "用户")
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalid("name", "不能为空")
		}
		user.Name = name
	}
	if input.Handle != nil {
		user.Handle = strings.TrimSpace(*input.Handle)
	}
	if input.Description != nil {
		user.Description = *input.Description
	}
	if input.Image != nil {
		user.Image = *input.Image
	}
	if input.BackgroundImage != nil {
		user.BackgroundImage = *input.BackgroundImage
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
