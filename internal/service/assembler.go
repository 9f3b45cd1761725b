package service

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"context"
)

var (
	videoCountKinds    = []model.EngagementKind{model.KindLike, model.KindDislike, model.KindView}
	reactionCountKinds = []model.EngagementKind{model.KindLike, model.KindDislike}
)

// ViewAssembler 把实体、实时计数和当前观看者的互动状态拼成前端要的视图。
// 每个计数/标记都是独立的一次查询，字段之间不保证同一快照。
type ViewAssembler struct {
	engagementRepo repository.EngagementRepository
	playlistRepo   repository.PlaylistRepository
}

func NewViewAssembler(engagementRepo repository.EngagementRepository, playlistRepo repository.PlaylistRepository) *ViewAssembler {
	return &ViewAssembler{
		engagementRepo: engagementRepo,
		playlistRepo:   playlistRepo,
	}
}

func (a *ViewAssembler) count(ctx context.Context, filter repository.EngagementFilter) (int64, error) {
	return a.engagementRepo.Count(ctx, filter)
}

// VideoCounts 单个视频的赞、踩、播放数
func (a *ViewAssembler) VideoCounts(ctx context.Context, videoID string) (dto.VideoCounts, error) {
	var counts dto.VideoCounts
	var err error
	base := repository.EngagementFilter{SubjectType: model.SubjectVideo, SubjectID: videoID}

	base.Kind = model.KindLike
	if counts.Likes, err = a.count(ctx, base); err != nil {
		return counts, err
	}
	base.Kind = model.KindDislike
	if counts.Dislikes, err = a.count(ctx, base); err != nil {
		return counts, err
	}
	base.Kind = model.KindView
	if counts.Views, err = a.count(ctx, base); err != nil {
		return counts, err
	}
	return counts, nil
}

// Followers 关注了userID的人数
func (a *ViewAssembler) Followers(ctx context.Context, userID string) (int64, error) {
	return a.count(ctx, repository.EngagementFilter{SubjectType: model.SubjectUser, SubjectID: userID, Kind: model.KindFollow})
}

// Followings userID关注了多少人
func (a *ViewAssembler) Followings(ctx context.Context, userID string) (int64, error) {
	return a.count(ctx, repository.EngagementFilter{SubjectType: model.SubjectUser, ActorID: userID, Kind: model.KindFollow})
}

func (a *ViewAssembler) has(ctx context.Context, viewerID string, subjectType model.SubjectType, subjectID string, kind model.EngagementKind) (bool, error) {
	if viewerID == "" {
		return false, nil
	}
	return a.engagementRepo.Exists(ctx, repository.EngagementFilter{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		ActorID:     viewerID,
		Kind:        kind,
	})
}

// HasFollowed 匿名观看者直接返回false，不查库
func (a *ViewAssembler) HasFollowed(ctx context.Context, viewerID, userID string) (bool, error) {
	return a.has(ctx, viewerID, model.SubjectUser, userID, model.KindFollow)
}

// VideoViewer 三个标记互相独立：赞过、踩过、关注了作者
func (a *ViewAssembler) VideoViewer(ctx context.Context, video *model.Video, viewerID string) (dto.VideoViewer, error) {
	var viewer dto.VideoViewer
	if viewerID == "" {
		return viewer, nil
	}
	var err error
	if viewer.HasLiked, err = a.has(ctx, viewerID, model.SubjectVideo, video.ID, model.KindLike); err != nil {
		return viewer, err
	}
	if viewer.HasDisliked, err = a.has(ctx, viewerID, model.SubjectVideo, video.ID, model.KindDislike); err != nil {
		return viewer, err
	}
	if viewer.HasFollowed, err = a.HasFollowed(ctx, viewerID, video.UserID); err != nil {
		return viewer, err
	}
	return viewer, nil
}

// ResolveVideoView 单个视频：实体+计数+观看者状态
func (a *ViewAssembler) ResolveVideoView(ctx context.Context, video *model.Video, viewerID string) (dto.VideoWithCounts, dto.VideoViewer, error) {
	counts, err := a.VideoCounts(ctx, video.ID)
	if err != nil {
		return dto.VideoWithCounts{}, dto.VideoViewer{}, err
	}
	viewer, err := a.VideoViewer(ctx, video, viewerID)
	if err != nil {
		return dto.VideoWithCounts{}, dto.VideoViewer{}, err
	}
	return dto.VideoWithCounts{VideoResponse: dto.ToVideoResponse(video), VideoCounts: counts}, viewer, nil
}

// UserWithFollowers 作者信息+粉丝数
func (a *ViewAssembler) UserWithFollowers(ctx context.Context, user *model.User) (dto.UserWithFollowers, error) {
	followers, err := a.Followers(ctx, user.ID)
	if err != nil {
		return dto.UserWithFollowers{}, err
	}
	return dto.UserWithFollowers{UserResponse: dto.ToUserResponse(user), Followers: followers}, nil
}

// ResolveChannelView 频道页：粉丝数、关注数、观看者是否已关注
func (a *ViewAssembler) ResolveChannelView(ctx context.Context, user *model.User, viewerID string) (*dto.ChannelView, error) {
	followers, err := a.Followers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	followings, err := a.Followings(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	hasFollowed, err := a.HasFollowed(ctx, viewerID, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.ChannelView{
		User: dto.ChannelUser{
			UserResponse: dto.ToUserResponse(user),
			Followers:    followers,
			Followings:   followings,
		},
		Viewer: dto.ChannelViewer{HasFollowed: hasFollowed},
	}, nil
}

// ResolveVideoCollection 列表版本：保持videos的原有顺序，返回等长的视频列表和作者列表。
// 计数用一条GROUP BY批量取，结果与逐个COUNT相同；有观看者时再批量取赞/踩/关注标记。
func (a *ViewAssembler) ResolveVideoCollection(ctx context.Context, videos []model.Video, viewerID string) ([]dto.VideoWithCounts, []dto.UserResponse, error) {
	result := make([]dto.VideoWithCounts, 0, len(videos))
	authors := make([]dto.UserResponse, 0, len(videos))
	if len(videos) == 0 {
		return result, authors, nil
	}

	videoIDs := make([]string, 0, len(videos))
	authorIDs := make([]string, 0, len(videos))
	for i := range videos {
		videoIDs = append(videoIDs, videos[i].ID)
		authorIDs = append(authorIDs, videos[i].UserID)
	}

	counts, err := a.engagementRepo.CountBySubjects(ctx, model.SubjectVideo, videoIDs, videoCountKinds...)
	if err != nil {
		return nil, nil, err
	}

	var reactions, follows repository.SubjectFlags
	if viewerID != "" {
		if reactions, err = a.engagementRepo.FlagsByActor(ctx, viewerID, model.SubjectVideo, videoIDs, reactionCountKinds...); err != nil {
			return nil, nil, err
		}
		if follows, err = a.engagementRepo.FlagsByActor(ctx, viewerID, model.SubjectUser, authorIDs, model.KindFollow); err != nil {
			return nil, nil, err
		}
	}

	for i := range videos {
		v := &videos[i]
		item := dto.VideoWithCounts{
			VideoResponse: dto.ToVideoResponse(v),
			VideoCounts: dto.VideoCounts{
				Likes:    counts.Get(v.ID, model.KindLike),
				Dislikes: counts.Get(v.ID, model.KindDislike),
				Views:    counts.Get(v.ID, model.KindView),
			},
		}
		if viewerID != "" {
			item.Viewer = &dto.VideoViewer{
				HasLiked:    reactions.Has(v.ID, model.KindLike),
				HasDisliked: reactions.Has(v.ID, model.KindDislike),
				HasFollowed: follows.Has(v.UserID, model.KindFollow),
			}
		}
		result = append(result, item)
		authors = append(authors, dto.ToVideoAuthor(v))
	}
	return result, authors, nil
}

// reactionCollection 评论/公告共用：批量取赞踩计数和观看者标记
func (a *ViewAssembler) reactionCollection(ctx context.Context, subjectType model.SubjectType, ids []string, viewerID string) (repository.SubjectCounts, repository.SubjectFlags, error) {
	counts, err := a.engagementRepo.CountBySubjects(ctx, subjectType, ids, reactionCountKinds...)
	if err != nil {
		return nil, nil, err
	}
	flags, err := a.engagementRepo.FlagsByActor(ctx, viewerID, subjectType, ids, reactionCountKinds...)
	if err != nil {
		return nil, nil, err
	}
	return counts, flags, nil
}

func reactionViewer(flags repository.SubjectFlags, id, viewerID string) *dto.ReactionViewer {
	if viewerID == "" {
		return nil
	}
	return &dto.ReactionViewer{
		HasLiked:    flags.Has(id, model.KindLike),
		HasDisliked: flags.Has(id, model.KindDislike),
	}
}

// ResolveCommentCollection 评论列表，每条带作者和赞踩数
func (a *ViewAssembler) ResolveCommentCollection(ctx context.Context, comments []model.Comment, viewerID string) ([]dto.CommentWithUser, error) {
	result := make([]dto.CommentWithUser, 0, len(comments))
	if len(comments) == 0 {
		return result, nil
	}
	ids := make([]string, 0, len(comments))
	for i := range comments {
		ids = append(ids, comments[i].ID)
	}
	counts, flags, err := a.reactionCollection(ctx, model.SubjectComment, ids, viewerID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		c := &comments[i]
		resp := dto.ToCommentResponse(c)
		resp.Likes = counts.Get(c.ID, model.KindLike)
		resp.Dislikes = counts.Get(c.ID, model.KindDislike)
		resp.Viewer = reactionViewer(flags, c.ID, viewerID)
		result = append(result, dto.CommentWithUser{User: dto.ToUserResponse(&c.User), Comment: resp})
	}
	return result, nil
}

// ResolveAnnouncementCollection 公告列表，作者列表与公告按下标对应
func (a *ViewAssembler) ResolveAnnouncementCollection(ctx context.Context, announcements []model.Announcement, viewerID string) ([]dto.AnnouncementResponse, []dto.UserResponse, error) {
	result := make([]dto.AnnouncementResponse, 0, len(announcements))
	users := make([]dto.UserResponse, 0, len(announcements))
	if len(announcements) == 0 {
		return result, users, nil
	}
	ids := make([]string, 0, len(announcements))
	for i := range announcements {
		ids = append(ids, announcements[i].ID)
	}
	counts, flags, err := a.reactionCollection(ctx, model.SubjectAnnouncement, ids, viewerID)
	if err != nil {
		return nil, nil, err
	}
	for i := range announcements {
		an := &announcements[i]
		resp := dto.ToAnnouncementResponse(an)
		resp.Likes = counts.Get(an.ID, model.KindLike)
		resp.Dislikes = counts.Get(an.ID, model.KindDislike)
		resp.Viewer = reactionViewer(flags, an.ID, viewerID)
		result = append(result, resp)
		users = append(users, dto.ToUserResponse(&an.User))
	}
	return result, users, nil
}

// ResolvePlaylistSummaries 给每个播放列表补上videoCount和封面（第一个加入的视频的缩略图）
func (a *ViewAssembler) ResolvePlaylistSummaries(ctx context.Context, playlists []model.Playlist) ([]dto.PlaylistResponse, error) {
	result := make([]dto.PlaylistResponse, 0, len(playlists))
	if len(playlists) == 0 {
		return result, nil
	}
	ids := make([]string, 0, len(playlists))
	for i := range playlists {
		ids = append(ids, playlists[i].ID)
	}
	counts, err := a.playlistRepo.CountMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	firsts, err := a.playlistRepo.FirstMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range playlists {
		p := &playlists[i]
		resp := dto.ToPlaylistResponse(p)
		resp.VideoCount = counts[p.ID]
		if first, ok := firsts[p.ID]; ok && first.Video.ID != "" {
			thumbnail := first.Video.ThumbnailURL
			resp.PlaylistThumbnail = &thumbnail
		}
		result = append(result, resp)
	}
	return result, nil
}

// ResolvePlaylistView 播放列表详情：派生字段、成员视频（插入顺序）、作者、拥有者+粉丝数
func (a *ViewAssembler) ResolvePlaylistView(ctx context.Context, playlist *model.Playlist, viewerID string) (*dto.PlaylistDetail, error) {
	summaries, err := a.ResolvePlaylistSummaries(ctx, []model.Playlist{*playlist})
	if err != nil {
		return nil, err
	}
	members, err := a.playlistRepo.Members(ctx, playlist.ID)
	if err != nil {
		return nil, err
	}
	videos := make([]model.Video, 0, len(members))
	for _, m := range members {
		// 被软删除的视频preload不出来，跳过
		if m.Video.ID == "" {
			continue
		}
		videos = append(videos, m.Video)
	}
	items, authors, err := a.ResolveVideoCollection(ctx, videos, viewerID)
	if err != nil {
		return nil, err
	}
	owner, err := a.UserWithFollowers(ctx, &playlist.User)
	if err != nil {
		return nil, err
	}
	return &dto.PlaylistDetail{
		Playlist: summaries[0],
		Videos:   items,
		Authors:  authors,
		User:     owner,
		State:    dto.StateOf(len(items)),
	}, nil
}
