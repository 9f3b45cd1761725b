package service

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

// ToggleResult 开关操作走了哪个分支
type ToggleResult struct {
	// Active为true表示操作后关系存在（走了插入分支）
	Active bool
	// 删除分支实际删掉的行数
	Removed int64
	// 删掉了不止一行：历史遗留的重复数据被一并清理，操作本身仍然成功
	ConflictIgnored bool
}

// toggleEngagement 存在则删除全部匹配行，不存在则插入一行。
// repo应当是绑定了事务的副本；插入撞上唯一索引说明并发的另一次开关已经插入，按“已开启”处理。
func toggleEngagement(ctx context.Context, repo repository.EngagementRepository, actorID string, subjectType model.SubjectType, subjectID string, kind model.EngagementKind) (ToggleResult, error) {
	if !kind.Toggleable() {
		return ToggleResult{}, invalid("kind", "该互动类型不支持开关")
	}
	filter := repository.EngagementFilter{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		ActorID:     actorID,
		Kind:        kind,
	}
	exists, err := repo.Exists(ctx, filter)
	if err != nil {
		return ToggleResult{}, err
	}
	if exists {
		removed, err := repo.DeleteMany(ctx, filter)
		if err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Removed: removed, ConflictIgnored: removed > 1}, nil
	}

	err = repo.Create(ctx, &model.EngagementEvent{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		ActorID:     actorID,
		Kind:        kind,
	})
	if err != nil && !IsDuplicate(err) {
		return ToggleResult{}, err
	}
	return ToggleResult{Active: true}, nil
}

// toggleMembership 与toggleEngagement同样的契约，作用在播放列表成员上
func toggleMembership(ctx context.Context, repo repository.PlaylistRepository, playlistID, videoID string) (ToggleResult, error) {
	present, err := repo.HasMember(ctx, playlistID, videoID)
	if err != nil {
		return ToggleResult{}, err
	}
	if present {
		removed, err := repo.RemoveMember(ctx, playlistID, videoID)
		if err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Removed: removed, ConflictIgnored: removed > 1}, nil
	}
	if err := repo.AddMember(ctx, playlistID, videoID); err != nil && !IsDuplicate(err) {
		return ToggleResult{}, err
	}
	return ToggleResult{Active: true}, nil
}

// addMemberIfAbsent 只加不删，History和Liked Videos的同步用它
func addMemberIfAbsent(ctx context.Context, repo repository.PlaylistRepository, playlistID, videoID string) error {
	present, err := repo.HasMember(ctx, playlistID, videoID)
	if err != nil || present {
		return err
	}
	if err := repo.AddMember(ctx, playlistID, videoID); err != nil && !IsDuplicate(err) {
		return err
	}
	return nil
}

// upsertNamedPlaylist 按(userID, title)精确查找，找不到就创建一个不带描述的。
// 保留标题有reserved_key唯一索引，并发创建时输的一方会撞索引，此时重新查出赢家那一行。
// 不要在事务里调用：事务快照可能看不到并发提交的赢家。
func upsertNamedPlaylist(ctx context.Context, repo repository.PlaylistRepository, userID, title string) (*model.Playlist, error) {
	playlist, err := repo.FindByUserAndTitle(ctx, userID, title)
	if err == nil {
		return playlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.Playlist{UserID: userID, Title: title}
	if err := repo.Create(ctx, created); err != nil {
		if IsDuplicate(err) {
			return repo.FindByUserAndTitle(ctx, userID, title)
		}
		return nil, err
	}
	return repo.FindByID(ctx, created.ID)
}

type ownedEntity interface {
	OwnerID() string
}

// checkOwnership 先确认实体存在，再比较拥有者，所以NotFound优先于Forbidden
func checkOwnership[T ownedEntity](ctx context.Context, find func(context.Context, string) (T, error), id, callerID, what string) (T, error) {
	entity, err := find(ctx, id)
	if err != nil {
		var zero T
		return zero, notFoundOr(err, what)
	}
	if entity.OwnerID() != callerID {
		var zero T
		return zero, ErrForbidden
	}
	return entity, nil
}
