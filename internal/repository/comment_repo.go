package repository

import (
	"Orion_Tube/internal/model"
	"context"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, commentID string) (*model.Comment, error)
	// 一个视频下的全部评论，按时间正序
	FindByVideo(ctx context.Context, videoID string) ([]model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// 利用commentID找comment，并顺便把作者Preload进去
func (r *commentRepository) FindByID(ctx context.Context, commentID string) (*model.Comment, error) {
	var result model.Comment
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", commentID).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *commentRepository) FindByVideo(ctx context.Context, videoID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("video_id = ?", videoID).
		Order("created_at asc").
		Order("id asc").
		Find(&comments).Error
	return comments, err
}
