package service

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"context"
	"strings"
)

type CommentService interface {
	// 在视频下发表评论
	AddComment(ctx context.Context, userID, videoID, message string) (*dto.CommentWithUser, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	userRepo    repository.UserRepository
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository, userRepo repository.UserRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		userRepo:    userRepo,
	}
}

// 发表评论：1、内容不能为空 2、视频和评论者必须存在 3、创建后带着作者重新查出来
func (s *commentService) AddComment(ctx context.Context, userID, videoID, message string) (*dto.CommentWithUser, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, invalid("message", "不能为空")
	}
	if _, err := s.videoRepo.FindByID(ctx, videoID); err != nil {
		return nil, notFoundOr(err, "视频")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "用户")
	}
	comment := &model.Comment{UserID: userID, VideoID: videoID, Message: message}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	// FindByID会Preload出作者
	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CommentWithUser{User: dto.ToUserResponse(&created.User), Comment: dto.ToCommentResponse(created)}, nil
}
