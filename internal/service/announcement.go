package service

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"context"
	"strings"
)

type AnnouncementService interface {
	AddAnnouncement(ctx context.Context, userID, message string) (*model.Announcement, error)
	GetAnnouncementsByUser(ctx context.Context, userID, viewerID string) (*dto.AnnouncementList, error)
}

type announcementService struct {
	announcementRepo repository.AnnouncementRepository
	userRepo         repository.UserRepository
	assembler        *ViewAssembler
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository, userRepo repository.UserRepository, assembler *ViewAssembler) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		assembler:        assembler,
	}
}

func (s *announcementService) AddAnnouncement(ctx context.Context, userID, message string) (*model.Announcement, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, invalid("message", "不能为空")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "用户")
	}
	announcement := &model.Announcement{UserID: userID, Message: message}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

// 频道公告，最新的在前
func (s *announcementService) GetAnnouncementsByUser(ctx context.Context, userID, viewerID string) (*dto.AnnouncementList, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "用户")
	}
	announcements, err := s.announcementRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, users, err := s.assembler.ResolveAnnouncementCollection(ctx, announcements, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.AnnouncementList{Announcements: items, Users: users, State: dto.StateOf(len(items))}, nil
}
