package repository

import (
	"Orion_Tube/internal/model"
	"context"

	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *model.Announcement) error
	FindByID(ctx context.Context, announcementID string) (*model.Announcement, error)
	// 频道的公告，最新的在前
	FindByUser(ctx context.Context, userID string) ([]model.Announcement, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *model.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepository) FindByID(ctx context.Context, announcementID string) (*model.Announcement, error) {
	var result model.Announcement
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", announcementID).First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *announcementRepository) FindByUser(ctx context.Context, userID string) ([]model.Announcement, error) {
	var announcements []model.Announcement
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id asc").
		Find(&announcements).Error
	return announcements, err
}
