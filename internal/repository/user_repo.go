package repository

import (
	"Orion_Tube/internal/model"
	"context"

	"gorm.io/gorm"
)

// 用户仓库接口：插入、按ID查找、批量查找、更新资料
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindByIDs(ctx context.Context, userIDs []string) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var result model.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&result).Error; err != nil {
		return nil, err // 如果有错（包括没找到），直接返回
	}
	return &result, nil
}

// 批量查找，返回顺序与数据库一致，调用方自己按ID建索引
func (r *userRepository) FindByIDs(ctx context.Context, userIDs []string) ([]model.User, error) {
	var users []model.User
	if len(userIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	return users, err
}

// Save会写回全部字段，调用方负责先合并好可选字段
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
