package data

import (
	"Orion_Tube/internal/repository"
	"context"

	"gorm.io/gorm"
)

// UnitOfWork 定义了事务管理器的接口
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行，并为它提供能在事务中工作的 Repositories。
	Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有所有需要在同一个事务中操作的 Repository。
type TransactionalRepositories struct {
	VideoRepo      repository.VideoRepository
	PlaylistRepo   repository.PlaylistRepository
	EngagementRepo repository.EngagementRepository
}

// db是事务的入口和管理者
type gormUnitOfWork struct {
	db             *gorm.DB
	videoRepo      repository.VideoRepository
	playlistRepo   repository.PlaylistRepository
	engagementRepo repository.EngagementRepository
}

// NewUnitOfWork 创建一个基于GORM的“工作单元”，接收的是原始的、非事务的 repositories。
func NewUnitOfWork(db *gorm.DB, videoRepo repository.VideoRepository, playlistRepo repository.PlaylistRepository, engagementRepo repository.EngagementRepository) UnitOfWork {
	return &gormUnitOfWork{
		db:             db,
		videoRepo:      videoRepo,
		playlistRepo:   playlistRepo,
		engagementRepo: engagementRepo,
	}
}

// fn返回error时回滚，返回nil时提交
func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 临时创建“一次性”的、绑定了这个事务的Repo副本
		return fn(&TransactionalRepositories{
			VideoRepo:      u.videoRepo.WithTx(tx),
			PlaylistRepo:   u.playlistRepo.WithTx(tx),
			EngagementRepo: u.engagementRepo.WithTx(tx),
		})
	})
}
