package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 对外暴露的ID都是不透明字符串，所以实体统一用UUID做主键，而不是自增整数
type BaseModel struct {
	ID        string `gorm:"primarykey;type:varchar(36)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// BeforeCreate 在INSERT之前补齐ID，调用方也可以自己预先指定
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// AllModels 是AutoMigrate需要的全部表，server、consumer、seeder和测试共用
func AllModels() []interface{} {
	return []interface{}{
		&User{}, &Video{}, &Playlist{}, &PlaylistVideo{},
		&EngagementEvent{}, &Comment{}, &Announcement{},
	}
}
