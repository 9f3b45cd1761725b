// Package dbtest 给各层测试提供一个迁移好的内存SQLite库和几条常用的造数函数
package dbtest

import (
	"Orion_Tube/internal/model"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 每个测试一个独立的内存库。
// 只开一个连接：SQLite的内存库按连接隔离，而且事务里必须只用事务句柄，否则会互相等待。
// SQLite默认不检查外键，这里打开，和MySQL上的约束保持一致
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{Name: name, Handle: "@" + name, Image: "https://img.test/" + name + ".png"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateVideo(t testing.TB, db *gorm.DB, userID, title string, publish bool) *model.Video {
	t.Helper()
	video := &model.Video{
		UserID:       userID,
		Title:        title,
		VideoURL:     "https://cdn.test/" + title + ".mp4",
		ThumbnailURL: "https://cdn.test/" + title + ".jpg",
		Publish:      publish,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

// CreateEvent 直接写一条互动记录，开关类会补上dedup_key
func CreateEvent(t testing.TB, db *gorm.DB, actorID string, subjectType model.SubjectType, subjectID string, kind model.EngagementKind) {
	t.Helper()
	require.NoError(t, db.Create(&model.EngagementEvent{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		ActorID:     actorID,
		Kind:        kind,
		DedupKey:    model.DedupKeyFor(actorID, subjectType, subjectID, kind),
	}).Error)
}
