package data

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/pkg/logger"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenMySQL 连接MySQL并迁移全部表。
// TranslateError让唯一索引冲突统一变成gorm.ErrDuplicatedKey，toggle和upsert依赖这一点
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		// SQL日志也走logrus，慢查询和错误才打印
		Logger: gormlogger.New(logger.Log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}
	// db.AutoMigrate(),没有这个表就创建,没有属性列则创建列,没有约束则增加约束;不会主动删除和修改
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return nil, err
	}
	return db, nil
}
