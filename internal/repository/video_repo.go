package repository

import (
	"Orion_Tube/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// VideoFilter 列表查询条件，零值字段不参与过滤
type VideoFilter struct {
	UserID        string
	PublishedOnly bool
	TitleContains string
	Limit         int
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	FindByID(ctx context.Context, videoID string) (*model.Video, error)
	FindMany(ctx context.Context, filter VideoFilter) ([]model.Video, error)
	Count(ctx context.Context, filter VideoFilter) (int64, error)
	Update(ctx context.Context, videoID string, fields map[string]interface{}) error
	Delete(ctx context.Context, videoID string) error

	// 缓存只存视频实体本身，计数永远实时COUNT
	GetVideoCache(ctx context.Context, videoID string) (*model.Video, error)
	SetVideoCache(ctx context.Context, video *model.Video) error
	DeleteVideoCache(ctx context.Context, videoID string) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
}

// rdb可以为nil，此时缓存相关方法都是空操作
func NewVideoRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) VideoRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &videoRepository{
		db:  db,
		rdb: rdb,
		ttl: ttl,
	}
}

// WithTx 返回一个绑定事务的副本，事务里不操作Redis
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{
		db:  tx,
		ttl: r.ttl,
	}
}

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// 利用videoID找视频，preload其中的作者
func (r *videoRepository) FindByID(ctx context.Context, videoID string) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", videoID).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// MySQL默认把反斜杠当转义符，ESCAPE用'!'在MySQL和SQLite上写法一致
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *videoRepository) scoped(ctx context.Context, filter VideoFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Video{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.PublishedOnly {
		q = q.Where("publish = ?", true)
	}
	if filter.TitleContains != "" {
		// 用户输入按字面匹配，%和_不当作通配符
		q = q.Where("title LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(filter.TitleContains)+"%")
	}
	return q
}

// 按时间倒序查询视频列表，同一时刻创建的再按ID排，保证顺序稳定
func (r *videoRepository) FindMany(ctx context.Context, filter VideoFilter) ([]model.Video, error) {
	var videos []model.Video
	q := r.scoped(ctx, filter).Preload("User").Order("created_at desc").Order("id asc")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *videoRepository) Count(ctx context.Context, filter VideoFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, filter).Count(&count).Error
	return count, err
}

// 只更新传入的列，map可以把publish=false这种零值也写进去
func (r *videoRepository) Update(ctx context.Context, videoID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", videoID).Updates(fields).Error
}

// 软删除
func (r *videoRepository) Delete(ctx context.Context, videoID string) error {
	return r.db.WithContext(ctx).Where("id = ?", videoID).Delete(&model.Video{}).Error
}

// 返回存储单个视频信息的字符串Key
func (r *videoRepository) keyVideoInfo(videoID string) string {
	return fmt.Sprintf("video:info:%s", videoID)
}

// 从Redis缓存中获取单个Video：缓存不存在但Redis正常时返回(nil, nil)
func (r *videoRepository) GetVideoCache(ctx context.Context, videoID string) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil
	}
	videoJSON, err := r.rdb.Get(ctx, r.keyVideoInfo(videoID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err // Redis本身出错了
	}
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// 将单个视频存入Redis缓存，过期时间加上随机抖动防止缓存雪崩。
// 作者资料会被单独修改，不进缓存
func (r *videoRepository) SetVideoCache(ctx context.Context, video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	cached := *video
	cached.User = model.User{}
	videoJSON, err := json.Marshal(&cached)
	if err != nil {
		return err
	}
	expiration := r.ttl + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(ctx, r.keyVideoInfo(video.ID), videoJSON, expiration).Err()
}

// 视频被修改、发布或删除后必须失效缓存
func (r *videoRepository) DeleteVideoCache(ctx context.Context, videoID string) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(ctx, r.keyVideoInfo(videoID)).Err()
}
