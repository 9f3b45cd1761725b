package main

import (
	"Orion_Tube/internal/config"
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedConfig struct {
	Users       int
	Videos      int
	Engagements int
	Views       int
	Comments    int
}

type seedResult struct {
	UserIDs  []string
	VideoIDs []string
}

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 配置加载失败: %v", err)
	}
	db, err := data.OpenMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// 为了确保每次填充都是干净的，先删除旧表再重建。注意：这将删除所有数据！
	fmt.Println("🧹 正在清理旧数据...")
	if err := db.Migrator().DropTable(model.AllModels()...); err != nil {
		log.Fatalf("❌ 删除旧表失败: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		log.Fatalf("❌ 数据库迁移失败: %v", err)
	}

	result, err := seed(db, seedConfig{Users: 100, Videos: 500, Engagements: 2000, Views: 5000, Comments: 1000})
	if err != nil {
		log.Fatalf("❌ 填充数据失败: %v", err)
	}

	// 没有登录接口，给前几个用户签发开发用的token
	fmt.Println("🔑 开发用token（72小时有效）:")
	for _, userID := range result.UserIDs[:3] {
		token, err := devToken(cfg.JWTSecretKey, userID)
		if err != nil {
			log.Fatalf("❌ 签发token失败: %v", err)
		}
		fmt.Printf("   %s  Bearer %s\n", userID, token)
	}
	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}

func seed(db *gorm.DB, cfg seedConfig) (*seedResult, error) {
	ctx := context.Background()
	result := &seedResult{}

	fmt.Println("👥 正在创建用户...")
	for i := 0; i < cfg.Users; i++ {
		user := model.User{
			Name:        faker.Name(),
			Email:       faker.Email(),
			Handle:      faker.Username(),
			Image:       faker.URL(),
			Description: faker.Sentence(),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		result.UserIDs = append(result.UserIDs, user.ID)
	}

	fmt.Println("🎬 正在创建视频...")
	for i := 0; i < cfg.Videos; i++ {
		video := model.Video{
			// 从已创建的用户中，随机选择一个作为作者
			UserID:       pick(result.UserIDs),
			Title:        faker.Sentence(),  // 生成一个随机的句子作为标题
			Description:  faker.Paragraph(), // 生成一个随机的段落作为简介
			VideoURL:     "https://test.com/video.mp4",
			ThumbnailURL: "https://test.com/cover.jpg",
			// 大约八成的视频是公开的
			Publish: rand.Intn(10) < 8,
		}
		if err := db.Create(&video).Error; err != nil {
			return nil, err
		}
		result.VideoIDs = append(result.VideoIDs, video.ID)
	}
	if len(result.UserIDs) == 0 || len(result.VideoIDs) == 0 {
		return result, nil
	}

	fmt.Println("👍 正在创建随机点赞/点踩/关注...")
	// 和线上逻辑保持一致：同一个人对同一个视频只有赞或踩其一，赞过的视频在他的“Liked Videos”里
	playlistRepo := repository.NewPlaylistRepository(db)
	reacted := make(map[string]bool)
	likedPlaylists := make(map[string]*model.Playlist)
	for i := 0; i < cfg.Engagements; i++ {
		actorID := pick(result.UserIDs)
		event := model.EngagementEvent{ActorID: actorID}
		switch rand.Intn(3) {
		case 0, 1:
			videoID := pick(result.VideoIDs)
			if reacted[actorID+":"+videoID] {
				continue
			}
			reacted[actorID+":"+videoID] = true
			event.SubjectType, event.SubjectID, event.Kind = model.SubjectVideo, videoID, model.KindLike
			if rand.Intn(3) == 0 {
				event.Kind = model.KindDislike
			}
		default:
			target := pick(result.UserIDs)
			if target == actorID {
				continue
			}
			event.SubjectType, event.SubjectID, event.Kind = model.SubjectUser, target, model.KindFollow
		}
		event.DedupKey = model.DedupKeyFor(event.ActorID, event.SubjectType, event.SubjectID, event.Kind)
		// 使用GORM的OnConflict来避免因为重复关注而报错：唯一键冲突时什么都不做
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).Create(&event).Error
		if err != nil {
			return nil, err
		}
		if event.Kind == model.KindLike {
			if err := addLikedVideo(ctx, playlistRepo, likedPlaylists, actorID, event.SubjectID); err != nil {
				return nil, err
			}
		}
	}

	fmt.Println("👀 正在创建播放记录...")
	views := make([]model.EngagementEvent, 0, cfg.Views)
	for i := 0; i < cfg.Views; i++ {
		views = append(views, model.EngagementEvent{
			SubjectType: model.SubjectVideo,
			SubjectID:   pick(result.VideoIDs),
			ActorID:     pick(result.UserIDs),
			Kind:        model.KindView,
		})
	}
	if len(views) > 0 {
		if err := db.CreateInBatches(views, 500).Error; err != nil {
			return nil, err
		}
	}

	fmt.Println("💬 正在创建评论...")
	for i := 0; i < cfg.Comments; i++ {
		comment := model.Comment{
			VideoID: pick(result.VideoIDs),
			UserID:  pick(result.UserIDs),
			Message: faker.Sentence(),
		}
		if err := db.Create(&comment).Error; err != nil {
			return nil, err
		}
	}

	fmt.Printf("✅ 用户%d、视频%d、互动%d、播放%d、评论%d\n", len(result.UserIDs), len(result.VideoIDs), cfg.Engagements, cfg.Views, cfg.Comments)
	return result, nil
}

// addLikedVideo 把视频加入actor的“Liked Videos”，播放列表第一次用到时创建
func addLikedVideo(ctx context.Context, repo repository.PlaylistRepository, playlists map[string]*model.Playlist, actorID, videoID string) error {
	playlist, ok := playlists[actorID]
	if !ok {
		playlist = &model.Playlist{UserID: actorID, Title: model.PlaylistLikedVideos}
		if err := repo.Create(ctx, playlist); err != nil {
			return err
		}
		playlists[actorID] = playlist
	}
	return repo.AddMember(ctx, playlist.ID, videoID)
}

func pick(ids []string) string {
	return ids[rand.Intn(len(ids))]
}

// devToken 与middleware校验的格式一致：HS256，user_id为字符串
func devToken(secret, userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 72).Unix(), // 过期时间，这里设置为72小时
		"iat":     time.Now().Unix(),                     // 签发时间
	}
	// token加上Header，算法信息HS256，对称加密
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
