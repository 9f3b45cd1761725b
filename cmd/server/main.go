package main

import (
	"Orion_Tube/internal/config"
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/handler"
	"Orion_Tube/internal/repository"
	"Orion_Tube/internal/router"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/logger"
	"Orion_Tube/pkg/rabbitmq"
	"Orion_Tube/pkg/redis"
	"log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	// 初始化Redis
	redisClient, err := redis.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Log.Fatalf("无法连接到Redis: %v", err)
	}
	defer redisClient.Close()
	logger.Log.Info("Redis连接成功")

	// 只有异步落库播放记录时才需要RabbitMQ
	var viewPublisher service.ViewPublisher
	if cfg.ViewAsync {
		rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Log.Fatalf("无法连接到RabbitMQ: %v", err)
		}
		defer rabbitMQConn.Close() // 确保程序退出时关闭连接
		publisher, err := rabbitmq.NewViewPublisher(rabbitMQConn)
		if err != nil {
			logger.Log.Fatalf("无法声明播放队列: %v", err)
		}
		viewPublisher = publisher
		logger.Log.Info("RabbitMQ连接成功，播放记录将异步落库")
	}

	db, err := data.OpenMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Log.Fatalf("无法连接或迁移数据库: %v", err)
	}
	logger.Log.Info("数据库连接成功")

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db, redisClient, cfg.VideoCacheTTL)
	playlistRepo := repository.NewPlaylistRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	uow := data.NewUnitOfWork(db, videoRepo, playlistRepo, engagementRepo)
	assembler := service.NewViewAssembler(engagementRepo, playlistRepo)

	userService := service.NewUserService(userRepo, videoRepo, engagementRepo, assembler)
	videoService := service.NewVideoService(videoRepo, userRepo, commentRepo, uow, assembler)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo, uow, assembler)
	engagementService := service.NewEngagementService(userRepo, videoRepo, commentRepo, announcementRepo, playlistRepo, uow, viewPublisher)
	commentService := service.NewCommentService(commentRepo, videoRepo, userRepo)
	announcementService := service.NewAnnouncementService(announcementRepo, userRepo, assembler)

	r := router.SetupRouter(
		cfg.JWTSecretKey,
		handler.NewUserHandler(userService),
		handler.NewVideoHandler(videoService),
		handler.NewPlaylistHandler(playlistService),
		handler.NewEngagementHandler(engagementService),
		handler.NewCommentHandler(commentService),
		handler.NewAnnouncementHandler(announcementService),
	)
	logger.Log.WithField("addr", cfg.HTTPAddr).Info("服务器启动")

	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Log.Fatalf("服务器启动失败: %v", err)
	}
}
