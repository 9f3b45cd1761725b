package main

import (
	"Orion_Tube/internal/config"
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/repository"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/logger"
	"Orion_Tube/pkg/rabbitmq"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streadway/amqp"
)

type viewPersister interface {
	PersistView(ctx context.Context, actorID, videoID string, viewedAt time.Time) error
}

// 消费者进程：连接mysql和rabbitMQ，把异步投递的播放记录落库
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	if err := logger.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}

	db, err := data.OpenMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	rabbitMQConn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()

	// 事务中不操作Redis，消费者也用不到缓存，所以rdb传nil
	videoRepo := repository.NewVideoRepository(db, nil, cfg.VideoCacheTTL)
	playlistRepo := repository.NewPlaylistRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	uow := data.NewUnitOfWork(db, videoRepo, playlistRepo, engagementRepo)
	engagementService := service.NewEngagementService(
		repository.NewUserRepository(db),
		videoRepo,
		repository.NewCommentRepository(db),
		repository.NewAnnouncementRepository(db),
		playlistRepo,
		uow,
		nil,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := consumeViews(ctx, rabbitMQConn, engagementService); err != nil {
		logger.Log.Fatalf("播放消费者异常退出: %v", err)
	}
}

// 播放消息队列消费者：1、通过mq的TCP连接创建channel 2、声明队列并注册消费者 3、逐条处理直到ctx结束
func consumeViews(ctx context.Context, conn *amqp.Connection, persister viewPersister) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	if err := rabbitmq.DeclareViewQueue(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(
		rabbitmq.QueueView, // queue
		"",                 // consumer
		false,              // auto-ack: 处理完再手动确认
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,                // args
	)
	if err != nil {
		return err
	}

	logger.Log.Info(" [*] 等待播放消息中. 按 CTRL+C 退出")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			handleView(ctx, persister, d)
		}
	}
}

// handleView 根据落库结果决定如何确认消息：坏消息和引用已不存在的消息直接丢弃，重复消费视为成功，其他错误重新入队
func handleView(ctx context.Context, persister viewPersister, d amqp.Delivery) {
	logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)

	var msg rabbitmq.ViewMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil || msg.VideoID == "" {
		logCtx.WithError(err).Error("消息JSON解析失败")
		// 对于无法解析的“坏消息”，通知mq处理失败，并直接删除
		_ = d.Nack(false, false)
		return
	}
	logCtx = logCtx.WithField("actor_id", msg.ActorID).WithField("video_id", msg.VideoID)

	if err := persister.PersistView(ctx, msg.ActorID, msg.VideoID, msg.ViewedAt); err != nil {
		if service.IsDuplicate(err) {
			logCtx.WithError(err).Warn("处理消息时出现重复键错误，可能是一次重复消费，消息将被确认为成功。")
			_ = d.Ack(false)
			return
		}
		if isPermanent(err) {
			logCtx.WithError(err).Warn("视频或用户已不存在，消息将被丢弃")
			_ = d.Nack(false, false)
			return
		}
		logCtx.WithError(err).Error("处理消息失败，将进行重试")
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

// isPermanent 重新投递也不会成功的错误
func isPermanent(err error) bool {
	return errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrValidation) || service.IsForeignKeyViolation(err)
}
