package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/streadway/amqp"
)

const QueueView = "orion_tube.view.queue"

// ViewMessage 一次播放，actor为空表示匿名
type ViewMessage struct {
	ActorID  string    `json:"actor_id"`
	VideoID  string    `json:"video_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// InitRabbitMQ 初始化RabbitMQ连接
func InitRabbitMQ(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// DeclareViewQueue 生产者和消费者都会调用，队列参数必须一致
func DeclareViewQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		QueueView, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	return err
}

// ViewPublisher 每次发布都开一个短命的channel，amqp.Channel不能在goroutine之间共享
type ViewPublisher struct {
	conn *amqp.Connection
}

// NewViewPublisher 启动时声明一次队列
func NewViewPublisher(conn *amqp.Connection) (*ViewPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if err := DeclareViewQueue(ch); err != nil {
		return nil, err
	}
	return &ViewPublisher{conn: conn}, nil
}

func (p *ViewPublisher) PublishView(ctx context.Context, actorID, videoID string, viewedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(ViewMessage{ActorID: actorID, VideoID: videoID, ViewedAt: viewedAt})
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		"",        // exchange
		QueueView, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // 确保消息持久化
			Timestamp:    viewedAt,
		})
}
