package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// EmailQueue 承载账号与验证码邮件，由 cmd/mail 消费。
	EmailQueue = "email_queue"
	// NotificationQueue 承载通知分发消息，由 cmd/notifier 消费。
	NotificationQueue = "notification_queue"
)

// Publisher 抽象消息发布，使 handler 在测试中可以注入桩实现。
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

type AMQPPublisher struct {
	ch *amqp.Channel
}

func NewAMQPPublisher(ch *amqp.Channel) *AMQPPublisher {
	return &AMQPPublisher{ch: ch}
}

func (p *AMQPPublisher) Publish(ctx context.Context, queue string, body []byte) error {
	return p.ch.PublishWithContext(
		ctx,
		"",
		queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// DeclareQueues 声明本系统使用的所有队列，api 与各 worker 启动时都会调用，
// 保证无论哪个进程先启动队列都存在。
func DeclareQueues(ch *amqp.Channel) error {
	for _, name := range []string{EmailQueue, NotificationQueue} {
		if _, err := ch.QueueDeclare(
			name,
			true,
			false,
			false,
			false,
			nil,
		); err != nil {
			return err
		}
	}
	return nil
}
