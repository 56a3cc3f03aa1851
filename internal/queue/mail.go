package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/config"
	"github.com/sysu-ecnc-dev/attendance-reminder/backend/internal/domain"
)

const MailQueueName = "email_queue"

// MailQueue 把邮件消息投递到 RabbitMQ，由 cmd/mail 进程消费后发送
type MailQueue struct {
	cfg *config.Config
	ch  *amqp.Channel
}

func NewMailQueue(cfg *config.Config, ch *amqp.Channel) *MailQueue {
	return &MailQueue{
		cfg: cfg,
		ch:  ch,
	}
}

// Declare 声明队列，生产方和消费方都会调用，保证队列存在
func Declare(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		MailQueueName,
		true,  // 持久化
		false, // 不自动删除，避免没有消费者时队列被删掉
		false, // 非独占
		false, // 等待 RabbitMQ 确认
		nil,
	)
	return err
}

func (q *MailQueue) PublishMail(message *domain.MailMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(q.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return q.ch.PublishWithContext(
		ctx,
		"",
		MailQueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
