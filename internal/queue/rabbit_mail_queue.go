package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"auralink/internal/model"
	"auralink/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// MailRoutingKey 通知信的 routing key
const MailRoutingKey = "mail.notification"

type RabbitMailQueueImpl struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	queue    string
}

// NewRabbitMailQueue 宣告 topic exchange 與 durable queue 並綁定
func NewRabbitMailQueue(url, exchange, queueName string) (*RabbitMailQueueImpl, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, MailRoutingKey, exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind %s: %w", MailRoutingKey, err)
	}
	return &RabbitMailQueueImpl{conn: conn, ch: ch, exchange: exchange, queue: q.Name}, nil
}

func (q *RabbitMailQueueImpl) PublishMail(ctx context.Context, mail *model.Mail) error {
	b, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}
	return q.ch.PublishWithContext(ctx, q.exchange, MailRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    mail.ID.String(),
		Body:         b,
	})
}

func (q *RabbitMailQueueImpl) SubscribeMails(ctx context.Context) (<-chan Delivery, error) {
	msgs, err := q.ch.ConsumeWithContext(ctx, q.queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				d, ok := toDelivery(msg)
				if !ok {
					continue
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// toDelivery 無法解析的消息直接丟棄
func toDelivery(msg amqp.Delivery) (Delivery, bool) {
	var mail model.Mail
	if err := json.Unmarshal(msg.Body, &mail); err != nil {
		logger.WithComponent("mq").Warn("unmarshal mail failed", zap.String("message_id", msg.MessageId), zap.Error(err))
		_ = msg.Nack(false, false)
		return Delivery{}, false
	}
	return Delivery{
		Data: &mail,
		Ack: func() {
			if err := msg.Ack(false); err != nil {
				logger.WithComponent("mq").Error("ack failed", zap.String("message_id", msg.MessageId), zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			// 已重送過的消息不再放回，避免無限重試
			if err := msg.Nack(false, requeue && !msg.Redelivered); err != nil {
				logger.WithComponent("mq").Error("nack failed", zap.String("message_id", msg.MessageId), zap.Error(err))
			}
		},
	}, true
}

func (q *RabbitMailQueueImpl) Close() error {
	if q.ch != nil {
		_ = q.ch.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}
