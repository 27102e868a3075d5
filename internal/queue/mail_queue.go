package queue

import (
	"context"

	"auralink/internal/model"
	apperrors "auralink/pkg/app_errors"
	"auralink/pkg/logger"

	"go.uber.org/zap"
)

type Delivery struct {
	Data *model.Mail
	Ack  func()
	Nack func(requeue bool)
}

type MailQueue interface {
	// 發送通知信到隊列
	PublishMail(ctx context.Context, mail *model.Mail) error
	// 訂閱通知信隊列
	SubscribeMails(ctx context.Context) (<-chan Delivery, error)
}

type envelope struct {
	mail     *model.Mail
	attempts int
}

type MailQueueImpl struct {
	// 使用 Go channel 作為程序內隊列
	ch       chan *envelope
	maxRetry int
}

func NewMailQueue(bufferSize, maxRetry int) MailQueue {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if maxRetry <= 0 {
		maxRetry = 5
	}
	return &MailQueueImpl{
		ch:       make(chan *envelope, bufferSize),
		maxRetry: maxRetry,
	}
}

// PublishMail 不阻塞請求，隊列滿時回傳 ErrQueueFull
func (q *MailQueueImpl) PublishMail(ctx context.Context, mail *model.Mail) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.ch <- &envelope{mail: mail}:
		return nil
	default:
		return apperrors.ErrQueueFull
	}
}

func (q *MailQueueImpl) SubscribeMails(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case env, ok := <-q.ch:
				if !ok {
					return
				}

				select {
				case out <- q.newDelivery(env):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (q *MailQueueImpl) newDelivery(env *envelope) Delivery {
	return Delivery{
		Data: env.mail,
		Ack:  func() { /* 記憶體版不用做特別動作 */ },
		Nack: func(requeue bool) {
			if !requeue {
				return
			}
			env.attempts++
			if env.attempts >= q.maxRetry {
				logger.WithComponent("mq").Warn("discard mail after retries",
					zap.String("mail_id", env.mail.ID.String()), zap.Int("retries", env.attempts))
				return
			}
			select {
			case q.ch <- env:
			default:
				logger.WithComponent("mq").Warn("queue full, drop requeued mail", zap.String("mail_id", env.mail.ID.String()))
			}
		},
	}
}
