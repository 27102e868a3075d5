package worker

import (
	"context"
	"fmt"

	"auralink/internal/mailer"
	"auralink/internal/queue"
	"auralink/pkg/logger"

	"go.uber.org/zap"
)

type MailWorker interface {
	// 訂閱通知信隊列，直到 ctx 結束
	Start(ctx context.Context) error
	// Done 在所有已收到的消息處理完後關閉
	Done() <-chan struct{}
}

type MailWorkerImpl struct {
	mailer mailer.Mailer
	queue  queue.MailQueue
	done   chan struct{}
}

func NewMailWorker(mailer mailer.Mailer, queue queue.MailQueue) MailWorker {
	return &MailWorkerImpl{
		mailer: mailer,
		queue:  queue,
		done:   make(chan struct{}),
	}
}

func (w *MailWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeMails(ctx)
	if err != nil {
		close(w.done)
		return fmt.Errorf("subscribe mails: %w", err)
	}

	log := logger.WithComponent("worker")
	go func() {
		defer close(w.done)
		for msg := range msgs {
			err := w.mailer.Send(ctx, msg.Data)
			if err != nil {
				// SMTP 暫時失敗時交回隊列重試
				log.Warn("send mail failed", zap.String("mail_id", msg.Data.ID.String()), zap.Error(err))
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

func (w *MailWorkerImpl) Done() <-chan struct{} {
	return w.done
}
