package mailer

import (
	"context"
	"fmt"
	"strings"

	"auralink/config"
	"auralink/internal/model"
	"auralink/internal/queue"
	"auralink/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(ctx context.Context, mail *model.Mail) error
}

// SMTPMailer 透過 SMTP 寄信
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.MailConfig) Mailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, mail *model.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", mail.To...)
	message.SetHeader("Subject", mail.Subject)
	message.SetBody("text/plain", mail.Body)
	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// ConsoleMailer 開發環境用，只寫 log
type ConsoleMailer struct {
	from string
}

func NewConsoleMailer(from string) Mailer {
	return &ConsoleMailer{from: from}
}

func (m *ConsoleMailer) Send(ctx context.Context, mail *model.Mail) error {
	logger.WithComponent("mailer").Info("mail",
		zap.String("id", mail.ID.String()),
		zap.String("from", m.from),
		zap.String("to", strings.Join(mail.To, ", ")),
		zap.String("subject", mail.Subject),
		zap.String("body", mail.Body),
	)
	return nil
}

// New 依 MAIL_BACKEND 建立 mailer
func New(cfg *config.MailConfig) (Mailer, error) {
	switch cfg.Backend {
	case "", "console":
		return NewConsoleMailer(cfg.From), nil
	case "smtp":
		return NewSMTPMailer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown mail backend %q", cfg.Backend)
	}
}

// QueueMailer 只把信放進佇列，實際寄送由 worker 負責
type QueueMailer struct {
	queue queue.MailQueue
}

func NewQueueMailer(q queue.MailQueue) Mailer {
	return &QueueMailer{queue: q}
}

func (m *QueueMailer) Send(ctx context.Context, mail *model.Mail) error {
	if err := m.queue.PublishMail(ctx, mail); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}
