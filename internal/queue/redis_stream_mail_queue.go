package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"auralink/internal/model"
	"auralink/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey         = "mails:stream"
	ConsumerGroupName = "mail-workers"
	// RetryKey 延遲重送的 ZSET，score 為可重送時間 (unix ms)
	RetryKey = "mails:retry"
	// DeadLetterKey 放棄寄送的信，保留供人工檢查
	DeadLetterKey = "mails:dead"
	sentKeyPrefix = "mails:sent:"

	streamMaxLen     = 10000
	deadLetterMaxLen = 1000
	batchSize        = 10
)

type RedisStreamMailQueueConfig struct {
	MaxAttempts  int           // 含第一次寄送
	RetryBackoff time.Duration // 第 n 次失敗後等待 n*RetryBackoff
	StaleAfter   time.Duration // consumer 掛掉後多久收回未 ack 的信
	PollInterval time.Duration // 檢查到期重送與逾時信的間隔
	ReadBlock    time.Duration
	SentTTL      time.Duration // 已寄送記錄的保存時間，用於略過重複投遞
}

func defaultRedisStreamConfig() RedisStreamMailQueueConfig {
	return RedisStreamMailQueueConfig{
		MaxAttempts:  5,
		RetryBackoff: 30 * time.Second,
		StaleAfter:   2 * time.Minute,
		PollInterval: time.Second,
		ReadBlock:    2 * time.Second,
		SentTTL:      24 * time.Hour,
	}
}

type RedisStreamMailQueueImpl struct {
	client       *redis.Client
	consumerName string
	cfg          RedisStreamMailQueueConfig
	log          *zap.Logger
}

// NewRedisStreamMailQueue config 可為 nil，零值欄位使用預設
func NewRedisStreamMailQueue(client *redis.Client, consumerID string, config *RedisStreamMailQueueConfig) (MailQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.MaxAttempts > 0 {
			cfg.MaxAttempts = config.MaxAttempts
		}
		if config.RetryBackoff > 0 {
			cfg.RetryBackoff = config.RetryBackoff
		}
		if config.StaleAfter > 0 {
			cfg.StaleAfter = config.StaleAfter
		}
		if config.PollInterval > 0 {
			cfg.PollInterval = config.PollInterval
		}
		if config.ReadBlock > 0 {
			cfg.ReadBlock = config.ReadBlock
		}
		if config.SentTTL > 0 {
			cfg.SentTTL = config.SentTTL
		}
	}

	q := &RedisStreamMailQueueImpl{
		client:       client,
		consumerName: "mailer:" + consumerID,
		cfg:          cfg,
		log:          logger.WithComponent("mq").With(zap.String("queue", "redis")),
	}

	err := client.XGroupCreateMkStream(context.Background(), StreamKey, ConsumerGroupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}
	return q, nil
}

// mailEntry stream 中的一封信與其寄送次數
type mailEntry struct {
	MailID  string `json:"mail_id"`
	Attempt int    `json:"attempt"`
	Payload string `json:"payload"`
}

func (e mailEntry) values() map[string]interface{} {
	return map[string]interface{}{
		"mail_id": e.MailID,
		"attempt": e.Attempt,
		"payload": e.Payload,
	}
}

func parseEntry(values map[string]interface{}) (mailEntry, *model.Mail, error) {
	var e mailEntry
	e.MailID, _ = values["mail_id"].(string)
	e.Payload, _ = values["payload"].(string)
	if e.MailID == "" || e.Payload == "" {
		return e, nil, errors.New("missing mail_id or payload")
	}

	attempt, _ := values["attempt"].(string)
	n, err := strconv.Atoi(attempt)
	if err != nil || n < 1 {
		return e, nil, fmt.Errorf("invalid attempt %q", attempt)
	}
	e.Attempt = n

	var mail model.Mail
	if err := json.Unmarshal([]byte(e.Payload), &mail); err != nil {
		return e, nil, fmt.Errorf("unmarshal mail: %w", err)
	}
	return e, &mail, nil
}

func (q *RedisStreamMailQueueImpl) PublishMail(ctx context.Context, mail *model.Mail) error {
	payload, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}
	entry := mailEntry{MailID: mail.ID.String(), Attempt: 1, Payload: string(payload)}
	return q.add(ctx, entry)
}

func (q *RedisStreamMailQueueImpl) add(ctx context.Context, entry mailEntry) error {
	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: entry.values(),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (q *RedisStreamMailQueueImpl) SubscribeMails(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		done := make(chan struct{})
		go func() {
			defer close(done)
			q.maintain(ctx)
		}()
		for ctx.Err() == nil {
			q.readBatch(ctx, out)
		}
		<-done
	}()
	return out, nil
}

func (q *RedisStreamMailQueueImpl) readBatch(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroupName,
		Consumer: q.consumerName,
		Streams:  []string{StreamKey, ">"},
		Count:    batchSize,
		Block:    q.cfg.ReadBlock,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		q.log.Error("read mails failed", zap.Error(err))
		time.Sleep(time.Second)
		return
	}

	// ack 需在關閉訊號後仍能送出
	ackCtx := context.WithoutCancel(ctx)
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			d, ok := q.prepare(ackCtx, msg)
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
}

// prepare 解析訊息並略過已寄出的信
func (q *RedisStreamMailQueueImpl) prepare(ctx context.Context, msg redis.XMessage) (Delivery, bool) {
	log := q.log.With(zap.String("message_id", msg.ID))

	entry, mail, err := parseEntry(msg.Values)
	if err != nil {
		log.Warn("malformed mail entry", zap.Error(err))
		q.deadLetter(ctx, msg.ID, entry, "malformed: "+err.Error())
		return Delivery{}, false
	}

	sent, err := q.client.Exists(ctx, sentKeyPrefix+entry.MailID).Result()
	if err != nil {
		log.Warn("check sent marker failed", zap.Error(err))
	}
	if sent > 0 {
		log.Debug("mail already sent, skip", zap.String("mail_id", entry.MailID))
		q.ack(ctx, msg.ID)
		return Delivery{}, false
	}

	return Delivery{
		Data: mail,
		Ack: func() {
			_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, sentKeyPrefix+entry.MailID, 1, q.cfg.SentTTL)
				pipe.XAck(ctx, StreamKey, ConsumerGroupName, msg.ID)
				return nil
			})
			if err != nil {
				log.Error("ack mail failed", zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if !requeue {
				q.deadLetter(ctx, msg.ID, entry, "rejected")
				return
			}
			q.retryLater(ctx, msg.ID, entry)
		},
	}, true
}

// retryLater 將信移入重送 ZSET；寄送次數用盡則轉入 dead letter
func (q *RedisStreamMailQueueImpl) retryLater(ctx context.Context, messageID string, entry mailEntry) {
	if entry.Attempt >= q.cfg.MaxAttempts {
		q.log.Warn("mail attempts exhausted",
			zap.String("mail_id", entry.MailID), zap.Int("attempts", entry.Attempt))
		q.deadLetter(ctx, messageID, entry, "attempts exhausted")
		return
	}

	next := entry
	next.Attempt++
	member, err := json.Marshal(next)
	if err != nil {
		q.log.Error("marshal retry entry failed", zap.Error(err))
		return
	}
	due := time.Now().Add(time.Duration(entry.Attempt) * q.cfg.RetryBackoff)

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, RetryKey, redis.Z{Score: float64(due.UnixMilli()), Member: string(member)})
		pipe.XAck(ctx, StreamKey, ConsumerGroupName, messageID)
		return nil
	})
	if err != nil {
		q.log.Error("schedule retry failed", zap.String("mail_id", entry.MailID), zap.Error(err))
		return
	}
	q.log.Info("mail scheduled for retry",
		zap.String("mail_id", entry.MailID), zap.Int("attempt", next.Attempt), zap.Time("due", due))
}

func (q *RedisStreamMailQueueImpl) deadLetter(ctx context.Context, messageID string, entry mailEntry, reason string) {
	values := entry.values()
	values["reason"] = reason
	values["message_id"] = messageID

	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: DeadLetterKey,
			MaxLen: deadLetterMaxLen,
			Approx: true,
			Values: values,
		})
		pipe.XAck(ctx, StreamKey, ConsumerGroupName, messageID)
		return nil
	})
	if err != nil {
		q.log.Error("dead letter failed", zap.String("message_id", messageID), zap.Error(err))
	}
}

func (q *RedisStreamMailQueueImpl) ack(ctx context.Context, messageID string) {
	if err := q.client.XAck(ctx, StreamKey, ConsumerGroupName, messageID).Err(); err != nil {
		q.log.Error("ack failed", zap.String("message_id", messageID), zap.Error(err))
	}
}

// maintain 定期把到期的重送信放回 stream，並收回掛掉的 consumer 未 ack 的信
func (q *RedisStreamMailQueueImpl) maintain(ctx context.Context) {
	ticker := time.NewTicker(q.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.promoteDue(ctx)
			q.reclaimStale(ctx)
		}
	}
}

func (q *RedisStreamMailQueueImpl) promoteDue(ctx context.Context) {
	members, err := q.client.ZRangeByScore(ctx, RetryKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(time.Now().UnixMilli(), 10),
		Count: batchSize,
	}).Result()
	if err != nil {
		if ctx.Err() == nil {
			q.log.Error("load due retries failed", zap.Error(err))
		}
		return
	}

	for _, member := range members {
		// ZREM 成功者才放回 stream，多個 consumer 不會重複
		removed, err := q.client.ZRem(ctx, RetryKey, member).Result()
		if err != nil || removed == 0 {
			continue
		}
		var entry mailEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			q.log.Warn("drop malformed retry entry", zap.Error(err))
			continue
		}
		if err := q.add(ctx, entry); err != nil {
			q.log.Error("requeue mail failed", zap.String("mail_id", entry.MailID), zap.Error(err))
		}
	}
}

// reclaimStale 逾時未 ack 視為一次失敗的寄送
func (q *RedisStreamMailQueueImpl) reclaimStale(ctx context.Context) {
	claimed, _, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   StreamKey,
		Group:    ConsumerGroupName,
		Consumer: q.consumerName,
		MinIdle:  q.cfg.StaleAfter,
		Start:    "0-0",
		Count:    batchSize,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		if ctx.Err() == nil {
			q.log.Error("reclaim stale mails failed", zap.Error(err))
		}
		return
	}

	for _, msg := range claimed {
		entry, _, err := parseEntry(msg.Values)
		if err != nil {
			q.deadLetter(ctx, msg.ID, entry, "malformed: "+err.Error())
			continue
		}
		q.retryLater(ctx, msg.ID, entry)
	}
}
