package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio/internal/config"
	"github.com/khoahotran/portfolio/internal/domain/content"
	"github.com/khoahotran/portfolio/pkg/logger"
)

// ContentEventHandler processes one decoded event. A failing event is retried
// in place up to maxHandleAttempts times, then logged and committed so the
// partition keeps moving.
type ContentEventHandler func(ctx context.Context, e content.Event) error

const (
	maxHandleAttempts   = 3
	defaultRetryBackoff = time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ContentEventConsumer struct {
	reader  messageReader
	logger  logger.Logger
	backoff time.Duration
}

func NewContentEventConsumer(cfg config.Config, log logger.Logger) *ContentEventConsumer {
	topic := cfg.Kafka.Topic
	if topic == "" {
		topic = TopicContentEvents
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    topic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &ContentEventConsumer{reader: reader, logger: log, backoff: defaultRetryBackoff}
}

// Run consumes until ctx is cancelled or the reader is closed.
func (c *ContentEventConsumer) Run(ctx context.Context, handle ContentEventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				c.logger.Info("Kafka reader closed, stopping consumer")
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			if !c.wait(ctx) {
				return nil
			}
			continue
		}

		var e content.Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			c.logger.Warn("Skipping undecodable content event", zap.Int64("offset", msg.Offset), zap.Error(err))
			c.commit(ctx, msg)
			continue
		}

		if err := c.handle(ctx, handle, e); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("Dropping content event after retries", err,
				zap.String("event_type", string(e.EventType)),
				zap.String("entity_id", e.EntityID.String()),
				zap.Int64("offset", msg.Offset),
			)
		}
		c.commit(ctx, msg)
	}
}

func (c *ContentEventConsumer) handle(ctx context.Context, handle ContentEventHandler, e content.Event) error {
	var err error
	for attempt := 1; attempt <= maxHandleAttempts; attempt++ {
		if err = handle(ctx, e); err == nil {
			return nil
		}
		c.logger.Warn("Content event handler failed",
			zap.Int("attempt", attempt),
			zap.String("entity_id", e.EntityID.String()),
			zap.Error(err),
		)
		if attempt < maxHandleAttempts && !c.wait(ctx) {
			return ctx.Err()
		}
	}
	return err
}

// wait sleeps for the backoff and reports whether ctx is still live.
func (c *ContentEventConsumer) wait(ctx context.Context) bool {
	t := time.NewTimer(c.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *ContentEventConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(context.WithoutCancel(ctx), msg); err != nil {
		c.logger.Error("Failed to commit message", err)
	}
}

func (c *ContentEventConsumer) Close() error {
	return c.reader.Close()
}
