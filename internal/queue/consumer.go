package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	prefetch   = 1
	maxBackoff = 30 * time.Second
)

// Consumer runs a backfill pass per message on the backfill queue.
type Consumer struct {
	url    string
	runner Runner
	log    *zap.Logger
}

func NewConsumer(url string, runner Runner, log *zap.Logger) *Consumer {
	return &Consumer{
		url:    url,
		runner: runner,
		log:    log.With(zap.String("consumer", BackfillQueue)),
	}
}

// Start reconnects with backoff until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("Failed to dial broker, retrying",
				zap.Error(err),
				zap.Duration("backoff", backoff),
			)
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		c.log.Warn("Consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.log.Warn("Failed to set QoS", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(BackfillQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", BackfillQueue, err)
	}

	msgs, err := ch.Consume(BackfillQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", BackfillQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var event BackfillRequested
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.log.Error("Dropping malformed backfill request", zap.Error(err))
		// do not requeue; it would fail again
		_ = d.Nack(false, false)
		return
	}

	updated := c.runner.Run(ctx)
	if ctx.Err() != nil {
		// shutdown cut the pass short; hand the request back to the broker
		c.log.Warn("Backfill pass interrupted, requeueing request",
			zap.String("user_id", event.UserID),
			zap.Int("updated", updated),
		)
		_ = d.Nack(false, true)
		return
	}

	c.log.Info("Backfill pass done",
		zap.String("user_id", event.UserID),
		zap.Int("updated", updated),
	)
	_ = d.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
