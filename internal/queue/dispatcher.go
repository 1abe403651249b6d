package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Dispatcher hands a backfill request off without waiting for the pass.
type Dispatcher interface {
	Dispatch(ctx context.Context, event BackfillRequested) error
	Close() error
}

// NewDispatcher publishes to RabbitMQ when url is set and runs passes in
// process otherwise.
func NewDispatcher(url string, runner Runner, log *zap.Logger) (Dispatcher, error) {
	if url == "" {
		return NewInlineDispatcher(runner, log), nil
	}

	d, err := NewAMQPDispatcher(url, log)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// InlineDispatcher runs the pass on a background goroutine. Requests that
// arrive while a pass is running are dropped; that pass already covers them.
type InlineDispatcher struct {
	runner  Runner
	running atomic.Bool
	wg      sync.WaitGroup
	log     *zap.Logger
}

func NewInlineDispatcher(runner Runner, log *zap.Logger) *InlineDispatcher {
	return &InlineDispatcher{
		runner: runner,
		log:    log.With(zap.String("dispatcher", "inline")),
	}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, event BackfillRequested) error {
	if !d.running.CompareAndSwap(false, true) {
		d.log.Debug("Backfill already running, request dropped", zap.String("user_id", event.UserID))
		return nil
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.running.Store(false)

		// The request context ends with the response; the pass must outlive it.
		updated := d.runner.Run(context.WithoutCancel(ctx))
		d.log.Info("Backfill pass done",
			zap.String("user_id", event.UserID),
			zap.Int("updated", updated),
		)
	}()
	return nil
}

// Close waits for a running pass to finish.
func (d *InlineDispatcher) Close() error {
	d.wg.Wait()
	return nil
}

// AMQPDispatcher publishes persistent messages to the durable backfill queue
// over one long-lived connection.
type AMQPDispatcher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
	url  string
	log  *zap.Logger
}

func NewAMQPDispatcher(url string, log *zap.Logger) (*AMQPDispatcher, error) {
	d := &AMQPDispatcher{
		url: url,
		log: log.With(zap.String("dispatcher", "amqp")),
	}
	if err := d.connect(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *AMQPDispatcher) connect() error {
	conn, err := amqp.Dial(d.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(BackfillQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue %s: %w", BackfillQueue, err)
	}

	d.conn = conn
	d.ch = ch
	return nil
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, event BackfillRequested) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal backfill request: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil || d.conn.IsClosed() {
		if err := d.connect(); err != nil {
			d.log.Error("Failed to reconnect to broker", zap.Error(err))
			return err
		}
	}

	err = d.ch.PublishWithContext(ctx, "", BackfillQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		d.log.Error("Failed to publish backfill request",
			zap.Error(err),
			zap.String("user_id", event.UserID),
		)
		return fmt.Errorf("publish backfill request: %w", err)
	}

	return nil
}

func (d *AMQPDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ch != nil {
		_ = d.ch.Close()
	}
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}
