package queue

import (
	"context"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordedAck struct {
	acked    bool
	nacked   bool
	requeued bool
}

type fakeAcknowledger struct {
	mu  sync.Mutex
	got recordedAck
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.got.nacked = true
	a.got.requeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type runnerFunc func(ctx context.Context) int

func (f runnerFunc) Run(ctx context.Context) int { return f(ctx) }

func delivery(ack amqp.Acknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestConsumerHandle(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		cancel bool
		want   recordedAck
	}{
		{
			name: "completed pass is acked",
			body: `{"user_id":"u1"}`,
			want: recordedAck{acked: true},
		},
		{
			name: "malformed body is dropped",
			body: `not json`,
			want: recordedAck{nacked: true},
		},
		{
			name:   "pass interrupted by shutdown is requeued",
			body:   `{"user_id":"u1"}`,
			cancel: true,
			want:   recordedAck{nacked: true, requeued: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			runs := 0
			runner := runnerFunc(func(ctx context.Context) int {
				runs++
				if tt.cancel {
					cancel()
				}
				return 0
			})

			c := NewConsumer("amqp://unused", runner, zap.NewNop())
			ack := &fakeAcknowledger{}
			c.handle(ctx, delivery(ack, tt.body))

			assert.Equal(t, tt.want, ack.got)
			if tt.body == "not json" {
				assert.Zero(t, runs)
			} else {
				assert.Equal(t, 1, runs)
			}
		})
	}
}
