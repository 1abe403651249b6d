// Package queue carries poster-path backfill requests from the request path to
// the backfill pass, over RabbitMQ when configured and in process otherwise.
package queue

import (
	"context"
	"time"
)

const BackfillQueue = "reviews.backfill"

// BackfillRequested is published when a user opens their review page.
type BackfillRequested struct {
	UserID      string    `json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// Runner runs one backfill pass and reports how many records it updated.
type Runner interface {
	Run(ctx context.Context) int
}
