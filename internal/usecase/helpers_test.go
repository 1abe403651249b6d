package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"movie-explorer/internal/data/docstore"
	"movie-explorer/internal/data/entity"
	"movie-explorer/internal/data/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// clock hands out strictly increasing times.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestRepo(t *testing.T, opts ...docstore.MemoryOption) (*repository.Repository, *docstore.Memory) {
	t.Helper()
	store := docstore.NewMemory(append([]docstore.MemoryOption{docstore.WithClock(newClock().Now)}, opts...)...)
	require.NoError(t, store.EnsureIndexes(context.Background(), repository.Indexes()))
	return repository.NewRepository(store, nil, zap.NewNop()), store
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func review(movieID int, userID string, rating int) *entity.Review {
	return &entity.Review{
		MovieID:    movieID,
		MovieTitle: "Movie",
		UserID:     userID,
		UserName:   "User " + userID,
		Rating:     rating,
		Comment:    "comment by " + userID,
	}
}
