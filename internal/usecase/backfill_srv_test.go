package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"movie-explorer/internal/data/docstore"
	"movie-explorer/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLookup struct {
	mu      sync.Mutex
	posters map[int]string
	failing map[int]bool
	absent  map[int]bool
	calls   map[int]int
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{posters: map[int]string{}, failing: map[int]bool{}, absent: map[int]bool{}, calls: map[int]int{}}
}

func (f *fakeLookup) Movie(ctx context.Context, id int) (*entity.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if f.failing[id] {
		return nil, fmt.Errorf("movie %d: upstream error", id)
	}
	if f.absent[id] {
		return nil, nil
	}
	movie := &entity.Movie{ID: id}
	if p, ok := f.posters[id]; ok {
		movie.PosterPath = &p
	}
	return movie, nil
}

func TestBackfillFillsAllMissingPosters(t *testing.T) {
	repo, _ := newTestRepo(t)
	reviews := NewReviewService(repo, zap.NewNop())
	lookup := newFakeLookup()
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		lookup.posters[i] = fmt.Sprintf("/poster-%d.jpg", i)
		_, err := reviews.CreateReview(ctx, review(i, fmt.Sprintf("u%d", i), 3))
		require.NoError(t, err)
	}

	svc := NewBackfillService(repo, lookup, 3, zap.NewNop())
	assert.Equal(t, 10, svc.Run(ctx))

	for i := 1; i <= 10; i++ {
		got, err := reviews.GetUserReviewForMovie(ctx, fmt.Sprintf("u%d", i), i)
		require.NoError(t, err)
		require.NotNil(t, got.PosterPath)
		assert.Equal(t, fmt.Sprintf("/poster-%d.jpg", i), *got.PosterPath)
		assert.Nil(t, got.UpdatedAt, "backfill does not touch updatedAt")
	}

	assert.Equal(t, 0, svc.Run(ctx), "nothing left to fill")
}

func TestBackfillSkipsFailedLookups(t *testing.T) {
	repo, _ := newTestRepo(t)
	reviews := NewReviewService(repo, zap.NewNop())
	lookup := newFakeLookup()
	ctx := context.Background()

	lookup.posters[1] = "/one.jpg"
	lookup.failing[2] = true
	lookup.posters[3] = "/three.jpg"
	// movie 4 has no poster upstream
	for i := 1; i <= 4; i++ {
		_, err := reviews.CreateReview(ctx, review(i, "u1", 3))
		require.NoError(t, err)
	}

	svc := NewBackfillService(repo, lookup, 0, zap.NewNop())
	assert.Equal(t, 2, svc.Run(ctx))

	failed, err := reviews.GetUserReviewForMovie(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Nil(t, failed.PosterPath)

	noPoster, err := reviews.GetUserReviewForMovie(ctx, "u1", 4)
	require.NoError(t, err)
	assert.Nil(t, noPoster.PosterPath)
}

func TestBackfillSharesLookupsPerMovie(t *testing.T) {
	repo, _ := newTestRepo(t)
	reviews := NewReviewService(repo, zap.NewNop())
	lookup := newFakeLookup()
	lookup.posters[550] = "/fc.jpg"
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := reviews.CreateReview(ctx, review(550, fmt.Sprintf("u%d", i), 4))
		require.NoError(t, err)
	}

	svc := NewBackfillService(repo, lookup, 2, zap.NewNop())
	assert.Equal(t, 5, svc.Run(ctx))
	assert.Equal(t, 1, lookup.calls[550])
}

func TestBackfillLeavesExistingPosters(t *testing.T) {
	repo, _ := newTestRepo(t)
	reviews := NewReviewService(repo, zap.NewNop())
	lookup := newFakeLookup()
	lookup.posters[1] = "/new.jpg"
	ctx := context.Background()

	r := review(1, "u1", 3)
	r.PosterPath = strPtr("/old.jpg")
	_, err := reviews.CreateReview(ctx, r)
	require.NoError(t, err)

	svc := NewBackfillService(repo, lookup, 2, zap.NewNop())
	assert.Equal(t, 0, svc.Run(ctx))
	assert.Zero(t, lookup.calls[1])
}

func TestBackfillScanFailureReturnsZero(t *testing.T) {
	repo, store := newTestRepo(t)
	reviews := NewReviewService(repo, zap.NewNop())
	_, err := reviews.CreateReview(context.Background(), review(1, "u1", 3))
	require.NoError(t, err)

	store.FailOn(docstore.OpFind, "reviews", errors.New("unavailable"))

	svc := NewBackfillService(repo, newFakeLookup(), 2, zap.NewNop())
	assert.Equal(t, 0, svc.Run(context.Background()))
}

func TestBackfillUpdateFailureIsSkipped(t *testing.T) {
	repo, store := newTestRepo(t)
	reviews := NewReviewService(repo, zap.NewNop())
	lookup := newFakeLookup()
	lookup.posters[1] = "/one.jpg"
	_, err := reviews.CreateReview(context.Background(), review(1, "u1", 3))
	require.NoError(t, err)

	store.FailOn(docstore.OpUpdate, "reviews", errors.New("unavailable"))

	svc := NewBackfillService(repo, lookup, 2, zap.NewNop())
	assert.Equal(t, 0, svc.Run(context.Background()))
}

func TestBackfillSkipsNilMovie(t *testing.T) {
	repo, _ := newTestRepo(t)
	reviews := NewReviewService(repo, zap.NewNop())
	lookup := newFakeLookup()
	ctx := context.Background()

	lookup.absent[1] = true
	lookup.posters[2] = "/two.jpg"
	for i := 1; i <= 2; i++ {
		_, err := reviews.CreateReview(ctx, review(i, fmt.Sprintf("u%d", i), 4))
		require.NoError(t, err)
	}

	svc := NewBackfillService(repo, lookup, 2, zap.NewNop())
	assert.Equal(t, 1, svc.Run(ctx))

	got, err := reviews.GetUserReviewForMovie(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Nil(t, got.PosterPath)
}
