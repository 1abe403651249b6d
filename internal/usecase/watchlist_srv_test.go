package usecase

import (
	"context"
	"errors"
	"testing"

	"movie-explorer/internal/data/docstore"
	"movie-explorer/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func matrix() *entity.Movie {
	return &entity.Movie{
		ID:          603,
		Title:       "The Matrix",
		PosterPath:  strPtr("/matrix.jpg"),
		ReleaseDate: "1999-03-30",
		Overview:    "Neo.",
		VoteAverage: 8.2,
	}
}

func TestAddToWatchlistRejectsDuplicate(t *testing.T) {
	repo, store := newTestRepo(t)
	svc := NewWatchlistService(repo, zap.NewNop())
	ctx := context.Background()

	id, err := svc.AddToWatchlist(ctx, "u1", matrix())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = svc.AddToWatchlist(ctx, "u1", matrix())
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorIs(t, err, ErrAlreadyInWatchlist)
	assert.Equal(t, 1, store.Len("watchlist"))

	_, err = svc.AddToWatchlist(ctx, "u2", matrix())
	assert.NoError(t, err, "another user may add the same movie")
}

func TestAddToWatchlistCopiesMovie(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewWatchlistService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddToWatchlist(ctx, "u1", matrix())
	require.NoError(t, err)

	entry := svc.IsInWatchlist(ctx, "u1", 603)
	require.NotNil(t, entry)
	assert.Equal(t, "The Matrix", entry.Title)
	assert.Equal(t, "/matrix.jpg", *entry.PosterPath)
	assert.Equal(t, "1999-03-30", entry.ReleaseDate)
	assert.NotNil(t, entry.AddedAt)
}

func TestAddToWatchlistValidation(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewWatchlistService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddToWatchlist(ctx, "", matrix())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddToWatchlist(ctx, "u1", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddToWatchlistPrecheckFailure(t *testing.T) {
	repo, store := newTestRepo(t)
	svc := NewWatchlistService(repo, zap.NewNop())
	store.FailOn(docstore.OpFind, "watchlist", errors.New("unavailable"))

	_, err := svc.AddToWatchlist(context.Background(), "u1", matrix())
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, 0, store.Len("watchlist"))
}

func TestWatchlistReadPolicies(t *testing.T) {
	repo, store := newTestRepo(t)
	svc := NewWatchlistService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddToWatchlist(ctx, "u1", matrix())
	require.NoError(t, err)

	entries, err := svc.GetWatchlist(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	store.FailOn(docstore.OpFind, "watchlist", errors.New("unavailable"))

	_, err = svc.GetWatchlist(ctx, "u1")
	assert.ErrorIs(t, err, ErrStore, "listing fails hard")

	assert.Nil(t, svc.IsInWatchlist(ctx, "u1", 603), "membership check is lenient")
}

func TestRemoveFromWatchlist(t *testing.T) {
	repo, store := newTestRepo(t)
	svc := NewWatchlistService(repo, zap.NewNop())
	ctx := context.Background()

	id, err := svc.AddToWatchlist(ctx, "u1", matrix())
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFromWatchlist(ctx, id))
	assert.Nil(t, svc.IsInWatchlist(ctx, "u1", 603))
	assert.NoError(t, svc.RemoveFromWatchlist(ctx, id), "unknown ids are not an error")

	store.FailOn(docstore.OpDelete, "watchlist", errors.New("unavailable"))
	assert.ErrorIs(t, svc.RemoveFromWatchlist(ctx, id), ErrStore)
}
