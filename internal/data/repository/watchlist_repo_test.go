package repository

import (
	"context"
	"testing"
	"time"

	"movie-explorer/internal/data/docstore"
	"movie-explorer/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatchlistRepository(t *testing.T) {
	added := time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC)
	store := docstore.NewMemory(docstore.WithClock(func() time.Time { return added }))
	repo := NewWatchlistRepository(store, zap.NewNop())
	ctx := context.Background()

	id, err := repo.Create(ctx, &entity.WatchlistEntry{
		UserID:      "u1",
		MovieID:     603,
		Title:       "The Matrix",
		PosterPath:  strPtr("/m.jpg"),
		ReleaseDate: "1999-03-30",
		VoteAverage: 8.2,
	})
	require.NoError(t, err)

	entry, err := repo.FindByUserAndMovie(ctx, "u1", 603)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, "The Matrix", entry.Title)
	assert.Equal(t, 8.2, entry.VoteAverage)
	require.NotNil(t, entry.AddedAt)
	assert.True(t, added.Equal(*entry.AddedAt))

	entries, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, repo.Delete(ctx, id))
	entry, err = repo.FindByUserAndMovie(ctx, "u1", 603)
	require.NoError(t, err)
	assert.Nil(t, entry)
}
