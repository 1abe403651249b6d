package repository

import (
	"movie-explorer/internal/data/docstore"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	reviewsCollection   = "reviews"
	watchlistCollection = "watchlist"
)

type Repository struct {
	Review    ReviewRepository
	Watchlist WatchlistRepository
	Token     TokenRepository
}

// NewRepository wires the repositories over one document store. rdb may be nil,
// in which case revoked tokens are kept in process memory.
func NewRepository(store docstore.Store, rdb *redis.Client, log *zap.Logger) *Repository {
	return &Repository{
		Review:    NewReviewRepository(store, log),
		Watchlist: NewWatchlistRepository(store, log),
		Token:     NewTokenRepository(rdb, log),
	}
}

// Indexes lists the composite indexes the ordered review listings rely on.
func Indexes() []docstore.IndexSpec {
	newestFirst := docstore.Order{Field: fieldCreatedAt, Direction: docstore.Desc}
	return []docstore.IndexSpec{
		{Collection: reviewsCollection, Equals: []string{fieldMovieID}, Order: newestFirst},
		{Collection: reviewsCollection, Equals: []string{fieldUserID}, Order: newestFirst},
	}
}
