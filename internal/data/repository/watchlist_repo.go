package repository

import (
	"context"
	"fmt"

	"movie-explorer/internal/data/docstore"
	"movie-explorer/internal/data/entity"

	"go.uber.org/zap"
)

type WatchlistRepository interface {
	FindByUserID(ctx context.Context, userID string) ([]*entity.WatchlistEntry, error)
	FindByUserAndMovie(ctx context.Context, userID string, movieID int) (*entity.WatchlistEntry, error)
	Create(ctx context.Context, entry *entity.WatchlistEntry) (string, error)
	Delete(ctx context.Context, id string) error
}

type watchlistRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewWatchlistRepository(store docstore.Store, log *zap.Logger) WatchlistRepository {
	return &watchlistRepository{
		store: store,
		log:   log.With(zap.String("repository", "watchlist")),
	}
}

func (r *watchlistRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.WatchlistEntry, error) {
	docs, err := r.store.Find(ctx, watchlistCollection, docstore.Query{
		Filters: []docstore.Filter{docstore.Eq(fieldUserID, userID)},
	})
	if err != nil {
		r.log.Error("Failed to find watchlist by user ID",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("find watchlist by user ID %s: %w", userID, err)
	}

	entries := make([]*entity.WatchlistEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, watchlistEntryFromDoc(doc))
	}
	return entries, nil
}

func (r *watchlistRepository) FindByUserAndMovie(ctx context.Context, userID string, movieID int) (*entity.WatchlistEntry, error) {
	docs, err := r.store.Find(ctx, watchlistCollection, docstore.Query{
		Filters: []docstore.Filter{
			docstore.Eq(fieldUserID, userID),
			docstore.Eq(fieldMovieID, movieID),
		},
	})
	if err != nil {
		r.log.Error("Failed to find watchlist entry by user and movie",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("movie_id", movieID),
		)
		return nil, fmt.Errorf("find watchlist entry by user %s and movie %d: %w", userID, movieID, err)
	}

	if len(docs) == 0 {
		return nil, nil
	}
	return watchlistEntryFromDoc(docs[0]), nil
}

func (r *watchlistRepository) Create(ctx context.Context, entry *entity.WatchlistEntry) (string, error) {
	fields := docstore.Fields{
		fieldUserID:      entry.UserID,
		fieldMovieID:     entry.MovieID,
		fieldTitle:       entry.Title,
		fieldPosterPath:  nullable(entry.PosterPath),
		fieldReleaseDate: entry.ReleaseDate,
		fieldOverview:    entry.Overview,
		fieldVoteAverage: entry.VoteAverage,
		fieldAddedAt:     docstore.ServerTimestamp,
	}

	id, err := r.store.Create(ctx, watchlistCollection, fields)
	if err != nil {
		r.log.Error("Failed to create watchlist entry",
			zap.Error(err),
			zap.String("user_id", entry.UserID),
			zap.Int("movie_id", entry.MovieID),
		)
		return "", fmt.Errorf("create watchlist entry for movie %d by user %s: %w",
			entry.MovieID, entry.UserID, err)
	}

	return id, nil
}

func (r *watchlistRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, watchlistCollection, id); err != nil {
		r.log.Error("Failed to delete watchlist entry",
			zap.Error(err),
			zap.String("entry_id", id),
		)
		return fmt.Errorf("delete watchlist entry %s: %w", id, err)
	}

	return nil
}

func watchlistEntryFromDoc(doc docstore.Document) *entity.WatchlistEntry {
	f := doc.Fields
	return &entity.WatchlistEntry{
		ID:          doc.ID,
		UserID:      asString(f[fieldUserID]),
		MovieID:     asInt(f[fieldMovieID]),
		Title:       asString(f[fieldTitle]),
		PosterPath:  asStringPtr(f[fieldPosterPath]),
		ReleaseDate: asString(f[fieldReleaseDate]),
		Overview:    asString(f[fieldOverview]),
		VoteAverage: asFloat64(f[fieldVoteAverage]),
		AddedAt:     asTimePtr(f[fieldAddedAt]),
	}
}
