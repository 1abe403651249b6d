package usecase

import (
	"context"
	"strings"

	"movie-explorer/internal/data/entity"
	"movie-explorer/internal/data/repository"

	"go.uber.org/zap"
)

type WatchlistService interface {
	// GetWatchlist fails hard; the watchlist page has no partial state.
	GetWatchlist(ctx context.Context, userID string) ([]*entity.WatchlistEntry, error)
	// IsInWatchlist reports store failures as absent.
	IsInWatchlist(ctx context.Context, userID string, movieID int) *entity.WatchlistEntry
	AddToWatchlist(ctx context.Context, userID string, movie *entity.Movie) (string, error)
	RemoveFromWatchlist(ctx context.Context, id string) error
}

type watchlistService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewWatchlistService(repo *repository.Repository, log *zap.Logger) WatchlistService {
	return &watchlistService{
		repo: repo,
		log:  log.With(zap.String("service", "watchlist")),
	}
}

func (s *watchlistService) GetWatchlist(ctx context.Context, userID string) ([]*entity.WatchlistEntry, error) {
	entries, err := s.repo.Watchlist.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("Failed to get watchlist", err)
	}
	return entries, nil
}

func (s *watchlistService) IsInWatchlist(ctx context.Context, userID string, movieID int) *entity.WatchlistEntry {
	entry, err := s.repo.Watchlist.FindByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		s.log.Warn("Failed to check watchlist, treating as absent",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("movie_id", movieID),
		)
		return nil
	}
	return entry
}

func (s *watchlistService) AddToWatchlist(ctx context.Context, userID string, movie *entity.Movie) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", validationError("User ID is required")
	}
	if movie == nil || movie.ID < 1 {
		return "", validationError("Movie ID is required")
	}

	existing, err := s.repo.Watchlist.FindByUserAndMovie(ctx, userID, movie.ID)
	if err != nil {
		return "", storeError("Failed to add to watchlist", err)
	}
	if existing != nil {
		return "", ErrAlreadyInWatchlist
	}

	id, err := s.repo.Watchlist.Create(ctx, &entity.WatchlistEntry{
		UserID:      userID,
		MovieID:     movie.ID,
		Title:       movie.Title,
		PosterPath:  movie.PosterPath,
		ReleaseDate: movie.ReleaseDate,
		Overview:    movie.Overview,
		VoteAverage: movie.VoteAverage,
	})
	if err != nil {
		return "", storeError("Failed to add to watchlist", err)
	}

	s.log.Info("Movie added to watchlist",
		zap.String("entry_id", id),
		zap.String("user_id", userID),
		zap.Int("movie_id", movie.ID),
	)
	return id, nil
}

func (s *watchlistService) RemoveFromWatchlist(ctx context.Context, id string) error {
	if id == "" {
		return validationError("Watchlist entry ID is required")
	}

	if err := s.repo.Watchlist.Delete(ctx, id); err != nil {
		return storeError("Failed to remove from watchlist", err)
	}
	return nil
}
