package usecase

import (
	"movie-explorer/internal/data/repository"
	"movie-explorer/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	Movie     MovieService
	Review    ReviewService
	Watchlist WatchlistService
	Backfill  BackfillService
}

func NewService(repo *repository.Repository, metadata MetadataClient, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:      NewAuthService(repo, log),
		Movie:     NewMovieService(metadata, log),
		Review:    NewReviewService(repo, log),
		Watchlist: NewWatchlistService(repo, log),
		Backfill:  NewBackfillService(repo, metadata, config.Backfill.Concurrency, log),
	}
}
