package usecase

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"movie-explorer/internal/data/entity"
	"movie-explorer/internal/data/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultBackfillConcurrency = 8

// MovieLookup resolves movie details for the backfill pass.
type MovieLookup interface {
	Movie(ctx context.Context, id int) (*entity.Movie, error)
}

type BackfillService interface {
	// Run fills posterPath on every review missing one and returns how many
	// reviews were updated.
	Run(ctx context.Context) int
}

type backfillService struct {
	repo        *repository.Repository
	movies      MovieLookup
	concurrency int
	log         *zap.Logger
}

func NewBackfillService(repo *repository.Repository, movies MovieLookup, concurrency int, log *zap.Logger) BackfillService {
	if concurrency < 1 {
		concurrency = defaultBackfillConcurrency
	}
	return &backfillService{
		repo:        repo,
		movies:      movies,
		concurrency: concurrency,
		log:         log.With(zap.String("service", "backfill")),
	}
}

func (s *backfillService) Run(ctx context.Context) int {
	reviews, err := s.repo.Review.FindMissingPoster(ctx)
	if err != nil {
		s.log.Error("Failed to scan reviews missing poster path", zap.Error(err))
		return 0
	}
	if len(reviews) == 0 {
		return 0
	}

	var (
		updated atomic.Int64
		lookups posterLookups
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, review := range reviews {
		if review.MovieID == 0 {
			continue
		}

		g.Go(func() error {
			posterPath, err := s.lookupPoster(gctx, &lookups, review.MovieID)
			if err != nil {
				s.log.Warn("Failed to look up movie for review",
					zap.Error(err),
					zap.String("review_id", review.ID),
					zap.Int("movie_id", review.MovieID),
				)
				return nil
			}
			if posterPath == "" {
				return nil
			}

			if err := s.repo.Review.SetPosterPath(gctx, review.ID, posterPath); err != nil {
				return nil
			}
			updated.Add(1)
			return nil
		})
	}

	// Workers never return errors; a failed record is skipped.
	_ = g.Wait()

	count := int(updated.Load())
	s.log.Info("Poster path backfill finished",
		zap.Int("candidates", len(reviews)),
		zap.Int("updated", count),
	)
	return count
}

// posterLookups shares movie lookups within one pass: concurrent callers join
// the in-flight call and later callers reuse its result.
type posterLookups struct {
	group singleflight.Group
	done  sync.Map // movie ID -> poster path
}

func (s *backfillService) lookupPoster(ctx context.Context, lookups *posterLookups, movieID int) (string, error) {
	key := strconv.Itoa(movieID)
	if v, ok := lookups.done.Load(key); ok {
		return v.(string), nil
	}

	v, err, _ := lookups.group.Do(key, func() (any, error) {
		// a call that just finished may have stored the result after our Load
		if v, ok := lookups.done.Load(key); ok {
			return v, nil
		}
		movie, err := s.movies.Movie(ctx, movieID)
		if err != nil {
			return "", err
		}
		path := ""
		if movie != nil && movie.PosterPath != nil {
			path = *movie.PosterPath
		}
		lookups.done.Store(key, path)
		return path, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
