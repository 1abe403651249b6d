package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"movie-explorer/internal/data/entity"

	"go.uber.org/zap"
)

// MetadataClient is the movie metadata source. Responses are passed through
// unmodified.
type MetadataClient interface {
	Trending(ctx context.Context) (json.RawMessage, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
	Details(ctx context.Context, id int) (json.RawMessage, error)
	Category(ctx context.Context, name string) (json.RawMessage, error)
	Movie(ctx context.Context, id int) (*entity.Movie, error)
}

type MovieService interface {
	Trending(ctx context.Context) (json.RawMessage, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
	Details(ctx context.Context, id int) (json.RawMessage, error)
	Category(ctx context.Context, name string) (json.RawMessage, error)
}

type movieService struct {
	metadata MetadataClient
	log      *zap.Logger
}

func NewMovieService(metadata MetadataClient, log *zap.Logger) MovieService {
	return &movieService{
		metadata: metadata,
		log:      log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) Trending(ctx context.Context) (json.RawMessage, error) {
	body, err := s.metadata.Trending(ctx)
	if err != nil {
		s.log.Error("Failed to get trending movies", zap.Error(err))
		return nil, fmt.Errorf("get trending movies: %w", err)
	}
	return body, nil
}

func (s *movieService) Search(ctx context.Context, query string) (json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, validationError("Search query is required")
	}

	body, err := s.metadata.Search(ctx, query)
	if err != nil {
		s.log.Error("Failed to search movies", zap.Error(err), zap.String("query", query))
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return body, nil
}

func (s *movieService) Details(ctx context.Context, id int) (json.RawMessage, error) {
	body, err := s.metadata.Details(ctx, id)
	if err != nil {
		s.log.Error("Failed to get movie details", zap.Error(err), zap.Int("movie_id", id))
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return body, nil
}

func (s *movieService) Category(ctx context.Context, name string) (json.RawMessage, error) {
	body, err := s.metadata.Category(ctx, name)
	if err != nil {
		s.log.Error("Failed to get movie category", zap.Error(err), zap.String("category", name))
		return nil, fmt.Errorf("get %s movies: %w", name, err)
	}
	return body, nil
}
