package usecase

import (
	"context"
	"strings"

	"movie-explorer/internal/data/entity"
	"movie-explorer/internal/data/repository"

	"go.uber.org/zap"
)

const (
	minRating = 1
	maxRating = 5
)

type ReviewService interface {
	// Listings are best effort: failures are logged and yield an empty list.
	ListReviewsForMovie(ctx context.Context, movieID int) []*entity.Review
	ListReviewsForUser(ctx context.Context, userID string) []*entity.Review

	// GetUserReviewForMovie is the pre-check callers run before CreateReview.
	GetUserReviewForMovie(ctx context.Context, userID string, movieID int) (*entity.Review, error)
	CreateReview(ctx context.Context, review *entity.Review) (string, error)
	UpdateReview(ctx context.Context, id string, patch entity.ReviewPatch) error
	DeleteReview(ctx context.Context, id string) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) ListReviewsForMovie(ctx context.Context, movieID int) []*entity.Review {
	reviews, err := s.repo.Review.FindByMovieID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to get movie reviews, returning none",
			zap.Error(err),
			zap.Int("movie_id", movieID),
		)
		return []*entity.Review{}
	}

	s.log.Debug("Movie reviews retrieved",
		zap.Int("movie_id", movieID),
		zap.Int("count", len(reviews)),
	)
	return reviews
}

func (s *reviewService) ListReviewsForUser(ctx context.Context, userID string) []*entity.Review {
	reviews, err := s.repo.Review.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to get user reviews, returning none",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return []*entity.Review{}
	}

	s.log.Debug("User reviews retrieved",
		zap.String("user_id", userID),
		zap.Int("count", len(reviews)),
	)
	return reviews
}

func (s *reviewService) GetUserReviewForMovie(ctx context.Context, userID string, movieID int) (*entity.Review, error) {
	review, err := s.repo.Review.FindByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		return nil, storeError("Failed to get user review", err)
	}
	return review, nil
}

func (s *reviewService) CreateReview(ctx context.Context, review *entity.Review) (string, error) {
	if review == nil {
		return "", validationError("Review is required")
	}
	if review.MovieID < 1 {
		return "", validationError("Movie ID is required")
	}
	if strings.TrimSpace(review.UserID) == "" {
		return "", validationError("User ID is required")
	}
	if err := checkRating(review.Rating); err != nil {
		return "", err
	}

	id, err := s.repo.Review.Create(ctx, review)
	if err != nil {
		return "", storeError("Failed to add review", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", id),
		zap.String("user_id", review.UserID),
		zap.Int("movie_id", review.MovieID),
		zap.Int("rating", review.Rating),
	)
	return id, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, id string, patch entity.ReviewPatch) error {
	if id == "" {
		return validationError("Review ID is required")
	}
	if patch.IsEmpty() {
		return validationError("Nothing to update")
	}
	if patch.Rating != nil {
		if err := checkRating(*patch.Rating); err != nil {
			return err
		}
	}

	if err := s.repo.Review.Update(ctx, id, patch); err != nil {
		return storeError("Failed to update review", err)
	}

	s.log.Info("Review updated", zap.String("review_id", id))
	return nil
}

func (s *reviewService) DeleteReview(ctx context.Context, id string) error {
	if id == "" {
		return validationError("Review ID is required")
	}

	if err := s.repo.Review.Delete(ctx, id); err != nil {
		return storeError("Failed to delete review", err)
	}
	return nil
}

func checkRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return validationError("Rating must be between 1 and 5")
	}
	return nil
}
