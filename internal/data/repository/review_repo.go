package repository

import (
	"context"
	"fmt"

	"movie-explorer/internal/data/docstore"
	"movie-explorer/internal/data/entity"

	"go.uber.org/zap"
)

type ReviewRepository interface {
	// FindByMovieID and FindByUserID return newest first, falling back to a
	// local sort while the composite index is not ready.
	FindByMovieID(ctx context.Context, movieID int) ([]*entity.Review, error)
	FindByUserID(ctx context.Context, userID string) ([]*entity.Review, error)
	FindByUserAndMovie(ctx context.Context, userID string, movieID int) (*entity.Review, error)
	FindMissingPoster(ctx context.Context) ([]*entity.Review, error)

	Create(ctx context.Context, review *entity.Review) (string, error)
	Update(ctx context.Context, id string, patch entity.ReviewPatch) error
	SetPosterPath(ctx context.Context, id, posterPath string) error
	Delete(ctx context.Context, id string) error
}

type reviewRepository struct {
	store docstore.Store
	log   *zap.Logger
}

func NewReviewRepository(store docstore.Store, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		store: store,
		log:   log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) FindByMovieID(ctx context.Context, movieID int) ([]*entity.Review, error) {
	docs, tier, err := docstore.FindNewestFirst(ctx, r.store, reviewsCollection,
		[]docstore.Filter{docstore.Eq(fieldMovieID, movieID)}, fieldCreatedAt)
	if err != nil {
		r.log.Error("Failed to find reviews by movie ID",
			zap.Error(err),
			zap.Int("movie_id", movieID),
			zap.String("tier", string(tier)),
		)
		return nil, fmt.Errorf("find reviews by movie ID %d: %w", movieID, err)
	}

	if tier == docstore.TierFallback {
		r.log.Warn("Movie reviews index not ready, sorted locally",
			zap.Int("movie_id", movieID),
			zap.Int("count", len(docs)),
		)
	}

	return reviewsFromDocs(docs), nil
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Review, error) {
	docs, tier, err := docstore.FindNewestFirst(ctx, r.store, reviewsCollection,
		[]docstore.Filter{docstore.Eq(fieldUserID, userID)}, fieldCreatedAt)
	if err != nil {
		r.log.Error("Failed to find reviews by user ID",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("tier", string(tier)),
		)
		return nil, fmt.Errorf("find reviews by user ID %s: %w", userID, err)
	}

	if tier == docstore.TierFallback {
		r.log.Warn("User reviews index not ready, sorted locally",
			zap.String("user_id", userID),
			zap.Int("count", len(docs)),
		)
	}

	return reviewsFromDocs(docs), nil
}

func (r *reviewRepository) FindByUserAndMovie(ctx context.Context, userID string, movieID int) (*entity.Review, error) {
	docs, err := r.store.Find(ctx, reviewsCollection, docstore.Query{
		Filters: []docstore.Filter{
			docstore.Eq(fieldUserID, userID),
			docstore.Eq(fieldMovieID, movieID),
		},
	})
	if err != nil {
		r.log.Error("Failed to find review by user and movie",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("movie_id", movieID),
		)
		return nil, fmt.Errorf("find review by user %s and movie %d: %w", userID, movieID, err)
	}

	if len(docs) == 0 {
		return nil, nil
	}
	if len(docs) > 1 {
		r.log.Warn("Duplicate reviews for user and movie",
			zap.String("user_id", userID),
			zap.Int("movie_id", movieID),
			zap.Int("count", len(docs)),
		)
	}

	return reviewFromDoc(docs[0]), nil
}

// FindMissingPoster scans every user's reviews whose posterPath is absent.
func (r *reviewRepository) FindMissingPoster(ctx context.Context) ([]*entity.Review, error) {
	docs, err := r.store.Find(ctx, reviewsCollection, docstore.Query{
		Filters: []docstore.Filter{docstore.Missing(fieldPosterPath)},
	})
	if err != nil {
		r.log.Error("Failed to find reviews missing poster path", zap.Error(err))
		return nil, fmt.Errorf("find reviews missing poster path: %w", err)
	}

	return reviewsFromDocs(docs), nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) (string, error) {
	fields := docstore.Fields{
		fieldMovieID:      review.MovieID,
		fieldMovieTitle:   review.MovieTitle,
		fieldPosterPath:   nullable(review.PosterPath),
		fieldUserID:       review.UserID,
		fieldUserName:     review.UserName,
		fieldUserPhotoURL: nullable(review.UserPhotoURL),
		fieldRating:       review.Rating,
		fieldComment:      review.Comment,
		fieldCreatedAt:    docstore.ServerTimestamp,
	}

	id, err := r.store.Create(ctx, reviewsCollection, fields)
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID),
			zap.Int("movie_id", review.MovieID),
		)
		return "", fmt.Errorf("create review for movie %d by user %s: %w",
			review.MovieID, review.UserID, err)
	}

	return id, nil
}

func (r *reviewRepository) Update(ctx context.Context, id string, patch entity.ReviewPatch) error {
	fields := docstore.Fields{fieldUpdatedAt: docstore.ServerTimestamp}
	if patch.MovieTitle != nil {
		fields[fieldMovieTitle] = *patch.MovieTitle
	}
	if patch.PosterPath != nil {
		fields[fieldPosterPath] = *patch.PosterPath
	}
	if patch.UserName != nil {
		fields[fieldUserName] = *patch.UserName
	}
	if patch.UserPhotoURL != nil {
		fields[fieldUserPhotoURL] = *patch.UserPhotoURL
	}
	if patch.Rating != nil {
		fields[fieldRating] = *patch.Rating
	}
	if patch.Comment != nil {
		fields[fieldComment] = *patch.Comment
	}

	if err := r.store.Update(ctx, reviewsCollection, id, fields); err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", id),
		)
		return fmt.Errorf("update review %s: %w", id, err)
	}

	return nil
}

// SetPosterPath writes posterPath alone; updatedAt is left untouched.
func (r *reviewRepository) SetPosterPath(ctx context.Context, id, posterPath string) error {
	if err := r.store.Update(ctx, reviewsCollection, id, docstore.Fields{fieldPosterPath: posterPath}); err != nil {
		r.log.Error("Failed to set review poster path",
			zap.Error(err),
			zap.String("review_id", id),
		)
		return fmt.Errorf("set poster path of review %s: %w", id, err)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, reviewsCollection, id); err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id),
		)
		return fmt.Errorf("delete review %s: %w", id, err)
	}

	r.log.Info("Review deleted", zap.String("review_id", id))
	return nil
}

func reviewsFromDocs(docs []docstore.Document) []*entity.Review {
	reviews := make([]*entity.Review, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, reviewFromDoc(doc))
	}
	return reviews
}

func reviewFromDoc(doc docstore.Document) *entity.Review {
	f := doc.Fields
	return &entity.Review{
		Base: entity.Base{
			ID:        doc.ID,
			CreatedAt: asTimePtr(f[fieldCreatedAt]),
			UpdatedAt: asTimePtr(f[fieldUpdatedAt]),
		},
		MovieID:      asInt(f[fieldMovieID]),
		MovieTitle:   asString(f[fieldMovieTitle]),
		PosterPath:   asStringPtr(f[fieldPosterPath]),
		UserID:       asString(f[fieldUserID]),
		UserName:     asString(f[fieldUserName]),
		UserPhotoURL: asStringPtr(f[fieldUserPhotoURL]),
		Rating:       asInt(f[fieldRating]),
		Comment:      asString(f[fieldComment]),
	}
}
