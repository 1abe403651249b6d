package request

import "movie-explorer/internal/data/entity"

type CreateReviewRequest struct {
	MovieID    int     `json:"movieId" validate:"required,min=1"`
	MovieTitle string  `json:"movieTitle" validate:"max=300"`
	PosterPath *string `json:"posterPath,omitempty"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Comment    string  `json:"comment" validate:"max=2000"`
}

// UpdateReviewRequest carries the form fields a review edit resends. The
// reviewer's name and photo are refreshed from the identity, not the body.
type UpdateReviewRequest struct {
	MovieTitle *string `json:"movieTitle,omitempty" validate:"omitempty,max=300"`
	PosterPath *string `json:"posterPath,omitempty"`
	Rating     *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment    *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

const anonymousUserName = "Anonymous User"

func displayName(identity *entity.Identity) string {
	if identity.DisplayName == "" {
		return anonymousUserName
	}
	return identity.DisplayName
}

// ToEntity builds a review owned by identity.
func (r *CreateReviewRequest) ToEntity(identity *entity.Identity) *entity.Review {
	userName := displayName(identity)

	return &entity.Review{
		MovieID:      r.MovieID,
		MovieTitle:   r.MovieTitle,
		PosterPath:   r.PosterPath,
		UserID:       identity.UserID,
		UserName:     userName,
		UserPhotoURL: identity.PhotoURL,
		Rating:       r.Rating,
		Comment:      r.Comment,
	}
}

// IsEmpty reports whether the body names no review field.
func (r *UpdateReviewRequest) IsEmpty() bool {
	return r.MovieTitle == nil && r.PosterPath == nil && r.Rating == nil && r.Comment == nil
}

func (r *UpdateReviewRequest) ToPatch(identity *entity.Identity) entity.ReviewPatch {
	userName := displayName(identity)

	return entity.ReviewPatch{
		MovieTitle:   r.MovieTitle,
		PosterPath:   r.PosterPath,
		UserName:     &userName,
		UserPhotoURL: identity.PhotoURL,
		Rating:       r.Rating,
		Comment:      r.Comment,
	}
}
