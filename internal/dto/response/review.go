package response

import (
	"movie-explorer/internal/data/entity"
)

type ReviewResponse struct {
	*entity.Review
	PosterURL string `json:"posterUrl,omitempty"`
}

type BackfillResponse struct {
	Updated int `json:"updated"`
}

// Helper converters
func ReviewToResponse(review *entity.Review, imageBaseURL string) ReviewResponse {
	return ReviewResponse{
		Review:    review,
		PosterURL: posterURL(imageBaseURL, review.PosterPath),
	}
}

func ReviewsToResponse(reviews []*entity.Review, imageBaseURL string) []ReviewResponse {
	resp := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp = append(resp, ReviewToResponse(review, imageBaseURL))
	}
	return resp
}
