package request

import "movie-explorer/internal/data/entity"

// MovieRequest is a metadata service movie object as the client holds it.
type MovieRequest struct {
	ID          int     `json:"id" validate:"required,min=1"`
	Title       string  `json:"title" validate:"required,max=300"`
	PosterPath  *string `json:"poster_path,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	VoteAverage float64 `json:"vote_average" validate:"min=0,max=10"`
}

func (r *MovieRequest) ToEntity() *entity.Movie {
	return &entity.Movie{
		ID:          r.ID,
		Title:       r.Title,
		PosterPath:  r.PosterPath,
		ReleaseDate: r.ReleaseDate,
		Overview:    r.Overview,
		VoteAverage: r.VoteAverage,
	}
}
