package entity

import (
	"time"
)

type WatchlistEntry struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	MovieID     int        `json:"movieId"`
	Title       string     `json:"title"`
	PosterPath  *string    `json:"posterPath"`
	ReleaseDate string     `json:"releaseDate"`
	Overview    string     `json:"overview"`
	VoteAverage float64    `json:"voteAverage"`
	AddedAt     *time.Time `json:"addedAt,omitempty"`
}
