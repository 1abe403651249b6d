package entity

// Review is one user's rating of one movie. MovieTitle and PosterPath are
// display copies of the metadata service's values and may be backfilled later.
type Review struct {
	Base
	MovieID      int     `json:"movieId"`
	MovieTitle   string  `json:"movieTitle"`
	PosterPath   *string `json:"posterPath"`
	UserID       string  `json:"userId"`
	UserName     string  `json:"userName"`
	UserPhotoURL *string `json:"userPhotoURL"`
	Rating       int     `json:"rating"` // 1-5
	Comment      string  `json:"comment"`
}

// ReviewPatch lists the fields an update replaces; nil fields are left alone.
type ReviewPatch struct {
	MovieTitle   *string
	PosterPath   *string
	UserName     *string
	UserPhotoURL *string
	Rating       *int
	Comment      *string
}

func (p ReviewPatch) IsEmpty() bool {
	return p.MovieTitle == nil && p.PosterPath == nil && p.UserName == nil &&
		p.UserPhotoURL == nil && p.Rating == nil && p.Comment == nil
}
