package repository

import (
	"encoding/json"
	"strconv"
	"time"

	"movie-explorer/internal/data/docstore"
)

// Document field names, shared by both collections.
const (
	fieldMovieID      = "movieId"
	fieldMovieTitle   = "movieTitle"
	fieldPosterPath   = "posterPath"
	fieldUserID       = "userId"
	fieldUserName     = "userName"
	fieldUserPhotoURL = "userPhotoURL"
	fieldRating       = "rating"
	fieldComment      = "comment"
	fieldCreatedAt    = "createdAt"
	fieldUpdatedAt    = "updatedAt"
	fieldTitle        = "title"
	fieldReleaseDate  = "releaseDate"
	fieldOverview     = "overview"
	fieldVoteAverage  = "voteAverage"
	fieldAddedAt      = "addedAt"
)

// The backends hand numbers back as int, int64 (Mongo) or float64 (JSON).
func asInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	case json.Number:
		n, _ := x.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(x)
		return n
	default:
		return 0
	}
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *string:
		if x != nil {
			return *x
		}
	}
	return ""
}

// asStringPtr maps absent, null and empty values to nil.
func asStringPtr(v any) *string {
	s := asString(v)
	if s == "" {
		return nil
	}
	return &s
}

func asTimePtr(v any) *time.Time {
	t, ok := docstore.TimeValue(v)
	if !ok {
		return nil
	}
	return &t
}

// nullable stores nil pointers as null rather than a typed nil.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
