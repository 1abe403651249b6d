package utils

import (
	"fmt"
	"strconv"
)

// ParseMovieID parses a positive TMDB movie id.
func ParseMovieID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid movie ID %q", value)
	}
	return id, nil
}
