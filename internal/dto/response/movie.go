package response

import "movie-explorer/internal/gateway/tmdb"

const posterSize = "w500"

// posterURL resolves a stored poster path against the image CDN.
func posterURL(imageBaseURL string, path *string) string {
	if path == nil {
		return ""
	}
	return tmdb.ImageURL(imageBaseURL, *path, posterSize)
}
