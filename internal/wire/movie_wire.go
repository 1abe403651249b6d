package wire

import (
	"movie-explorer/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	r.Get("/api/movies/trending", movieHandler.GetTrending)
	r.Get("/api/movies/search", movieHandler.Search)
	r.Get("/api/movies/category/{category}", movieHandler.GetCategory)
	r.Get("/api/movies/{id}", movieHandler.GetDetails)
}
