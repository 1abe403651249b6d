package wire

import (
	"net/http"

	"movie-explorer/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWatchlist(r chi.Router, watchlistHandler *adaptor.WatchlistHandler, identity func(http.Handler) http.Handler) {
	r.Route("/api/watchlist", func(r chi.Router) {
		r.Use(identity)

		r.Get("/", watchlistHandler.GetWatchlist)
		r.Post("/", watchlistHandler.AddToWatchlist)
		r.Get("/{movieId}", watchlistHandler.GetStatus)
		r.Delete("/{id}", watchlistHandler.RemoveFromWatchlist)
	})
}
