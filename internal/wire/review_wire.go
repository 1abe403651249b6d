package wire

import (
	"net/http"

	"movie-explorer/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, identity func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/movies/{id}/reviews", reviewHandler.GetMovieReviews)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(identity)

		r.Get("/api/movies/{id}/reviews/mine", reviewHandler.GetMyMovieReview)
		r.Post("/api/reviews", reviewHandler.CreateReview)
		r.Post("/api/reviews/backfill", reviewHandler.RunBackfill)
		r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)
		r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview)

		// Viewing the page also requests a poster-path backfill.
		r.Get("/api/user/reviews", reviewHandler.GetUserReviews)
	})
}
