package wire

import (
	"net/http"

	"movie-explorer/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, identity func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(identity)

		r.Get("/api/auth/me", authHandler.Me)
		r.Post("/api/auth/signout", authHandler.SignOut)
	})
}
