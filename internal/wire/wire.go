// internal/wire/wire.go
package wire

import (
	"net/http"

	"movie-explorer/internal/adaptor"
	"movie-explorer/internal/data/repository"
	"movie-explorer/internal/queue"
	"movie-explorer/internal/usecase"
	"movie-explorer/pkg/middleware"
	"movie-explorer/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type App struct {
	Router *chi.Mux
}

// Wiring builds the handlers and routes over service.
func Wiring(
	service *usecase.Service,
	repo *repository.Repository,
	dispatcher queue.Dispatcher,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	handler := adaptor.NewHandler(service, dispatcher, config, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	identity := middleware.Identity(config.Identity, repo.Token, logger)

	wireAuth(r, handler.Auth, identity)
	wireMovie(r, handler.Movie)
	wireReview(r, handler.Review, identity)
	wireWatchlist(r, handler.Watchlist, identity)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Movie Explorer API is running"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
