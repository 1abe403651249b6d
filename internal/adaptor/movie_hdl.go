package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"movie-explorer/internal/usecase"
	"movie-explorer/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MovieHandler proxies the metadata service. Success bodies are relayed as
// received; failures use the {"error": ...} body.
type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetTrending handles GET /api/movies/trending
func (h *MovieHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.Trending(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "Failed to fetch trending movies")
		return
	}
	utils.ResponseRaw(w, http.StatusOK, body)
}

// Search handles GET /api/movies/search?query=
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		utils.ResponseErrorEnvelope(w, http.StatusBadRequest, "Search query is required")
		return
	}

	body, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, err, "Failed to search movies")
		return
	}
	utils.ResponseRaw(w, http.StatusOK, body)
}

// GetDetails handles GET /api/movies/{id}
func (h *MovieHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseMovieID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseErrorEnvelope(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := h.service.Details(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to fetch movie details")
		return
	}
	utils.ResponseRaw(w, http.StatusOK, body)
}

// GetCategory handles GET /api/movies/category/{category}
func (h *MovieHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	body, err := h.service.Category(r.Context(), category)
	if err != nil {
		h.handleServiceError(w, err, "Failed to fetch movies by category")
		return
	}
	utils.ResponseRaw(w, http.StatusOK, body)
}

func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, usecase.ErrValidation) {
		utils.ResponseErrorEnvelope(w, http.StatusBadRequest, message)
		return
	}

	h.log.Error(message, zap.Error(err))
	utils.ResponseErrorEnvelope(w, http.StatusInternalServerError, message)
}
