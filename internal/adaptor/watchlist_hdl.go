package adaptor

import (
	"encoding/json"
	"net/http"

	"movie-explorer/internal/dto/request"
	"movie-explorer/internal/dto/response"
	"movie-explorer/internal/usecase"
	"movie-explorer/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WatchlistHandler struct {
	service      usecase.WatchlistService
	imageBaseURL string
	log          *zap.Logger
}

func NewWatchlistHandler(service usecase.WatchlistService, imageBaseURL string, log *zap.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service:      service,
		imageBaseURL: imageBaseURL,
		log:          log.With(zap.String("handler", "watchlist")),
	}
}

// GetWatchlist handles GET /api/watchlist
func (h *WatchlistHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	entries, err := h.service.GetWatchlist(r.Context(), identity.UserID)
	if err != nil {
		h.handleServiceError(w, err, "get watchlist")
		return
	}

	utils.ResponseSuccess(w, "success", response.WatchlistToResponse(entries, h.imageBaseURL))
}

// GetStatus handles GET /api/watchlist/{movieId}
func (h *WatchlistHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	movieID, err := utils.ParseMovieID(chi.URLParam(r, "movieId"))
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	entry := h.service.IsInWatchlist(r.Context(), identity.UserID, movieID)
	utils.ResponseSuccess(w, "success", response.WatchlistStatusToResponse(entry, h.imageBaseURL))
}

// AddToWatchlist handles POST /api/watchlist
func (h *WatchlistHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.MovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		respondValidationFailed(w, h.log, validationErrors)
		return
	}

	id, err := h.service.AddToWatchlist(r.Context(), identity.UserID, req.ToEntity())
	if err != nil {
		h.handleServiceError(w, err, "add to watchlist")
		return
	}

	utils.ResponseCreated(w, "success", map[string]string{"id": id})
}

// RemoveFromWatchlist handles DELETE /api/watchlist/{id}
func (h *WatchlistHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		utils.ResponseBadRequest(w, "Watchlist entry ID is required", nil)
		return
	}

	if err := h.service.RemoveFromWatchlist(r.Context(), entryID); err != nil {
		h.handleServiceError(w, err, "remove from watchlist")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

func (h *WatchlistHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeDomainError(w, h.log, err, operation)
}
