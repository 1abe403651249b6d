package adaptor

import (
	"errors"
	"net/http"

	"movie-explorer/internal/queue"
	"movie-explorer/internal/usecase"
	"movie-explorer/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	Movie     *MovieHandler
	Review    *ReviewHandler
	Watchlist *WatchlistHandler
}

func NewHandler(service *usecase.Service, dispatcher queue.Dispatcher, config *utils.Config, log *zap.Logger) *Handler {
	imageBaseURL := config.TMDB.ImageBaseURL
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		Movie:     NewMovieHandler(service.Movie, log),
		Review:    NewReviewHandler(service.Review, service.Backfill, dispatcher, imageBaseURL, log),
		Watchlist: NewWatchlistHandler(service.Watchlist, imageBaseURL, log),
	}
}

// writeDomainError maps a domain error kind to its status code. Anything that
// is not a domain error is answered with 500.
func writeDomainError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var domainErr *usecase.DomainError
	if !errors.As(err, &domainErr) {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadRequest(w, domainErr.Reason, nil)

	case errors.Is(err, usecase.ErrAlreadyExists):
		log.Warn(operation+" failed - already exists", zap.Error(err), zap.String("operation", operation))
		utils.ResponseConflict(w, domainErr.Reason)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err), zap.String("operation", operation))
		utils.ResponseNotFound(w, domainErr.Reason)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, domainErr.Reason)
	}
}

func respondValidationFailed(w http.ResponseWriter, log *zap.Logger, errs map[string]string) {
	log.Debug("Request validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
	utils.ResponseBadRequest(w, "Validation failed", errs)
}
