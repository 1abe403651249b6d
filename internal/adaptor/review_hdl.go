package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"movie-explorer/internal/dto/request"
	"movie-explorer/internal/dto/response"
	"movie-explorer/internal/queue"
	"movie-explorer/internal/usecase"
	"movie-explorer/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service      usecase.ReviewService
	backfill     usecase.BackfillService
	dispatcher   queue.Dispatcher
	imageBaseURL string
	log          *zap.Logger
}

func NewReviewHandler(
	service usecase.ReviewService,
	backfill usecase.BackfillService,
	dispatcher queue.Dispatcher,
	imageBaseURL string,
	log *zap.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		service:      service,
		backfill:     backfill,
		dispatcher:   dispatcher,
		imageBaseURL: imageBaseURL,
		log:          log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		respondValidationFailed(w, h.log, validationErrors)
		return
	}

	existing, err := h.service.GetUserReviewForMovie(r.Context(), identity.UserID, req.MovieID)
	if err != nil {
		h.handleServiceError(w, err, "create review")
		return
	}
	if existing != nil {
		utils.ResponseConflict(w, "You have already reviewed this movie")
		return
	}

	id, err := h.service.CreateReview(r.Context(), req.ToEntity(identity))
	if err != nil {
		h.handleServiceError(w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", map[string]string{"id": id})
}

// GetMovieReviews handles GET /api/movies/{id}/reviews (public)
func (h *ReviewHandler) GetMovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID, err := utils.ParseMovieID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	reviews := h.service.ListReviewsForMovie(r.Context(), movieID)
	utils.ResponseSuccess(w, "success", response.ReviewsToResponse(reviews, h.imageBaseURL))
}

// GetMyMovieReview handles GET /api/movies/{id}/reviews/mine (protected)
func (h *ReviewHandler) GetMyMovieReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	movieID, err := utils.ParseMovieID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	review, err := h.service.GetUserReviewForMovie(r.Context(), identity.UserID, movieID)
	if err != nil {
		h.handleServiceError(w, err, "get user review")
		return
	}
	if review == nil {
		utils.ResponseSuccess(w, "success", nil)
		return
	}

	utils.ResponseSuccess(w, "success", response.ReviewToResponse(review, h.imageBaseURL))
}

// GetUserReviews handles GET /api/user/reviews (protected). Viewing the page
// also requests a poster-path backfill.
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	event := queue.BackfillRequested{UserID: identity.UserID, RequestedAt: time.Now().UTC()}
	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		h.log.Warn("Failed to dispatch backfill request",
			zap.Error(err),
			zap.String("user_id", identity.UserID),
		)
	}

	reviews := h.service.ListReviewsForUser(r.Context(), identity.UserID)
	utils.ResponseSuccess(w, "success", response.ReviewsToResponse(reviews, h.imageBaseURL))
}

// RunBackfill handles POST /api/reviews/backfill (protected)
func (h *ReviewHandler) RunBackfill(w http.ResponseWriter, r *http.Request) {
	updated := h.backfill.Run(r.Context())
	utils.ResponseSuccess(w, "success", response.BackfillResponse{Updated: updated})
}

// UpdateReview handles PUT /api/reviews/{id} (protected)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		utils.ResponseBadRequest(w, "Review ID is required", nil)
		return
	}

	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		respondValidationFailed(w, h.log, validationErrors)
		return
	}

	if req.IsEmpty() {
		utils.ResponseBadRequest(w, "Nothing to update", nil)
		return
	}

	if err := h.service.UpdateReview(r.Context(), reviewID, req.ToPatch(identity)); err != nil {
		h.handleServiceError(w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// DeleteReview handles DELETE /api/reviews/{id} (protected)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		utils.ResponseBadRequest(w, "Review ID is required", nil)
		return
	}

	if err := h.service.DeleteReview(r.Context(), reviewID); err != nil {
		h.handleServiceError(w, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

func (h *ReviewHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeDomainError(w, h.log, err, operation)
}
