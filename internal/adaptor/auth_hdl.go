package adaptor

import (
	"net/http"

	"movie-explorer/internal/dto/response"
	"movie-explorer/internal/usecase"
	"movie-explorer/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Me handles GET /api/auth/me. The identity middleware has already verified
// the token and its revocation state.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	utils.ResponseSuccess(w, "success", response.IdentityToResponse(identity))
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.SignOut(r.Context(), token); err != nil {
		h.handleServiceError(w, err, "sign out")
		return
	}

	utils.ResponseSuccess(w, "Signed out", nil)
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeDomainError(w, h.log, err, operation)
}
