package usecase

import (
	"context"

	"movie-explorer/internal/data/entity"
	"movie-explorer/internal/data/repository"

	"go.uber.org/zap"
)

// AuthService covers what the backend does with an already verified identity.
// Sign-in itself happens at the identity provider.
type AuthService interface {
	SignOut(ctx context.Context, token *entity.Token) error
}

type authService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAuthService(repo *repository.Repository, log *zap.Logger) AuthService {
	return &authService{
		repo: repo,
		log:  log.With(zap.String("service", "auth")),
	}
}

func (s *authService) SignOut(ctx context.Context, token *entity.Token) error {
	if token == nil || token.ID == "" {
		return validationError("Token has no ID and cannot be revoked")
	}

	if err := s.repo.Token.Revoke(ctx, token.ID, token.ExpiresAt); err != nil {
		return &DomainError{Kind: ErrStore, Reason: "Failed to sign out", Err: err}
	}

	s.log.Info("Token revoked", zap.String("token_id", token.ID))
	return nil
}
