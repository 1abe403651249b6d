package utils

import (
	"context"

	"movie-explorer/internal/data/entity"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
	TokenKey    contextKey = "token"
)

func GetIdentityFromContext(ctx context.Context) (*entity.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*entity.Identity)
	if !ok || identity == nil || identity.UserID == "" {
		return nil, false
	}
	return identity, true
}

func SetIdentityContext(ctx context.Context, identity *entity.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetTokenFromContext returns the verified bearer token of the request
func GetTokenFromContext(ctx context.Context) (*entity.Token, bool) {
	token, ok := ctx.Value(TokenKey).(*entity.Token)
	return token, ok && token != nil
}

func SetTokenContext(ctx context.Context, token *entity.Token) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
