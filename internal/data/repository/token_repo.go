package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revokedTokenPrefix = "identity:revoked:"

// TokenRepository remembers signed-out identity tokens until they expire.
type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type tokenRepository struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewTokenRepository uses Redis when rdb is set and process memory otherwise.
func NewTokenRepository(rdb *redis.Client, log *zap.Logger) TokenRepository {
	log = log.With(zap.String("repository", "token"))
	if rdb == nil {
		return &memoryTokenRepository{revoked: map[string]time.Time{}, now: time.Now}
	}
	return &tokenRepository{rdb: rdb, log: log}
}

func (r *tokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := r.rdb.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err(); err != nil {
		r.log.Error("Failed to revoke token",
			zap.Error(err),
			zap.String("token_id", tokenID),
		)
		return fmt.Errorf("revoke token %s: %w", tokenID, err)
	}

	return nil
}

func (r *tokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		r.log.Error("Failed to check revoked token",
			zap.Error(err),
			zap.String("token_id", tokenID),
		)
		return false, fmt.Errorf("check revoked token %s: %w", tokenID, err)
	}
	return n > 0, nil
}

type memoryTokenRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func (r *memoryTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
		}
	}
	if expiresAt.After(now) {
		r.revoked[tokenID] = expiresAt
	}
	return nil
}

func (r *memoryTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.revoked[tokenID]
	return ok && exp.After(r.now()), nil
}
