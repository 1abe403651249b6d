package middleware

import (
	"net/http"
	"strings"
	"time"

	"movie-explorer/internal/data/entity"
	"movie-explorer/internal/data/repository"
	"movie-explorer/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// IdentityClaims are the claims read from an identity token. The user ID is
// the subject, or the user_id claim for tokens that carry it separately.
type IdentityClaims struct {
	UserID  string `json:"user_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Identity verifies the bearer identity token and puts the identity and the
// token into the request context. Revoked tokens are rejected.
func Identity(config utils.IdentityConfig, tokens repository.TokenRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.With(zap.String("middleware", "identity"))

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	parser := jwt.NewParser(opts...)
	secret := []byte(config.Secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			raw, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			var claims IdentityClaims
			_, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (any, error) {
				return secret, nil
			})
			if err != nil {
				logger.Warn("Invalid identity token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			identity := claims.identity()
			if identity.UserID == "" {
				utils.ResponseUnauthorized(w, "Token has no user")
				return
			}

			token := &entity.Token{ID: claims.ID}
			if claims.ExpiresAt != nil {
				token.ExpiresAt = claims.ExpiresAt.Time
			}

			if token.ID != "" {
				revoked, err := tokens.IsRevoked(r.Context(), token.ID)
				if err != nil {
					logger.Error("Failed to check token revocation",
						zap.Error(err),
						zap.String("user_id", identity.UserID),
					)
					utils.ResponseInternalError(w, "Internal server error")
					return
				}
				if revoked {
					logger.Warn("Revoked token used",
						zap.String("token_id", token.ID),
						zap.String("user_id", identity.UserID),
					)
					utils.ResponseUnauthorized(w, "Token has been revoked")
					return
				}
			}

			ctx := utils.SetIdentityContext(r.Context(), identity)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (c *IdentityClaims) identity() *entity.Identity {
	identity := &entity.Identity{
		UserID:      c.Subject,
		DisplayName: c.Name,
		Email:       c.Email,
	}
	if identity.UserID == "" {
		identity.UserID = c.UserID
	}
	if c.Picture != "" {
		picture := c.Picture
		identity.PhotoURL = &picture
	}
	return identity
}

// SignIdentityToken issues an HS256 identity token. The identity provider
// normally does this; it is used by tooling and tests.
func SignIdentityToken(config utils.IdentityConfig, identity *entity.Identity, tokenID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		Name:  identity.DisplayName,
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ID:        tokenID,
			Issuer:    config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if identity.PhotoURL != nil {
		claims.Picture = *identity.PhotoURL
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Secret))
}
