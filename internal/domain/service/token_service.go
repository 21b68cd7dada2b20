package service

import (
	"time"

	"storefront/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims defines the custom claims carried by a signed access token.
type AccessClaims struct {
	UserID uuid.UUID
	Role   entity.Role
	jwt.RegisteredClaims
}

// TokenService defines the interface for signing and validating access
// tokens. Refresh tokens are opaque and owned by the session ledger; only
// the short-lived access credential is a JWT.
type TokenService interface {
	// SignAccessToken creates a signed access token for the given user and role.
	SignAccessToken(userID uuid.UUID, role entity.Role) (string, error)

	// ValidateAccessToken checks a token string and returns its claims.
	ValidateAccessToken(tokenString string) (*AccessClaims, error)

	// AccessTokenTTL returns the configured access token lifetime.
	AccessTokenTTL() time.Duration
}
