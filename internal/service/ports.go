package service

import (
	"context"
	"storefront/internal/models"
	"time"

	"github.com/google/uuid"
)

type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type AccessClaims struct {
	UserID    uuid.UUID
	Role      models.Role
	TokenID   string
	ExpiresAt time.Time
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, role models.Role, ttl time.Duration) (token string, exp time.Time, err error)
	ParseAccess(ctx context.Context, token string) (*AccessClaims, error)
}

// TokenBlacklist revokes issued tokens until their natural expiry.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)
}
