package token

import (
	"context"
	"errors"
	"time"

	"storefront/internal/models"
	"storefront/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTHS256 signs and verifies access tokens with a shared HMAC secret.
type JWTHS256 struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewJWTHS256(secret []byte, issuer, audience string) *JWTHS256 {
	return &JWTHS256{secret: secret, issuer: issuer, audience: audience, now: time.Now}
}

func (j *JWTHS256) SignAccess(ctx context.Context, sub uuid.UUID, role models.Role, ttl time.Duration) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(ttl)
	claims := accessClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.String(),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (j *JWTHS256) ParseAccess(ctx context.Context, raw string) (*service.AccessClaims, error) {
	var claims accessClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.secret, nil
	},
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return &service.AccessClaims{
		UserID:    sub,
		Role:      models.Role(claims.Role),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
