package service

import (
	"context"
	"storefront/internal/models"
	"storefront/internal/repository"
	"strings"
	"time"
)

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Logout revokes the presented token for its remaining lifetime.
	Logout(ctx context.Context, rawToken string) error
	Me(ctx context.Context) (*models.User, error)
}

type authService struct {
	repo      *repository.Repository
	hasher    Hasher
	tokens    TokenProvider
	blacklist TokenBlacklist
	accessTTL time.Duration
	now       func() time.Time
}

func NewAuthService(repo *repository.Repository, hasher Hasher, tokens TokenProvider, blacklist TokenBlacklist, accessTTL time.Duration) AuthService {
	return &authService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		blacklist: blacklist,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	exists, err := s.repo.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := s.repo.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.repo.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Compare(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	token, exp, err := s.tokens.SignAccess(ctx, u.ID, u.Role, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: u}, nil
}

func (s *authService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.tokens.ParseAccess(ctx, rawToken)
	if err != nil {
		return ErrUnauthorized
	}
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.BlacklistToken(ctx, claims.TokenID, ttl)
}

func (s *authService) Me(ctx context.Context) (*models.User, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
