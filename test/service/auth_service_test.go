package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/service"

	"github.com/google/uuid"
)

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Compare(hash, password string) bool   { return hash == "hashed:"+password }

type fakeTokens struct {
	SignAccessFunc  func(ctx context.Context, sub uuid.UUID, role models.Role, ttl time.Duration) (string, time.Time, error)
	ParseAccessFunc func(ctx context.Context, token string) (*service.AccessClaims, error)
}

func (f *fakeTokens) SignAccess(ctx context.Context, sub uuid.UUID, role models.Role, ttl time.Duration) (string, time.Time, error) {
	if f.SignAccessFunc != nil {
		return f.SignAccessFunc(ctx, sub, role, ttl)
	}
	return "token", time.Now().Add(ttl), nil
}

func (f *fakeTokens) ParseAccess(ctx context.Context, token string) (*service.AccessClaims, error) {
	if f.ParseAccessFunc != nil {
		return f.ParseAccessFunc(ctx, token)
	}
	return nil, errors.New("invalid token")
}

type fakeBlacklist struct {
	entries map[string]time.Duration
}

func (f *fakeBlacklist) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if f.entries == nil {
		f.entries = make(map[string]time.Duration)
	}
	f.entries[jti] = ttl
	return nil
}

func (f *fakeBlacklist) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	_, ok := f.entries[jti]
	return ok, nil
}

func TestAuthRegister(t *testing.T) {
	repo, users, _, _, _, _, _ := newMockRepository()
	svc := service.NewAuthService(repo, fakeHasher{}, &fakeTokens{}, &fakeBlacklist{}, 15*time.Minute)

	var created *models.User
	users.CreateFunc = func(ctx context.Context, u *models.User) error {
		u.ID = uuid.New()
		created = u
		return nil
	}

	u, err := svc.Register(context.Background(), service.RegisterInput{Email: "  Buyer@Example.COM ", Password: "secret123", DisplayName: "Buyer"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created == nil {
		t.Fatal("expected user to be persisted")
	}
	if u.Email != "buyer@example.com" {
		t.Fatalf("email: got %q, want lowercased trimmed", u.Email)
	}
	if u.Role != models.RoleCustomer {
		t.Fatalf("role: got %s, want customer", u.Role)
	}
	if u.PasswordHash != "hashed:secret123" {
		t.Fatalf("password hash: got %q", u.PasswordHash)
	}
}

func TestAuthRegister_EmailTaken(t *testing.T) {
	repo, users, _, _, _, _, _ := newMockRepository()
	svc := service.NewAuthService(repo, fakeHasher{}, &fakeTokens{}, &fakeBlacklist{}, 15*time.Minute)

	users.ExistsByEmailFunc = func(ctx context.Context, email string) (bool, error) {
		return true, nil
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{Email: "taken@example.com", Password: "secret123"})
	if !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthLogin(t *testing.T) {
	repo, users, _, _, _, _, _ := newMockRepository()
	svc := service.NewAuthService(repo, fakeHasher{}, &fakeTokens{}, &fakeBlacklist{}, 15*time.Minute)

	userID := uuid.New()
	users.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{ID: userID, Email: email, PasswordHash: "hashed:secret123", Role: models.RoleCustomer, IsActive: true}, nil
	}

	res, err := svc.Login(context.Background(), "buyer@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.User.ID != userID {
		t.Fatalf("unexpected result: %+v", res)
	}

	if _, err := svc.Login(context.Background(), "buyer@example.com", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthLogin_Inactive(t *testing.T) {
	repo, users, _, _, _, _, _ := newMockRepository()
	svc := service.NewAuthService(repo, fakeHasher{}, &fakeTokens{}, &fakeBlacklist{}, 15*time.Minute)

	users.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{ID: uuid.New(), Email: email, PasswordHash: "hashed:secret123", IsActive: false}, nil
	}

	_, err := svc.Login(context.Background(), "buyer@example.com", "secret123")
	if !errors.Is(err, service.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthLogout_BlacklistsRemainingTTL(t *testing.T) {
	repo, _, _, _, _, _, _ := newMockRepository()
	blacklist := &fakeBlacklist{}
	tokens := &fakeTokens{
		ParseAccessFunc: func(ctx context.Context, token string) (*service.AccessClaims, error) {
			return &service.AccessClaims{
				UserID:    uuid.New(),
				Role:      models.RoleCustomer,
				TokenID:   "jti-1",
				ExpiresAt: time.Now().Add(10 * time.Minute),
			}, nil
		},
	}
	svc := service.NewAuthService(repo, fakeHasher{}, tokens, blacklist, 15*time.Minute)

	if err := svc.Logout(context.Background(), "some-token"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	ttl, ok := blacklist.entries["jti-1"]
	if !ok {
		t.Fatal("expected token to be blacklisted")
	}
	if ttl <= 0 || ttl > 10*time.Minute {
		t.Fatalf("blacklist ttl out of range: %v", ttl)
	}
}

func TestAuthLogout_InvalidToken(t *testing.T) {
	repo, _, _, _, _, _, _ := newMockRepository()
	svc := service.NewAuthService(repo, fakeHasher{}, &fakeTokens{}, &fakeBlacklist{}, 15*time.Minute)

	if err := svc.Logout(context.Background(), "garbage"); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthMe(t *testing.T) {
	repo, users, _, _, _, _, _ := newMockRepository()
	svc := service.NewAuthService(repo, fakeHasher{}, &fakeTokens{}, &fakeBlacklist{}, 15*time.Minute)

	userID := uuid.New()
	users.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*models.User, error) {
		return &models.User{ID: id, Email: "me@example.com"}, nil
	}

	u, err := svc.Me(authedCtx(userID, models.RoleCustomer))
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if u.ID != userID {
		t.Fatalf("wrong user: %s", u.ID)
	}

	if _, err := svc.Me(context.Background()); !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
