package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/malprimis/petanchiki/internal/domain/apperr"
	"github.com/malprimis/petanchiki/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	byID map[string]*user.User
}

func (f *fakeUsers) GetActive(ctx context.Context, userID string) (*user.User, error) {
	u, ok := f.byID[userID]
	if !ok || !u.IsActive {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetActiveByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.byID {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func newTestAuth(t *testing.T, clock *time.Time) (*Service, *fakeUsers) {
	t.Helper()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &fakeUsers{byID: map[string]*user.User{
		"u1": {ID: "u1", Email: "ann@example.com", PasswordHash: hash, IsActive: true},
	}}
	tokens := NewTokens(TokenConfig{Secret: "test-secret", TTL: 15 * time.Minute, RefreshWindow: 24 * time.Hour})
	tokens.now = func() time.Time { return *clock }
	return NewService(users, hasher, tokens), users
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret-pass" {
		t.Fatalf("expected hashed value")
	}
	if !hasher.Compare(hash, "secret-pass") {
		t.Fatalf("expected password to match")
	}
	if hasher.Compare(hash, "other") {
		t.Fatalf("expected mismatch")
	}
	if NewBcryptHasher(100).cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost for out of range value")
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestAuth(t, &clock)
	ctx := context.Background()

	token, u, err := svc.Login(ctx, "ann@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != "u1" || token.TokenType != "bearer" {
		t.Fatalf("unexpected login result %+v %+v", token, u)
	}
	if !token.ExpiresAt.Equal(clock.Add(15 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", token.ExpiresAt)
	}

	resolved, err := svc.Authenticate(ctx, token.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if resolved.ID != "u1" {
		t.Fatalf("expected u1, got %s", resolved.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, users := newTestAuth(t, &clock)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "ann@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	users.byID["u1"].IsActive = false
	_, _, err := svc.Login(ctx, "ann@example.com", "password123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected deleted user rejected, got %v", err)
	}
	if !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated kind")
	}
}

func TestAuthenticateRejectsExpiredAndForeignTokens(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, users := newTestAuth(t, &clock)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "ann@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	clock = clock.Add(16 * time.Minute)
	if _, err := svc.Authenticate(ctx, token.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(clock.Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Authenticate(ctx, forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	fresh, _, _ := svc.Login(ctx, "ann@example.com", "password123")
	users.byID["u1"].IsActive = false
	if _, err := svc.Authenticate(ctx, fresh.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token of deleted user rejected, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, users := newTestAuth(t, &clock)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "ann@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	clock = clock.Add(2 * time.Hour)
	refreshed, err := svc.Refresh(ctx, token.AccessToken)
	if err != nil {
		t.Fatalf("expected expired token refreshed, got %v", err)
	}
	if !refreshed.ExpiresAt.Equal(clock.Add(15 * time.Minute)) {
		t.Fatalf("unexpected refreshed expiry %v", refreshed.ExpiresAt)
	}
	if _, err := svc.Authenticate(ctx, refreshed.AccessToken); err != nil {
		t.Fatalf("expected refreshed token valid, got %v", err)
	}

	clock = clock.Add(48 * time.Hour)
	if _, err := svc.Refresh(ctx, token.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected token outside refresh window rejected, got %v", err)
	}

	latest, err := svc.Refresh(ctx, refreshed.AccessToken)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected stale refreshed token rejected, got %v %v", latest, err)
	}

	clock = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	current, _, _ := svc.Login(ctx, "ann@example.com", "password123")
	users.byID["u1"].IsActive = false
	if _, err := svc.Refresh(ctx, current.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected deleted user refresh rejected, got %v", err)
	}
}
