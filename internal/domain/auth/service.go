package auth

import (
	"context"
	"errors"

	"github.com/malprimis/petanchiki/internal/domain/user"
)

type Users interface {
	GetActive(ctx context.Context, userID string) (*user.User, error)
	GetActiveByEmail(ctx context.Context, email string) (*user.User, error)
}

type PasswordComparer interface {
	Compare(hash, plain string) bool
}

type Service struct {
	users    Users
	password PasswordComparer
	tokens   *Tokens
}

func NewService(users Users, password PasswordComparer, tokens *Tokens) *Service {
	return &Service{users: users, password: password, tokens: tokens}
}

func (s *Service) Login(ctx context.Context, email, password string) (Token, *user.User, error) {
	u, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return Token{}, nil, ErrInvalidCredentials
		}
		return Token{}, nil, err
	}
	if !s.password.Compare(u.PasswordHash, password) {
		return Token{}, nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Token{}, nil, err
	}
	return token, u, nil
}

// Refresh exchanges a validly signed, possibly expired token of an active
// user for a fresh one.
func (s *Service) Refresh(ctx context.Context, raw string) (Token, error) {
	userID, err := s.tokens.ParseForRefresh(raw)
	if err != nil {
		return Token{}, err
	}
	u, err := s.activeUser(ctx, userID)
	if err != nil {
		return Token{}, err
	}
	return s.tokens.Issue(u.ID)
}

// Authenticate resolves a bearer token to the active user it was issued to.
func (s *Service) Authenticate(ctx context.Context, raw string) (*user.User, error) {
	userID, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.activeUser(ctx, userID)
}

func (s *Service) activeUser(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}
