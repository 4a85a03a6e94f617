package user

import (
	"context"
	"time"
)

// Repository lookups return only active users unless stated otherwise.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetActiveByID(ctx context.Context, userID string) (*User, error)
	GetActiveByEmail(ctx context.Context, email string) (*User, error)
	ListActive(ctx context.Context, offset, limit int) ([]User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	SoftDelete(ctx context.Context, userID string, at time.Time) (bool, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
}
