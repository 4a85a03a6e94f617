package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/events"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type Service struct {
	repo   Repository
	hasher PasswordHasher
	events events.Publisher
	now    func() time.Time
}

func NewService(repo Repository, hasher PasswordHasher, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
		events: publisher,
		now:    time.Now,
	}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := strings.TrimSpace(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetActiveByEmail(ctx, email)
		switch {
		case err == nil:
			return ErrEmailTaken
		case !errors.Is(err, ErrUserNotFound):
			return err
		}
		return tx.Create(ctx, &user)
	})
	if err != nil {
		return nil, err
	}

	_ = s.events.Publish(ctx, events.Event{
		Type:       events.TypeUserRegistered,
		UserID:     user.ID,
		OccurredAt: s.now().UTC(),
	})
	return &user, nil
}

// GetActive resolves an identity for the authentication layer.
func (s *Service) GetActive(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetActiveByID(ctx, userID)
}

func (s *Service) GetActiveByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetActiveByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) Get(ctx context.Context, actor Principal, userID string) (*User, error) {
	user, err := s.repo.GetActiveByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(user.ID) {
		return nil, ErrNotAllowed
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, actor Principal, offset, limit int) ([]User, error) {
	if !actor.IsAdmin {
		return nil, ErrNotAllowed
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.ListActive(ctx, offset, limit)
}

func (s *Service) Update(ctx context.Context, actor Principal, userID string, input UpdateInput) (*User, error) {
	var updated User
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		user, err := tx.GetActiveByID(ctx, userID)
		if err != nil {
			return err
		}
		if !actor.CanManage(user.ID) {
			return ErrNotAllowed
		}

		changed := false
		if input.Name != nil {
			name, err := validateName(*input.Name)
			if err != nil {
				return err
			}
			user.Name = name
			changed = true
		}
		if input.Password != nil {
			if utf8.RuneCountInString(*input.Password) < minPasswordLength {
				return ErrPasswordTooShort
			}
			hash, err := s.hasher.Hash(*input.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
			changed = true
		}

		if changed {
			user.UpdatedAt = s.now().UTC()
			if err := tx.Update(ctx, user); err != nil {
				return err
			}
		}

		updated = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete tombstones the user. Memberships and authored transactions stay in
// place; every authorization lookup ignores inactive users from here on.
func (s *Service) Delete(ctx context.Context, actor Principal, userID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		user, err := tx.GetActiveByID(ctx, userID)
		if err != nil {
			return err
		}
		if !actor.CanManage(user.ID) {
			return ErrNotAllowed
		}

		deleted, err := tx.SoftDelete(ctx, user.ID, s.now().UTC())
		if err != nil {
			return err
		}
		if !deleted {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.events.Publish(ctx, events.Event{
		Type:       events.TypeUserDeleted,
		ActorID:    actor.ID,
		UserID:     userID,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

func validateName(value string) (string, error) {
	name := strings.TrimSpace(value)
	length := utf8.RuneCountInString(name)
	if length < minNameLength || length > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func validateEmail(email string) error {
	if email == "" || len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}
