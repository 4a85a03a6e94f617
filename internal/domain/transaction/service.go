package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// numeric(12,2) holds at most 10 integer digits.
var maxAmount = decimal.New(1, 10)

type Service struct {
	repo       Repository
	membership Membership
	now        func() time.Time
}

func NewService(repo Repository, membership Membership) *Service {
	return &Service{
		repo:       repo,
		membership: membership,
		now:        time.Now,
	}
}

func (s *Service) Create(ctx context.Context, actor user.Principal, input CreateInput) (*Transaction, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if !input.Type.Valid() {
		return nil, ErrInvalidType
	}
	if input.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	member, err := s.membership.IsMember(ctx, input.GroupID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	now := s.now().UTC()
	transaction := Transaction{
		ID:          uuid.NewString(),
		GroupID:     input.GroupID,
		CategoryID:  input.CategoryID,
		UserID:      actor.ID,
		Amount:      input.Amount,
		Type:        input.Type,
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		ok, err := tx.CategoryInGroup(ctx, input.GroupID, input.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCategoryNotInGroup
		}
		return tx.Create(ctx, &transaction)
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (s *Service) Get(ctx context.Context, actor user.Principal, transactionID string) (*Transaction, error) {
	return s.authorize(ctx, actor, transactionID)
}

// CanAccess reports whether principalID authored the transaction or
// administers its group.
func (s *Service) CanAccess(ctx context.Context, transaction *Transaction, principalID string) (bool, error) {
	if transaction.UserID == principalID {
		return true, nil
	}
	return s.membership.IsAdmin(ctx, transaction.GroupID, principalID)
}

func (s *Service) Update(ctx context.Context, actor user.Principal, transactionID string, input UpdateInput) (*Transaction, error) {
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, ErrInvalidType
	}
	if input.Date != nil && input.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	current, err := s.authorize(ctx, actor, transactionID)
	if err != nil {
		return nil, err
	}

	var updated Transaction
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		transaction, err := tx.GetByID(ctx, current.ID)
		if err != nil {
			return err
		}

		changed := false
		if input.CategoryID != nil && *input.CategoryID != transaction.CategoryID {
			ok, err := tx.CategoryInGroup(ctx, transaction.GroupID, *input.CategoryID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrCategoryNotInGroup
			}
			transaction.CategoryID = *input.CategoryID
			changed = true
		}
		if input.Amount != nil {
			transaction.Amount = *input.Amount
			changed = true
		}
		if input.Type != nil {
			transaction.Type = *input.Type
			changed = true
		}
		if input.Description != nil {
			transaction.Description = strings.TrimSpace(*input.Description)
			changed = true
		}
		if input.Date != nil {
			transaction.Date = input.Date.UTC()
			changed = true
		}

		if changed {
			transaction.UpdatedAt = s.now().UTC()
			if err := tx.Update(ctx, transaction); err != nil {
				return err
			}
		}
		updated = *transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, actor user.Principal, transactionID string) error {
	transaction, err := s.authorize(ctx, actor, transactionID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, transaction.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

// List returns the group's transactions to any member, including rows
// authored by users who were later deleted or removed from the group.
func (s *Service) List(ctx context.Context, actor user.Principal, groupID string, filter ListFilter) ([]Transaction, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, ErrInvalidRange
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, ErrInvalidType
	}

	member, err := s.membership.IsMember(ctx, groupID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	return s.repo.List(ctx, groupID, normalizeFilter(filter))
}

func (s *Service) authorize(ctx context.Context, actor user.Principal, transactionID string) (*Transaction, error) {
	transaction, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	ok, err := s.CanAccess(ctx, transaction, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAllowed
	}
	return transaction, nil
}

func normalizeFilter(filter ListFilter) ListFilter {
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return filter
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return ErrInvalidAmount
	}
	return nil
}
