package group

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/malprimis/petanchiki/internal/events"
)

const maxGroupNameLength = 150

type Service struct {
	repo   Repository
	events events.Publisher
	opts   Options
	now    func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, opts Options) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		repo:   repo,
		events: publisher,
		opts:   opts,
		now:    time.Now,
	}
}

// CreateGroup stores the group and the owner's admin membership in a single
// unit of work.
func (s *Service) CreateGroup(ctx context.Context, actor user.Principal, input CreateInput) (*Group, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	group := Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     actor.ID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.ResolveActiveUser(ctx, actor.ID, ""); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return ErrNotAllowed
			}
			return err
		}

		if err := tx.CreateGroup(ctx, &group); err != nil {
			return err
		}

		return tx.AddMembership(ctx, &Membership{
			ID:       uuid.NewString(),
			GroupID:  group.ID,
			UserID:   actor.ID,
			Role:     RoleAdmin,
			JoinedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeGroupCreated, ActorID: actor.ID, GroupID: group.ID, UserID: actor.ID, Role: string(RoleAdmin)})
	return &group, nil
}

func (s *Service) GetGroup(ctx context.Context, actor user.Principal, groupID string) (*Group, error) {
	group, err := s.repo.GetActiveGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin {
		return group, nil
	}

	_, ok, err := s.repo.ActiveRole(ctx, groupID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	return group, nil
}

func (s *Service) ListGroups(ctx context.Context, actor user.Principal) ([]Group, error) {
	return s.repo.ListActiveGroupsByUser(ctx, actor.ID)
}

func (s *Service) UpdateGroup(ctx context.Context, actor user.Principal, groupID string, input UpdateInput) (*Group, error) {
	var updated Group
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := tx.GetActiveGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if !canModify(actor, group) {
			return ErrNotOwner
		}

		changed := false
		if input.Name != nil {
			name, err := validateName(*input.Name)
			if err != nil {
				return err
			}
			group.Name = name
			changed = true
		}
		if input.Description != nil {
			group.Description = strings.TrimSpace(*input.Description)
			changed = true
		}

		if changed {
			group.UpdatedAt = s.now().UTC()
			if err := tx.UpdateGroup(ctx, group); err != nil {
				return err
			}
		}

		updated = *group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGroup tombstones the group. Memberships, categories and
// transactions are kept for audit; guards stop resolving the group.
func (s *Service) DeleteGroup(ctx context.Context, actor user.Principal, groupID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := tx.GetActiveGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if !canModify(actor, group) {
			return ErrNotOwner
		}

		deleted, err := tx.SoftDeleteGroup(ctx, group.ID, s.now().UTC())
		if err != nil {
			return err
		}
		if !deleted {
			return ErrGroupNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.TypeGroupDeleted, ActorID: actor.ID, GroupID: groupID})
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = s.now().UTC()
	_ = s.events.Publish(ctx, event)
}

func canModify(actor user.Principal, group *Group) bool {
	return group.OwnerID == actor.ID || actor.IsAdmin
}

func validateName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" || utf8.RuneCountInString(name) > maxGroupNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
