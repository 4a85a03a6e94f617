package category

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/domain/user"
)

const maxIconLength = 50

type Service struct {
	repo       Repository
	membership Membership
	cache      Cache
	cacheTTL   time.Duration
}

func NewService(repo Repository, membership Membership, cache Cache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		repo:       repo,
		membership: membership,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func (s *Service) List(ctx context.Context, actor user.Principal, groupID string) ([]Category, error) {
	if err := s.requireMember(ctx, groupID, actor.ID); err != nil {
		return nil, err
	}

	if cached, ok := s.cache.GetByGroupID(groupID); ok {
		return cached, nil
	}

	categories, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	s.cache.SetByGroupID(groupID, categories, s.cacheTTL)
	return categories, nil
}

func (s *Service) Create(ctx context.Context, actor user.Principal, groupID string, input CreateInput) (*Category, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	icon, err := normalizeIcon(input.Icon)
	if err != nil {
		return nil, err
	}

	if err := s.requireMember(ctx, groupID, actor.ID); err != nil {
		return nil, err
	}

	category := Category{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		Name:      name,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		count, err := tx.CountByName(ctx, groupID, name, "")
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryNameTaken
		}
		// A concurrent insert that passed the same check fails on
		// UNIQUE(group_id, name) and comes back as ErrCategoryNameTaken.
		return tx.Create(ctx, &category)
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByGroupID(groupID)
	return &category, nil
}

func (s *Service) Update(ctx context.Context, actor user.Principal, categoryID string, input UpdateInput) (*Category, error) {
	current, err := s.authorize(ctx, actor, categoryID)
	if err != nil {
		return nil, err
	}

	var updated Category
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		category, err := tx.GetByID(ctx, current.ID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name, err := validateName(*input.Name)
			if err != nil {
				return err
			}
			if name != category.Name {
				count, err := tx.CountByName(ctx, category.GroupID, name, category.ID)
				if err != nil {
					return err
				}
				if count > 0 {
					return ErrCategoryNameTaken
				}
			}
			category.Name = name
		}
		if input.Icon.Set {
			icon, err := normalizeIcon(input.Icon.Value)
			if err != nil {
				return err
			}
			category.Icon = icon
		}

		if err := tx.Update(ctx, category); err != nil {
			return err
		}
		updated = *category
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByGroupID(updated.GroupID)
	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, actor user.Principal, categoryID string) error {
	category, err := s.authorize(ctx, actor, categoryID)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		inUse, err := tx.CountTransactions(ctx, category.ID)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return ErrCategoryInUse
		}

		deleted, err := tx.Delete(ctx, category.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.DeleteByGroupID(category.GroupID)
	return nil
}

// authorize loads the category and checks that the actor belongs to its
// group. A missing category is reported before any membership question.
func (s *Service) authorize(ctx context.Context, actor user.Principal, categoryID string) (*Category, error) {
	category, err := s.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, category.GroupID, actor.ID); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) requireMember(ctx context.Context, groupID, userID string) error {
	ok, err := s.membership.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}

func validateName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func normalizeIcon(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	icon := strings.TrimSpace(*value)
	if icon == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(icon) > maxIconLength {
		return nil, ErrInvalidIcon
	}
	return &icon, nil
}
