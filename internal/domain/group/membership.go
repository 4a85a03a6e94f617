package group

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/malprimis/petanchiki/internal/events"
)

// IsMember reports whether userID holds any role in groupID. Inactive users
// and inactive groups never match.
func (s *Service) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	_, ok, err := s.repo.ActiveRole(ctx, groupID, userID)
	return ok, err
}

// IsAdmin reports whether userID holds the admin role in groupID under the
// same activity rules as IsMember.
func (s *Service) IsAdmin(ctx context.Context, groupID, userID string) (bool, error) {
	role, ok, err := s.repo.ActiveRole(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	return ok && role == RoleAdmin, nil
}

// AddMember inserts a membership row. It does not check who is asking;
// callers must have established that the actor administers the group, see
// AddMemberAs.
func (s *Service) AddMember(ctx context.Context, groupID string, target MemberTarget, role Role) (*Membership, error) {
	var created *Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		created, err = s.addMember(ctx, tx, groupID, target, role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeMemberAdded, GroupID: groupID, UserID: created.UserID, Role: string(created.Role)})
	return created, nil
}

func (s *Service) AddMemberAs(ctx context.Context, actor user.Principal, groupID string, target MemberTarget, role Role) (*Membership, error) {
	var created *Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := requireAdmin(ctx, tx, groupID, actor.ID); err != nil {
			return err
		}
		var err error
		created, err = s.addMember(ctx, tx, groupID, target, role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeMemberAdded, ActorID: actor.ID, GroupID: groupID, UserID: created.UserID, Role: string(created.Role)})
	return created, nil
}

// RemoveMember deletes the membership row. A missing row is reported as
// ErrMemberNotFound.
func (s *Service) RemoveMember(ctx context.Context, groupID, userID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		return s.removeMember(ctx, tx, groupID, userID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.TypeMemberRemoved, GroupID: groupID, UserID: userID})
	return nil
}

func (s *Service) RemoveMemberAs(ctx context.Context, actor user.Principal, groupID, userID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := requireAdmin(ctx, tx, groupID, actor.ID); err != nil {
			return err
		}
		return s.removeMember(ctx, tx, groupID, userID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.TypeMemberRemoved, ActorID: actor.ID, GroupID: groupID, UserID: userID})
	return nil
}

func (s *Service) ChangeRole(ctx context.Context, groupID, userID string, role Role) (*Membership, error) {
	var updated *Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		updated, err = s.changeRole(ctx, tx, groupID, userID, role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeMemberRoleChanged, GroupID: groupID, UserID: userID, Role: string(role)})
	return updated, nil
}

func (s *Service) ChangeRoleAs(ctx context.Context, actor user.Principal, groupID, userID string, role Role) (*Membership, error) {
	var updated *Membership
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := requireAdmin(ctx, tx, groupID, actor.ID); err != nil {
			return err
		}
		var err error
		updated, err = s.changeRole(ctx, tx, groupID, userID, role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeMemberRoleChanged, ActorID: actor.ID, GroupID: groupID, UserID: userID, Role: string(role)})
	return updated, nil
}

// ListMembers returns the memberships of active users. With includeInactive
// the rows of deleted users are returned too; that view is reserved to group
// admins and platform admins.
func (s *Service) ListMembers(ctx context.Context, actor user.Principal, groupID string, includeInactive bool) ([]Membership, error) {
	if _, err := s.repo.GetActiveGroup(ctx, groupID); err != nil {
		return nil, err
	}

	if !actor.IsAdmin {
		role, ok, err := s.repo.ActiveRole(ctx, groupID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotMember
		}
		if includeInactive && role != RoleAdmin {
			return nil, ErrNotAdmin
		}
	}

	return s.repo.ListMembers(ctx, groupID, includeInactive)
}

// ListMembershipHistory returns every membership row of userID, including
// rows in deleted groups and rows of a deleted user.
func (s *Service) ListMembershipHistory(ctx context.Context, actor user.Principal, userID string) ([]Membership, error) {
	if !actor.CanManage(userID) {
		return nil, ErrNotAllowed
	}
	return s.repo.ListMembershipsByUser(ctx, userID)
}

func (s *Service) addMember(ctx context.Context, tx Repository, groupID string, target MemberTarget, role Role) (*Membership, error) {
	target.UserID = strings.TrimSpace(target.UserID)
	target.Email = strings.TrimSpace(target.Email)
	if target.UserID == "" && target.Email == "" {
		return nil, ErrInvalidTarget
	}
	if role == "" {
		role = RoleMember
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := tx.GetActiveGroup(ctx, groupID); err != nil {
		return nil, err
	}

	userID, err := tx.ResolveActiveUser(ctx, target.UserID, target.Email)
	if err != nil {
		return nil, err
	}

	existing, err := tx.GetMembership(ctx, groupID, userID)
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	membership := Membership{
		ID:       uuid.NewString(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: s.now().UTC(),
	}
	// The unique (group_id, user_id) constraint settles concurrent inserts;
	// the repository reports the loser as ErrAlreadyMember.
	if err := tx.AddMembership(ctx, &membership); err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *Service) removeMember(ctx context.Context, tx Repository, groupID, userID string) error {
	if s.opts.ProtectLastAdmin {
		if err := s.ensureAdminRemains(ctx, tx, groupID, userID); err != nil {
			return err
		}
	}

	deleted, err := tx.DeleteMembership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}

func (s *Service) changeRole(ctx context.Context, tx Repository, groupID, userID string, role Role) (*Membership, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if s.opts.ProtectLastAdmin && role != RoleAdmin {
		if err := s.ensureAdminRemains(ctx, tx, groupID, userID); err != nil {
			return nil, err
		}
	}

	updated, err := tx.UpdateMembershipRole(ctx, groupID, userID, role)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrMemberNotFound
	}

	return tx.GetMembership(ctx, groupID, userID)
}

// ensureAdminRemains fails when userID is an admin of groupID and no other
// active admin would be left without them.
func (s *Service) ensureAdminRemains(ctx context.Context, tx Repository, groupID, userID string) error {
	membership, err := tx.GetMembership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if membership.Role != RoleAdmin {
		return nil
	}

	others, err := tx.CountActiveAdmins(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if others == 0 {
		return ErrLastAdmin
	}
	return nil
}

func requireAdmin(ctx context.Context, tx Repository, groupID, actorID string) error {
	if _, err := tx.GetActiveGroup(ctx, groupID); err != nil {
		return err
	}

	role, ok, err := tx.ActiveRole(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if !ok || role != RoleAdmin {
		return ErrNotAdmin
	}
	return nil
}
