package group

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetActiveGroup(ctx context.Context, groupID string) (*Group, error)
	ListActiveGroupsByUser(ctx context.Context, userID string) ([]Group, error)
	CreateGroup(ctx context.Context, group *Group) error
	UpdateGroup(ctx context.Context, group *Group) error
	SoftDeleteGroup(ctx context.Context, groupID string, at time.Time) (bool, error)

	// ResolveActiveUser returns the id of the active user matching userID,
	// or email when userID is empty.
	ResolveActiveUser(ctx context.Context, userID, email string) (string, error)

	// GetMembership returns the raw row whatever the state of the user.
	GetMembership(ctx context.Context, groupID, userID string) (*Membership, error)
	AddMembership(ctx context.Context, membership *Membership) error
	UpdateMembershipRole(ctx context.Context, groupID, userID string, role Role) (bool, error)
	DeleteMembership(ctx context.Context, groupID, userID string) (bool, error)

	// ActiveRole returns the role of userID in groupID when both the user and
	// the group are active.
	ActiveRole(ctx context.Context, groupID, userID string) (Role, bool, error)
	CountActiveAdmins(ctx context.Context, groupID, excludeUserID string) (int64, error)
	ListMembers(ctx context.Context, groupID string, includeInactive bool) ([]Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]Membership, error)
}
