package group

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember, "":
		return RoleMember, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type Group struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"size:150;not null"`
	Description string     `gorm:"type:text;not null;default:''"`
	OwnerID     string     `gorm:"type:uuid;not null;index"`
	IsActive    bool       `gorm:"not null;default:true"`
	DeletedAt   *time.Time `gorm:"column:deleted_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

// Membership binds one user to one group. At most one row exists per
// (group, user) pair.
type Membership struct {
	ID       string    `gorm:"type:uuid;primaryKey"`
	GroupID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_groups_group_user"`
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_groups_group_user;index"`
	Role     Role      `gorm:"type:varchar(16);not null"`
	JoinedAt time.Time `gorm:"not null"`
}

func (Membership) TableName() string {
	return "user_groups"
}

// MemberTarget identifies the user to add, by id or by email.
type MemberTarget struct {
	UserID string
	Email  string
}

type CreateInput struct {
	Name        string
	Description string
}

type UpdateInput struct {
	Name        *string
	Description *string
}

type Options struct {
	// ProtectLastAdmin rejects removing or demoting the last active admin of
	// a group.
	ProtectLastAdmin bool
}
