package user

import "time"

const (
	minNameLength     = 3
	maxNameLength     = 30
	minPasswordLength = 8
	maxEmailLength    = 255
)

// User emails are unique among active users only, so a soft-deleted user's
// address can be registered again.
type User struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"size:255;not null;index:idx_users_active_email,unique,where:is_active = true"`
	Name         string     `gorm:"size:30;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	IsAdmin      bool       `gorm:"not null;default:false"`
	IsActive     bool       `gorm:"not null;default:true;index"`
	DeletedAt    *time.Time `gorm:"column:deleted_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

// Principal is the authenticated actor of an operation. It never carries
// credentials.
type Principal struct {
	ID      string
	IsAdmin bool
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, IsAdmin: u.IsAdmin}
}

// CanManage reports whether p may read, update or delete the profile of
// targetID.
func (p Principal) CanManage(targetID string) bool {
	return p.ID == targetID || p.IsAdmin
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type UpdateInput struct {
	Name     *string
	Password *string
}
