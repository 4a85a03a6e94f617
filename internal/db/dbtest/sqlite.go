// Package dbtest opens throwaway SQLite databases carrying the ledger schema
// for repository tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/db"
	"github.com/malprimis/petanchiki/internal/domain/category"
	"github.com/malprimis/petanchiki/internal/domain/group"
	"github.com/malprimis/petanchiki/internal/domain/transaction"
	"github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/malprimis/petanchiki/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open returns an in-memory database private to t. A single connection is
// used so every statement sees the same memory database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(logger.Discard(), "silent", 0))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := gormDB.AutoMigrate(
		&user.User{},
		&group.Group{},
		&group.Membership{},
		&category.Category{},
		&transaction.Transaction{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return gormDB
}

// CreateUser inserts an active user with a unique email.
func CreateUser(t testing.TB, gormDB *gorm.DB, name string) *user.User {
	t.Helper()

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        name + "-" + uuid.NewString()[:8] + "@example.com",
		Name:         name,
		PasswordHash: "hash",
		IsActive:     true,
	}
	if err := gormDB.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateGroup inserts an active group owned by ownerID with ownerID as admin.
func CreateGroup(t testing.TB, gormDB *gorm.DB, ownerID, name string) *group.Group {
	t.Helper()

	g := &group.Group{
		ID:       uuid.NewString(),
		Name:     name,
		OwnerID:  ownerID,
		IsActive: true,
	}
	if err := gormDB.Create(g).Error; err != nil {
		t.Fatalf("create group: %v", err)
	}
	AddMember(t, gormDB, g.ID, ownerID, group.RoleAdmin)
	return g
}

func AddMember(t testing.TB, gormDB *gorm.DB, groupID, userID string, role group.Role) {
	t.Helper()

	membership := &group.Membership{
		ID:      uuid.NewString(),
		GroupID: groupID,
		UserID:  userID,
		Role:    role,
	}
	if err := gormDB.Create(membership).Error; err != nil {
		t.Fatalf("add member: %v", err)
	}
}
