package group

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/db/dbtest"
	groupdomain "github.com/malprimis/petanchiki/internal/domain/group"
	userdomain "github.com/malprimis/petanchiki/internal/domain/user"
	"gorm.io/gorm"
)

func deactivateUser(t *testing.T, gormDB *gorm.DB, userID string) {
	t.Helper()
	if err := gormDB.Model(&userdomain.User{}).Where("id = ?", userID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate user: %v", err)
	}
}

func TestAddMembershipDuplicateIsAlreadyMember(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	owner := dbtest.CreateUser(t, gormDB, "owner")
	g := dbtest.CreateGroup(t, gormDB, owner.ID, "home")

	err := repo.AddMembership(ctx, &groupdomain.Membership{
		ID:       uuid.NewString(),
		GroupID:  g.ID,
		UserID:   owner.ID,
		Role:     groupdomain.RoleMember,
		JoinedAt: time.Now().UTC(),
	})
	if !errors.Is(err, groupdomain.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestActiveRoleIgnoresInactiveUsersAndGroups(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	owner := dbtest.CreateUser(t, gormDB, "owner")
	member := dbtest.CreateUser(t, gormDB, "member")
	g := dbtest.CreateGroup(t, gormDB, owner.ID, "home")
	dbtest.AddMember(t, gormDB, g.ID, member.ID, groupdomain.RoleMember)

	role, ok, err := repo.ActiveRole(ctx, g.ID, member.ID)
	if err != nil || !ok || role != groupdomain.RoleMember {
		t.Fatalf("expected member role, got %q %v %v", role, ok, err)
	}

	deactivateUser(t, gormDB, member.ID)
	if _, ok, err := repo.ActiveRole(ctx, g.ID, member.ID); err != nil || ok {
		t.Fatalf("expected inactive user to have no role, got %v %v", ok, err)
	}
	if _, err := repo.GetMembership(ctx, g.ID, member.ID); err != nil {
		t.Fatalf("expected raw membership row to remain, got %v", err)
	}

	deleted, err := repo.SoftDeleteGroup(ctx, g.ID, time.Now().UTC())
	if err != nil || !deleted {
		t.Fatalf("soft delete: %v %v", deleted, err)
	}
	if _, ok, err := repo.ActiveRole(ctx, g.ID, owner.ID); err != nil || ok {
		t.Fatalf("expected deleted group to have no roles, got %v %v", ok, err)
	}
	if _, err := repo.GetActiveGroup(ctx, g.ID); !errors.Is(err, groupdomain.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
	deleted, err = repo.SoftDeleteGroup(ctx, g.ID, time.Now().UTC())
	if err != nil || deleted {
		t.Fatalf("expected second delete to affect nothing, got %v %v", deleted, err)
	}
}

func TestCountActiveAdmins(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	owner := dbtest.CreateUser(t, gormDB, "owner")
	second := dbtest.CreateUser(t, gormDB, "second")
	g := dbtest.CreateGroup(t, gormDB, owner.ID, "home")
	dbtest.AddMember(t, gormDB, g.ID, second.ID, groupdomain.RoleAdmin)

	count, err := repo.CountActiveAdmins(ctx, g.ID, owner.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected 1 other admin, got %d %v", count, err)
	}

	deactivateUser(t, gormDB, second.ID)
	count, err = repo.CountActiveAdmins(ctx, g.ID, owner.ID)
	if err != nil || count != 0 {
		t.Fatalf("expected inactive admin not counted, got %d %v", count, err)
	}
}

func TestResolveActiveUser(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	u := dbtest.CreateUser(t, gormDB, "ann")

	id, err := repo.ResolveActiveUser(ctx, "", u.Email)
	if err != nil || id != u.ID {
		t.Fatalf("resolve by email: %q %v", id, err)
	}
	id, err = repo.ResolveActiveUser(ctx, u.ID, "")
	if err != nil || id != u.ID {
		t.Fatalf("resolve by id: %q %v", id, err)
	}

	deactivateUser(t, gormDB, u.ID)
	if _, err := repo.ResolveActiveUser(ctx, u.ID, ""); !errors.Is(err, groupdomain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMembershipRoleAndDelete(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	owner := dbtest.CreateUser(t, gormDB, "owner")
	member := dbtest.CreateUser(t, gormDB, "member")
	g := dbtest.CreateGroup(t, gormDB, owner.ID, "home")
	dbtest.AddMember(t, gormDB, g.ID, member.ID, groupdomain.RoleMember)

	updated, err := repo.UpdateMembershipRole(ctx, g.ID, member.ID, groupdomain.RoleAdmin)
	if err != nil || !updated {
		t.Fatalf("update role: %v %v", updated, err)
	}
	membership, err := repo.GetMembership(ctx, g.ID, member.ID)
	if err != nil || membership.Role != groupdomain.RoleAdmin {
		t.Fatalf("expected admin, got %+v %v", membership, err)
	}

	removed, err := repo.DeleteMembership(ctx, g.ID, member.ID)
	if err != nil || !removed {
		t.Fatalf("delete membership: %v %v", removed, err)
	}
	removed, err = repo.DeleteMembership(ctx, g.ID, member.ID)
	if err != nil || removed {
		t.Fatalf("expected second delete to affect nothing, got %v %v", removed, err)
	}
	updated, err = repo.UpdateMembershipRole(ctx, g.ID, member.ID, groupdomain.RoleMember)
	if err != nil || updated {
		t.Fatalf("expected missing row update to affect nothing, got %v %v", updated, err)
	}
	if _, err := repo.GetMembership(ctx, g.ID, member.ID); !errors.Is(err, groupdomain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestListMembersAndGroups(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	owner := dbtest.CreateUser(t, gormDB, "owner")
	member := dbtest.CreateUser(t, gormDB, "member")
	home := dbtest.CreateGroup(t, gormDB, owner.ID, "home")
	trip := dbtest.CreateGroup(t, gormDB, owner.ID, "away")
	dbtest.AddMember(t, gormDB, home.ID, member.ID, groupdomain.RoleMember)

	deactivateUser(t, gormDB, member.ID)

	active, err := repo.ListMembers(ctx, home.ID, false)
	if err != nil || len(active) != 1 || active[0].UserID != owner.ID {
		t.Fatalf("expected only the owner, got %+v %v", active, err)
	}
	all, err := repo.ListMembers(ctx, home.ID, true)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected both rows, got %+v %v", all, err)
	}

	groups, err := repo.ListActiveGroupsByUser(ctx, owner.ID)
	if err != nil || len(groups) != 2 {
		t.Fatalf("expected two groups, got %+v %v", groups, err)
	}
	if groups[0].ID != trip.ID {
		t.Fatalf("expected groups ordered by name, got %s first", groups[0].Name)
	}

	if _, err := repo.SoftDeleteGroup(ctx, trip.ID, time.Now().UTC()); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	groups, err = repo.ListActiveGroupsByUser(ctx, owner.ID)
	if err != nil || len(groups) != 1 || groups[0].ID != home.ID {
		t.Fatalf("expected only the active group, got %+v %v", groups, err)
	}

	memberships, err := repo.ListMembershipsByUser(ctx, owner.ID)
	if err != nil || len(memberships) != 2 {
		t.Fatalf("expected raw memberships in both groups, got %+v %v", memberships, err)
	}
}

func TestCreateGroupInTransactionRollsBack(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	owner := dbtest.CreateUser(t, gormDB, "owner")
	id := uuid.NewString()
	sentinel := errors.New("abort")

	err := repo.Transaction(ctx, func(tx groupdomain.Repository) error {
		if err := tx.CreateGroup(ctx, &groupdomain.Group{ID: id, Name: "home", OwnerID: owner.ID, IsActive: true}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if _, err := repo.GetActiveGroup(ctx, id); !errors.Is(err, groupdomain.ErrGroupNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}
