package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/db/dbtest"
	categorydomain "github.com/malprimis/petanchiki/internal/domain/category"
	groupdomain "github.com/malprimis/petanchiki/internal/domain/group"
	domain "github.com/malprimis/petanchiki/internal/domain/transaction"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	repo     *PostgresRepository
	ownerID  string
	groupID  string
	category string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	gormDB := dbtest.Open(t)
	owner := dbtest.CreateUser(t, gormDB, "owner")
	g := dbtest.CreateGroup(t, gormDB, owner.ID, "home")
	food := &categorydomain.Category{ID: uuid.NewString(), GroupID: g.ID, Name: "Food"}
	if err := gormDB.Create(food).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	return fixture{
		db:       gormDB,
		repo:     NewPostgres(gormDB),
		ownerID:  owner.ID,
		groupID:  g.ID,
		category: food.ID,
	}
}

func (f fixture) create(t *testing.T, amount string, kind domain.Type, date time.Time) *domain.Transaction {
	t.Helper()

	transaction := &domain.Transaction{
		ID:         uuid.NewString(),
		GroupID:    f.groupID,
		CategoryID: f.category,
		UserID:     f.ownerID,
		Amount:     decimal.RequireFromString(amount),
		Type:       kind,
		Date:       date,
	}
	if err := f.repo.Create(context.Background(), transaction); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return transaction
}

func TestCategoryInGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ok, err := f.repo.CategoryInGroup(ctx, f.groupID, f.category)
	if err != nil || !ok {
		t.Fatalf("expected category in group, got %v %v", ok, err)
	}
	ok, err = f.repo.CategoryInGroup(ctx, uuid.NewString(), f.category)
	if err != nil || ok {
		t.Fatalf("expected category outside other group, got %v %v", ok, err)
	}
}

func TestGetByIDHidesDeletedGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.create(t, "12.50", domain.TypeExpense, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	stored, err := f.repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Amount.Equal(decimal.RequireFromString("12.5")) || stored.Type != domain.TypeExpense {
		t.Fatalf("unexpected transaction: %+v", stored)
	}

	if err := f.db.Model(&groupdomain.Group{}).Where("id = ?", f.groupID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate group: %v", err)
	}
	if _, err := f.repo.GetByID(ctx, created.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.create(t, "10.00", domain.TypeExpense, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	created.Amount = decimal.RequireFromString("20.25")
	created.Type = domain.TypeIncome
	created.Description = "refund"
	if err := f.repo.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, err := f.repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Amount.Equal(decimal.RequireFromString("20.25")) || stored.Type != domain.TypeIncome || stored.Description != "refund" {
		t.Fatalf("unexpected transaction: %+v", stored)
	}

	deleted, err := f.repo.Delete(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: %v %v", deleted, err)
	}
	deleted, err = f.repo.Delete(ctx, created.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to affect nothing, got %v %v", deleted, err)
	}
}

func TestListFiltersAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	march := f.create(t, "10.00", domain.TypeExpense, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	april := f.create(t, "20.00", domain.TypeIncome, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	may := f.create(t, "30.00", domain.TypeExpense, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	all, err := f.repo.List(ctx, f.groupID, domain.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != may.ID || all[2].ID != march.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}

	expenses, err := f.repo.List(ctx, f.groupID, domain.ListFilter{Type: domain.TypeExpense})
	if err != nil || len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d %v", len(expenses), err)
	}

	from := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ranged, err := f.repo.List(ctx, f.groupID, domain.ListFilter{From: &from, To: &to})
	if err != nil || len(ranged) != 1 || ranged[0].ID != april.ID {
		t.Fatalf("expected april only with inclusive bounds, got %+v %v", ranged, err)
	}

	page, err := f.repo.List(ctx, f.groupID, domain.ListFilter{Offset: 1, Limit: 1})
	if err != nil || len(page) != 1 || page[0].ID != april.ID {
		t.Fatalf("expected second row, got %+v %v", page, err)
	}

	none, err := f.repo.List(ctx, f.groupID, domain.ListFilter{UserID: uuid.NewString()})
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no rows for unknown author, got %+v %v", none, err)
	}
}
