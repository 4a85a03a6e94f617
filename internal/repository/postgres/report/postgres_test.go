package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/malprimis/petanchiki/internal/db/dbtest"
	"github.com/malprimis/petanchiki/internal/domain/category"
	groupdomain "github.com/malprimis/petanchiki/internal/domain/group"
	domain "github.com/malprimis/petanchiki/internal/domain/report"
	"github.com/malprimis/petanchiki/internal/domain/transaction"
	"github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedTransaction(t *testing.T, gormDB *gorm.DB, groupID, categoryID, userID, amount string, kind transaction.Type, date time.Time) {
	t.Helper()

	if err := gormDB.Create(&transaction.Transaction{
		ID:         uuid.NewString(),
		GroupID:    groupID,
		CategoryID: categoryID,
		UserID:     userID,
		Amount:     decimal.RequireFromString(amount),
		Type:       kind,
		Date:       date,
	}).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}
}

func findType(rows []domain.TypeTotal, kind transaction.Type) (domain.TypeTotal, bool) {
	for _, row := range rows {
		if row.Type == kind {
			return row, true
		}
	}
	return domain.TypeTotal{}, false
}

func TestAggregates(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)
	ctx := context.Background()

	owner := dbtest.CreateUser(t, gormDB, "owner")
	member := dbtest.CreateUser(t, gormDB, "member")
	g := dbtest.CreateGroup(t, gormDB, owner.ID, "home")
	dbtest.AddMember(t, gormDB, g.ID, member.ID, groupdomain.RoleMember)

	food := &category.Category{ID: uuid.NewString(), GroupID: g.ID, Name: "Food"}
	salary := &category.Category{ID: uuid.NewString(), GroupID: g.ID, Name: "Salary"}
	for _, c := range []*category.Category{food, salary} {
		if err := gormDB.Create(c).Error; err != nil {
			t.Fatalf("create category: %v", err)
		}
	}

	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, gormDB, g.ID, food.ID, owner.ID, "10.50", transaction.TypeExpense, march)
	seedTransaction(t, gormDB, g.ID, food.ID, member.ID, "2.25", transaction.TypeExpense, march)
	seedTransaction(t, gormDB, g.ID, salary.ID, owner.ID, "100.00", transaction.TypeIncome, march)
	seedTransaction(t, gormDB, g.ID, salary.ID, owner.ID, "50.00", transaction.TypeIncome, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	other := dbtest.CreateGroup(t, gormDB, owner.ID, "other")
	seedTransaction(t, gormDB, other.ID, food.ID, owner.ID, "999.00", transaction.TypeExpense, march)

	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	filter := domain.Filter{To: &to}

	totals, err := repo.Totals(ctx, g.ID, filter)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	expense, ok := findType(totals, transaction.TypeExpense)
	if !ok || !expense.Total.Equal(decimal.RequireFromString("12.75")) || expense.Count != 2 {
		t.Fatalf("unexpected expense total: %+v", totals)
	}
	income, ok := findType(totals, transaction.TypeIncome)
	if !ok || !income.Total.Equal(decimal.RequireFromString("100")) || income.Count != 1 {
		t.Fatalf("unexpected income total: %+v", totals)
	}

	byCategory, err := repo.ByCategory(ctx, g.ID, filter)
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("expected one row per category and type, got %+v", byCategory)
	}
	for _, row := range byCategory {
		if row.CategoryID == food.ID && (row.CategoryName != "Food" || row.Count != 2) {
			t.Fatalf("unexpected food row: %+v", row)
		}
	}

	if err := gormDB.Model(&user.User{}).Where("id = ?", member.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate member: %v", err)
	}
	byUser, err := repo.ByUser(ctx, g.ID, filter)
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	found := false
	for _, row := range byUser {
		if row.UserID == member.ID {
			found = true
			if row.UserName != "member" || !row.Total.Equal(decimal.RequireFromString("2.25")) {
				t.Fatalf("unexpected member row: %+v", row)
			}
		}
	}
	if !found {
		t.Fatalf("expected deleted author to stay in the breakdown, got %+v", byUser)
	}
}

func TestAggregatesEmptyGroup(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := NewPostgres(gormDB)

	totals, err := repo.Totals(context.Background(), uuid.NewString(), domain.Filter{})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 0 {
		t.Fatalf("expected no rows, got %+v", totals)
	}
}
