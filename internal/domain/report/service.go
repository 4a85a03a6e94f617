package report

import (
	"context"
	"sort"

	"github.com/malprimis/petanchiki/internal/domain/transaction"
	"github.com/malprimis/petanchiki/internal/domain/user"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo       Repository
	membership Membership
}

func NewService(repo Repository, membership Membership) *Service {
	return &Service{repo: repo, membership: membership}
}

func (s *Service) Summary(ctx context.Context, actor user.Principal, groupID string, filter Filter) (*Summary, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, ErrInvalidRange
	}

	member, err := s.membership.IsMember(ctx, groupID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}

	totals, err := s.repo.Totals(ctx, groupID, filter)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		GroupID:      groupID,
		From:         filter.From,
		To:           filter.To,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		ByCategory:   []Breakdown{},
		ByUser:       []Breakdown{},
	}
	for _, row := range totals {
		switch row.Type {
		case transaction.TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(row.Total)
		case transaction.TypeExpense:
			summary.TotalExpense = summary.TotalExpense.Add(row.Total)
		}
		summary.Count += row.Count
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	if filter.ByCategory {
		rows, err := s.repo.ByCategory(ctx, groupID, filter)
		if err != nil {
			return nil, err
		}
		folder := newBreakdownFolder()
		for _, row := range rows {
			folder.add(row.CategoryID, row.CategoryName, row.Type, row.Total, row.Count)
		}
		summary.ByCategory = folder.result()
	}

	if filter.ByUser {
		rows, err := s.repo.ByUser(ctx, groupID, filter)
		if err != nil {
			return nil, err
		}
		folder := newBreakdownFolder()
		for _, row := range rows {
			folder.add(row.UserID, row.UserName, row.Type, row.Total, row.Count)
		}
		summary.ByUser = folder.result()
	}

	return summary, nil
}

// breakdownFolder merges per-type rows into one row per id.
type breakdownFolder struct {
	order []string
	items map[string]*Breakdown
}

func newBreakdownFolder() *breakdownFolder {
	return &breakdownFolder{items: make(map[string]*Breakdown)}
}

func (f *breakdownFolder) add(id, name string, typ transaction.Type, total decimal.Decimal, count int64) {
	item, ok := f.items[id]
	if !ok {
		item = &Breakdown{ID: id, Name: name, Income: decimal.Zero, Expense: decimal.Zero}
		f.items[id] = item
		f.order = append(f.order, id)
	}
	switch typ {
	case transaction.TypeIncome:
		item.Income = item.Income.Add(total)
	case transaction.TypeExpense:
		item.Expense = item.Expense.Add(total)
	}
	item.Count += count
}

// result orders rows by turnover, largest first, then by name.
func (f *breakdownFolder) result() []Breakdown {
	rows := make([]Breakdown, 0, len(f.order))
	for _, id := range f.order {
		rows = append(rows, *f.items[id])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		left := rows[i].Income.Add(rows[i].Expense)
		right := rows[j].Income.Add(rows[j].Expense)
		if !left.Equal(right) {
			return left.GreaterThan(right)
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
