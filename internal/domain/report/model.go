package report

import (
	"time"

	"github.com/malprimis/petanchiki/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

type Filter struct {
	From       *time.Time
	To         *time.Time
	ByCategory bool
	ByUser     bool
}

// TypeTotal is one aggregate row grouped by transaction type.
type TypeTotal struct {
	Type  transaction.Type `gorm:"column:type"`
	Total decimal.Decimal  `gorm:"column:total"`
	Count int64            `gorm:"column:count"`
}

type CategoryTotal struct {
	CategoryID   string           `gorm:"column:category_id"`
	CategoryName string           `gorm:"column:category_name"`
	Type         transaction.Type `gorm:"column:type"`
	Total        decimal.Decimal  `gorm:"column:total"`
	Count        int64            `gorm:"column:count"`
}

type UserTotal struct {
	UserID   string           `gorm:"column:user_id"`
	UserName string           `gorm:"column:user_name"`
	Type     transaction.Type `gorm:"column:type"`
	Total    decimal.Decimal  `gorm:"column:total"`
	Count    int64            `gorm:"column:count"`
}

type Breakdown struct {
	ID      string
	Name    string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Count   int64
}

type Summary struct {
	GroupID      string
	From         *time.Time
	To           *time.Time
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	Count        int64
	ByCategory   []Breakdown
	ByUser       []Breakdown
}
