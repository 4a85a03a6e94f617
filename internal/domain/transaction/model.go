package transaction

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func ParseType(value string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(value))) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	default:
		return "", ErrInvalidType
	}
}

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Transaction struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	GroupID     string          `gorm:"type:uuid;not null;index"`
	CategoryID  string          `gorm:"type:uuid;not null;index"`
	UserID      string          `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Type        Type            `gorm:"type:varchar(16);not null"`
	Description string          `gorm:"type:text;not null;default:''"`
	Date        time.Time       `gorm:"not null;index"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

type ListFilter struct {
	UserID     string
	CategoryID string
	From       *time.Time
	To         *time.Time
	Type       Type
	Offset     int
	Limit      int
}

type CreateInput struct {
	GroupID     string
	CategoryID  string
	Amount      decimal.Decimal
	Type        Type
	Description string
	Date        time.Time
}

type UpdateInput struct {
	CategoryID  *string
	Amount      *decimal.Decimal
	Type        *Type
	Description *string
	Date        *time.Time
}
