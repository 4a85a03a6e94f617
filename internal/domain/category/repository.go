package category

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListByGroup(ctx context.Context, groupID string) ([]Category, error)
	GetByID(ctx context.Context, categoryID string) (*Category, error)
	// CountByName matches name exactly, case included. excludeID is ignored
	// when empty.
	CountByName(ctx context.Context, groupID, name, excludeID string) (int64, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, categoryID string) (bool, error)
	CountTransactions(ctx context.Context, categoryID string) (int64, error)
}

// Membership answers group-scoped permission questions.
type Membership interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}
