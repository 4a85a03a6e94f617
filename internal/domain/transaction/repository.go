package transaction

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// CategoryInGroup reports whether categoryID exists and belongs to groupID.
	CategoryInGroup(ctx context.Context, groupID, categoryID string) (bool, error)

	Create(ctx context.Context, transaction *Transaction) error
	// GetByID only resolves transactions of active groups.
	GetByID(ctx context.Context, transactionID string) (*Transaction, error)
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, transactionID string) (bool, error)
	List(ctx context.Context, groupID string, filter ListFilter) ([]Transaction, error)
}

// Membership answers group-scoped permission questions.
type Membership interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	IsAdmin(ctx context.Context, groupID, userID string) (bool, error)
}
