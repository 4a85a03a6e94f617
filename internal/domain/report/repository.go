package report

import "context"

type Repository interface {
	Totals(ctx context.Context, groupID string, filter Filter) ([]TypeTotal, error)
	ByCategory(ctx context.Context, groupID string, filter Filter) ([]CategoryTotal, error)
	// ByUser includes authors who were deleted or left the group.
	ByUser(ctx context.Context, groupID string, filter Filter) ([]UserTotal, error)
}

type Membership interface {
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}
