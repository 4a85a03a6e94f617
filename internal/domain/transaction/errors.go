package transaction

import "github.com/malprimis/petanchiki/internal/domain/apperr"

var (
	ErrTransactionNotFound = apperr.New(apperr.ErrNotFound, "transaction not found")
	ErrNotMember           = apperr.New(apperr.ErrForbidden, "not a group member")
	ErrNotAllowed          = apperr.New(apperr.ErrForbidden, "only the author or a group admin can access the transaction")
	ErrCategoryNotInGroup  = apperr.New(apperr.ErrInvalid, "category does not belong to the group")
	ErrInvalidAmount       = apperr.New(apperr.ErrInvalid, "amount must be positive with at most 2 decimal places")
	ErrInvalidType         = apperr.New(apperr.ErrInvalid, "type must be income or expense")
	ErrInvalidDate         = apperr.New(apperr.ErrInvalid, "date is required")
	ErrInvalidRange        = apperr.New(apperr.ErrInvalid, "date_from must not be after date_to")
)
