package category

import "github.com/malprimis/petanchiki/internal/domain/apperr"

var (
	ErrCategoryNotFound  = apperr.New(apperr.ErrNotFound, "category not found")
	ErrCategoryNameTaken = apperr.New(apperr.ErrConflict, "category name already exists in group")
	ErrCategoryInUse     = apperr.New(apperr.ErrConflict, "category has transactions")
	ErrNotMember         = apperr.New(apperr.ErrForbidden, "not a group member")
	ErrInvalidName       = apperr.New(apperr.ErrInvalid, "name must be 1 to 100 characters")
	ErrInvalidIcon       = apperr.New(apperr.ErrInvalid, "icon must be at most 50 characters")
)
