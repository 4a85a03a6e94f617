package report

import "github.com/malprimis/petanchiki/internal/domain/apperr"

var (
	ErrNotMember    = apperr.New(apperr.ErrForbidden, "not a group member")
	ErrInvalidRange = apperr.New(apperr.ErrInvalid, "date_from must not be after date_to")
)
