package user

import "github.com/malprimis/petanchiki/internal/domain/apperr"

var (
	ErrUserNotFound     = apperr.New(apperr.ErrNotFound, "user not found")
	ErrEmailTaken       = apperr.New(apperr.ErrConflict, "email already registered")
	ErrNotAllowed       = apperr.New(apperr.ErrForbidden, "not enough rights")
	ErrInvalidEmail     = apperr.New(apperr.ErrInvalid, "invalid email")
	ErrInvalidName      = apperr.New(apperr.ErrInvalid, "name must be 3 to 30 characters")
	ErrPasswordTooShort = apperr.New(apperr.ErrInvalid, "password too short")
)
