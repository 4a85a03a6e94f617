package group

import "github.com/malprimis/petanchiki/internal/domain/apperr"

var (
	ErrGroupNotFound  = apperr.New(apperr.ErrNotFound, "group not found")
	ErrUserNotFound   = apperr.New(apperr.ErrNotFound, "user not found")
	ErrMemberNotFound = apperr.New(apperr.ErrNotFound, "member not found")
	ErrAlreadyMember  = apperr.New(apperr.ErrConflict, "user already in group")
	ErrLastAdmin      = apperr.New(apperr.ErrConflict, "group must keep at least one admin")
	ErrNotMember      = apperr.New(apperr.ErrForbidden, "not a group member")
	ErrNotAdmin       = apperr.New(apperr.ErrForbidden, "only group admins can manage members")
	ErrNotOwner       = apperr.New(apperr.ErrForbidden, "only the owner can modify the group")
	ErrNotAllowed     = apperr.New(apperr.ErrForbidden, "not enough rights")
	ErrInvalidRole    = apperr.New(apperr.ErrInvalid, "role must be admin or member")
	ErrInvalidName    = apperr.New(apperr.ErrInvalid, "name must be 1 to 150 characters")
	ErrInvalidTarget  = apperr.New(apperr.ErrInvalid, "user_id or email is required")
)
