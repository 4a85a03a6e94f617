package auth

import "github.com/malprimis/petanchiki/internal/domain/apperr"

var (
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthenticated, "incorrect email or password")
	ErrInvalidToken       = apperr.New(apperr.ErrUnauthenticated, "invalid token")
	ErrTokenExpired       = apperr.New(apperr.ErrUnauthenticated, "token expired")
)
