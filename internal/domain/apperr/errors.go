// Package apperr defines the error kinds shared by every domain package.
//
// Domain packages declare their own sentinel errors with New so that callers
// can match either the specific error or its kind:
//
//	errors.Is(err, group.ErrGroupNotFound) // specific
//	errors.Is(err, apperr.ErrNotFound)     // kind
package apperr

import "errors"

var (
	// ErrNotFound marks an entity that is absent or soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks a failed authorization rule.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrInvalid marks malformed input or a cross-tenant reference.
	ErrInvalid = errors.New("invalid")
	// ErrUnauthenticated marks missing or rejected credentials.
	ErrUnauthenticated = errors.New("unauthenticated")
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalid
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

type kindError struct {
	kind    error
	message string
}

func (e *kindError) Error() string {
	return e.message
}

func (e *kindError) Unwrap() error {
	return e.kind
}

// New returns a sentinel error that matches kind under errors.Is.
func New(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

// Invalid builds a one-off validation error.
func Invalid(message string) error {
	return &kindError{kind: ErrInvalid, message: message}
}

func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalid):
		return KindInvalid
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	default:
		return KindUnknown
	}
}
