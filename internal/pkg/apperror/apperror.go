package apperror

import "errors"

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindValidation   Kind = "validation"
	KindPolicy       Kind = "policy"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
)

// Error is a domain failure that carries its kind next to a human message.
type Error struct {
	Kind    Kind
	Message string
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches another *Error of the same kind with an empty message, so
// errors.Is(err, apperror.ErrNotFound) works for every not-found sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return e.Kind == t.Kind
	}
	return e == t
}

// Kind sentinels used for classification only.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrPolicy       = &Error{Kind: KindPolicy}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}
