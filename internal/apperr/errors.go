// Package apperr defines the error taxonomy shared by the order core and its
// HTTP surface.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindTableConflict
	KindOrderClosed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindTableConflict:
		return "table_conflict"
	case KindOrderClosed:
		return "order_closed"
	default:
		return "internal_error"
	}
}

// Error is an application error. Err keeps the underlying cause, if any.
type Error struct {
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match when target is an *Error of the same kind, so
// errors.Is(err, apperr.ErrNotFound) works for any not-found message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation, Message: "validation error"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "not found"}
	ErrTableConflict = &Error{Kind: KindTableConflict, Message: "table already assigned to an active order"}
	ErrOrderClosed   = &Error{Kind: KindOrderClosed, Message: "order is closed"}
	ErrInternal      = &Error{Kind: KindInternal, Message: "internal error"}
)

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func TableConflict(format string, args ...any) *Error {
	return &Error{Kind: KindTableConflict, Message: fmt.Sprintf(format, args...)}
}

func OrderClosed(orderID string) *Error {
	return &Error{Kind: KindOrderClosed, Message: fmt.Sprintf("order %s is closed", orderID)}
}

// Internal wraps an unexpected persistence or transport failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTableConflict, KindOrderClosed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to return to a caller. Internal errors
// never leak their cause.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return ErrInternal.Message
}
