package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindInvalidInput Kind = "INVALID_INPUT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindConflict     Kind = "CONFLICT"
	KindPersistence  Kind = "PERSISTENCE"
	KindInternal     Kind = "INTERNAL"
)

// Error is a service failure tagged with a kind the HTTP layer can map.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Persistence wraps a storage failure. The message is safe to show; the
// cause is not. A unique-constraint violation means a concurrent request
// won the race and is reported as a conflict.
func Persistence(err error) *Error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Wrap(KindConflict, "record already exists", err)
	}
	return Wrap(KindPersistence, "failed to persist changes, please retry", err)
}

func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to a response code and a client-safe message.
func HTTPStatus(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError, "internal server error"
	}

	switch appErr.Kind {
	case KindNotFound:
		return fiber.StatusNotFound, appErr.Message
	case KindInvalidInput:
		return fiber.StatusBadRequest, appErr.Message
	case KindUnauthorized:
		return fiber.StatusUnauthorized, appErr.Message
	case KindForbidden:
		return fiber.StatusForbidden, appErr.Message
	case KindConflict:
		return fiber.StatusConflict, appErr.Message
	case KindPersistence:
		return fiber.StatusServiceUnavailable, appErr.Message
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
