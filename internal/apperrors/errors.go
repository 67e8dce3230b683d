package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of the ledger
// (e.g. reversing a transaction twice).
var ErrConflict = errors.New("conflict with current state")

// ErrForbidden indicates the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrCollaborator indicates an external collaborator (index, language model) failed.
var ErrCollaborator = errors.New("collaborator unavailable")

// ErrPersistence indicates the ledger store failed to read or write.
var ErrPersistence = errors.New("persistence failure")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError. Codes >= 500 always match ErrPersistence.
func NewAppError(code int, message string, err error) *AppError {
	if code >= 500 {
		if err == nil {
			err = ErrPersistence
		} else if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError wrapping ErrNotFound for the given entity.
func NewNotFoundError(entity string, id any) *AppError {
	return &AppError{
		Code:    404,
		Message: fmt.Sprintf("%s %v not found", entity, id),
		Err:     ErrNotFound,
	}
}
