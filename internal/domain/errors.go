package domain

import "errors"

// Sentinels for errors.Is. The transport maps each one to a status code.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Typed errors carry a caller-facing message and match their sentinel.
type (
	NotFoundError struct {
		Message string
	}

	ValidationError struct {
		Message string
	}

	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string  { return e.Message }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ForbiddenError) Is(target error) bool  { return target == ErrForbidden }

// ConflictError names the resource that already occupies the slot, so a
// client can navigate to it instead of retrying.
type ConflictError struct {
	Message      string
	ResourceType string // folder, collaborator, association
	ResourceID   string // empty when there is no single existing row
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// IsKnown reports whether err belongs to the domain taxonomy. Anything else
// is an internal failure.
func IsKnown(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnauthorized)
}
