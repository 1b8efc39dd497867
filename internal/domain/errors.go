package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConflictError covers duplicate comprobantes and already-used references.
// RequiereConfirmacion marks the soft tier: the caller may retry the same
// add with an explicit confirmation, carrying Existing as the counterpart.
type ConflictError struct {
	Resource             string
	Msg                  string
	RequiereConfirmacion bool
	Existing             any
	Err                  error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

// AsConflict extracts the conflict details when present.
func AsConflict(err error) (ConflictError, bool) {
	var target ConflictError
	ok := errors.As(err, &target)
	return target, ok
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
