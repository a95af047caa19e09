package service

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or empty required argument.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("task %s required", e.Field)
}

// NotFoundError reports a task id that matches nothing in the collection.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// StoreReadError reports a task file that is missing, unreadable or malformed.
// Err keeps the underlying cause for logging; Error() stays user-facing.
type StoreReadError struct {
	Path string
	Err  error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("could not read task file %s", e.Path)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

// StoreWriteError reports a failure to persist the task file.
type StoreWriteError struct {
	Path string
	Err  error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("could not write task file %s", e.Path)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// IsStoreError reports whether err is a StoreReadError or StoreWriteError.
func IsStoreError(err error) bool {
	var re *StoreReadError
	var we *StoreWriteError
	return errors.As(err, &re) || errors.As(err, &we)
}

// Cause returns the underlying cause of a store error, or nil.
func Cause(err error) error {
	var re *StoreReadError
	if errors.As(err, &re) {
		return re.Err
	}
	var we *StoreWriteError
	if errors.As(err, &we) {
		return we.Err
	}
	return nil
}
