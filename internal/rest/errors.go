package rest

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("resource conflict")
	ErrInvalidReference = errors.New("referenced resource does not exist")
)

// ReferenceError reports a write that points at a related entity which does
// not exist. Field is the offending payload field when the store knows it.
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	if e.Field == "" {
		return ErrInvalidReference.Error()
	}
	return e.Field + ": " + ErrInvalidReference.Error()
}

func (e *ReferenceError) Unwrap() error { return ErrInvalidReference }
