package domain

import "errors"

// Sentinel errors for the failure taxonomy. Use cases wrap these with
// fmt.Errorf("%w: ...") and handlers map them to HTTP status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state")
)
