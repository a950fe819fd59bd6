package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnknownField  = errors.New("unknown field")
	ErrNothingToCopy = errors.New("nothing to copy")
	ErrOverLimit     = errors.New("content exceeds copy limit")
)
