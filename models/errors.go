package models

import "errors"

// Failure taxonomy surfaced by the repositories. Callers branch with
// errors.Is; everything else is a generic backend failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrValidation   = errors.New("invalid input")
	ErrStorage      = errors.New("storage failure")
)
