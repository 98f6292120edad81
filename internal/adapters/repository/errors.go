package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidLimit     = errors.New("invalid readiness limit")
	ErrInvalidReadiness = errors.New("readiness out of range")
	ErrInvalidKey       = errors.New("empty key")
)
