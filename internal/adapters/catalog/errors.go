package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrDuplicateRole = errors.New("duplicate role")
	ErrInvalidFile   = errors.New("invalid catalog file")
)
