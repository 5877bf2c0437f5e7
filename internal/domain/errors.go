package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("access denied")
	ErrConflict             = errors.New("conflict with current state")
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrDuplicateArchive     = errors.New("document already archived")
	ErrIntegrityViolation   = errors.New("archive integrity violation")
)
