package domain

import "errors"

// Business-rule rejections are matched by kind with errors.Is; callers wrap
// them with entity context, e.g. fmt.Errorf("loan %s: %w", id, ErrNotFound).
// Storage unavailability is never mapped onto these kinds and surfaces as a
// plain wrapped driver error.
var (
	ErrNotFound             = errors.New("record not found")
	ErrInvalidState         = errors.New("operation not allowed in current state")
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicateResource    = errors.New("duplicate resource")
	ErrConcurrencyConflict  = errors.New("concurrent update conflict")
)
