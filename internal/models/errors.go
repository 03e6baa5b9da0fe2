package models

import "errors"

// Error taxonomy shared by all registries. Services wrap these with
// fmt.Errorf("...: %w", err) so callers can match with errors.Is while the
// HTTP layer maps them to status codes.
var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid payload")
)
