package ledger

import "errors"

// Error taxonomy shared by every ledger operation. Usecases wrap these
// with %w so adapters can map them with errors.Is; the adapter decides
// the user-facing representation.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid state")
	ErrStoreFailure = errors.New("store failure")
)
