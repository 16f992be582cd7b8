package service

import "errors"

// Sentinel errors forming the service error taxonomy. Services wrap these
// with fmt.Errorf("%w: ...") detail; callers match with errors.Is and the
// HTTP layer maps them onto statuses.
var (
	// ErrUnauthorized means the operation needs an authenticated principal.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden means the principal is known but the grant table denies.
	ErrForbidden = errors.New("operation not permitted")

	// ErrNotFound covers both genuinely missing rows and rows the principal
	// may not see. The two are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness rule rejected the write.
	ErrConflict = errors.New("conflict")

	// ErrValidation means the input failed a domain rule before any
	// authorization or store access happened.
	ErrValidation = errors.New("invalid input")
)
