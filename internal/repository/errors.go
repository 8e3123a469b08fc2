// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.
// Authorization failures (ErrForbidden) and data-constraint failures
// (ErrConflict and friends) are deliberately distinct classes: a caller
// touching someone else's row gets 403, a caller violating uniqueness or
// state rules gets 409/400, and the two are never conflated.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a row they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update cannot be
// performed because of conflicting state, such as a duplicate
// session token. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned when a fit passport status change
// does not follow the allowed processing flow. Handlers should
// translate this into an HTTP 409 response.
var ErrInvalidTransition = errors.New("invalid status transition")
