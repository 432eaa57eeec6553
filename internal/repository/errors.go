// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a
// duplicate registration maps to a conflict response, an attempt to
// delete another user's post maps to 403, and a dead token maps to a
// generic 401. Absent rows are reported as sql.ErrNoRows.
package repository

import "errors"

// ErrEmailExists is returned when an insert collides with the unique
// email index on users. The unique index, not the advisory pre-check in
// the handler, is the authority on uniqueness.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is the username counterpart of ErrEmailExists.
var ErrUsernameExists = errors.New("username already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrTokenInvalid is returned when a presented access token does not
// resolve to a live credential: unknown id, secret mismatch, expired or
// revoked. Callers must not distinguish between these cases in responses.
var ErrTokenInvalid = errors.New("invalid access token")
