package models

import "errors"

// Domain error taxonomy. Repositories and services wrap these with
// fmt.Errorf("...: %w", err) so callers can match with errors.Is.
var (
	// ErrNotFound means a lookup by id/code/username matched nothing. It is a
	// normal negative result, never a crash.
	ErrNotFound = errors.New("not found")

	// ErrValidation means a required field is missing or malformed, or a
	// uniqueness rule was violated (duplicate username at sign-up).
	ErrValidation = errors.New("validation failed")

	// ErrForbidden means an invariant disallows the operation, e.g. removing
	// the creator from their own group.
	ErrForbidden = errors.New("operation forbidden")

	// ErrStoreWrite means the underlying store call failed. The attempted
	// mutation must be treated as not applied.
	ErrStoreWrite = errors.New("store write failed")

	// ErrConflict means the collection revision changed between load and save,
	// so the mutation was rejected instead of silently overwriting.
	ErrConflict = errors.New("collection revision conflict")
)
