package domain

import "errors"

// ErrSessionNotFound is returned when a session id cannot be found in
// the store (never seen, evicted, or already terminated).
var ErrSessionNotFound = errors.New("session not found")

// ErrNotFound is returned by the repository when a record does not
// exist (e.g. no profile for a phone number).
var ErrNotFound = errors.New("record not found")

// ErrDuplicateWrite is returned by the repository when a create carries
// an idempotency key it has already seen. The original write stands.
var ErrDuplicateWrite = errors.New("duplicate write")
