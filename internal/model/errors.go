package model

import "errors"

// Error taxonomy for the engine. Interactive callers branch on these
// with errors.Is; sweep-style callers collect them and keep going.
var (
	// ErrConflict means the operation would create a second concurrent
	// resource where only one is allowed (e.g. a focus session on a
	// task that already has an open one).
	ErrConflict = errors.New("conflict")

	// ErrInvalidState means the current lifecycle state forbids the
	// requested transition (e.g. pausing a session that is not active).
	ErrInvalidState = errors.New("invalid state")

	// ErrNotFound means a referenced task, session, or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps read/write failures against persistence.
	ErrStorage = errors.New("storage failure")
)
