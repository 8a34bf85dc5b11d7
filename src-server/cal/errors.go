package cal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Update and Duplicate when no stored
// event carries the requested id. Delete swallows it on purpose.
var ErrNotFound = errors.New("event not found")

// ErrNoValidDates is returned by Expand when a custom draft ends up
// with an empty date list instead of producing a silently-empty
// series.
var ErrNoValidDates = errors.New("no valid dates")

// ErrMissingTitle is returned by Expand when the draft title is
// empty after trimming.
var ErrMissingTitle = errors.New("title is required")

// InvalidTimeError reports a draft time that doesn't match the
// 24-hour HH:mm pattern.
type InvalidTimeError struct {
	Value string
}

func (e *InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid time %q, want 24-hour HH:mm", e.Value)
}

// InvalidCustomDatesError carries every custom-date entry that
// failed to parse, collected before any of them is reported.
type InvalidCustomDatesError struct {
	Entries []string
}

func (e *InvalidCustomDatesError) Error() string {
	return fmt.Sprintf("invalid custom dates: %s", strings.Join(e.Entries, ", "))
}

// PersistenceError means the mutation is applied in memory but the
// durable write failed; durability is unknown until a Flush
// succeeds.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed (in-memory state kept): %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
