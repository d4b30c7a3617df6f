package flow

import "errors"

// Sentinel kinds for flow errors.
var (
	// ErrEmptyName rejects starting a session without a visitor name.
	ErrEmptyName = errors.New("empty name")

	// ErrInvalidPhase rejects an operation the current phase does not allow.
	ErrInvalidPhase = errors.New("invalid phase for action")

	// ErrStaleAnswer marks a selection for a question that is no longer
	// active; the input is dropped, never retried.
	ErrStaleAnswer = errors.New("stale answer")

	// ErrIncomplete rejects advancing past a question whose selection
	// requirement is not met.
	ErrIncomplete = errors.New("selection incomplete")

	// ErrSessionComplete rejects mutations once the result phase is reached.
	ErrSessionComplete = errors.New("session complete")

	// ErrUnknownQuestion marks a question id absent from the catalog.
	ErrUnknownQuestion = errors.New("unknown question")
)
