package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrEmptyScore means no selected option carried a style category;
	// callers must present an "undefined style" fallback instead of
	// dividing by zero.
	ErrEmptyScore = errors.New("no scorable answers")
)
