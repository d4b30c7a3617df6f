package repository

import "errors"

// Sentinel kinds for tally errors.
var (
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrInvalidCategory = errors.New("invalid category")
)
