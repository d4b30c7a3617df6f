package catalog

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyCatalog      = errors.New("empty catalog")
	ErrInvalidCatalog    = errors.New("invalid catalog")
	ErrDuplicateQuestion = errors.New("duplicate question id")
	ErrLoadCatalog       = errors.New("load catalog failed")
)
