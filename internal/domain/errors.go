package domain

import "errors"

// Sentinel errors used across pipeline stages.
var (
	// ErrEmptyDictionary means a dialect has no usable entries after filtering.
	ErrEmptyDictionary = errors.New("dictionary has no usable entries")
	// ErrNoRecords means a conversion produced zero valid chat records.
	ErrNoRecords = errors.New("no valid records")
	// ErrNotFound is returned by stores for missing keys or files.
	ErrNotFound = errors.New("not found")
)
