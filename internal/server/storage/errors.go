package storage

import "errors"

// Common storage errors
var (
	// ErrVersionConflict indicates that the version is not the next one in the log
	ErrVersionConflict = errors.New("version conflict")
)
