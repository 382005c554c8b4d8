package storage

import "errors"

// Common client storage errors
var (
	// ErrTaskNotFound indicates that the task does not exist
	ErrTaskNotFound = errors.New("task not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrTxnDone indicates use of a transaction after Commit or Rollback
	ErrTxnDone = errors.New("transaction already finished")
)
