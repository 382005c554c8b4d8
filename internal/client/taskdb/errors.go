package taskdb

import (
	"errors"
	"fmt"

	"github.com/iudanet/gophtask/internal/models"
)

// ErrRetriesExhausted is returned by Sync when a maximum number of attempts
// is configured and every push was rejected by the server
var ErrRetriesExhausted = errors.New("sync retries exhausted")

// ErrUnreadableVersion is wrapped by Server implementations that fetched a
// version but could not turn it back into its encoded form. Sync reports it
// as a ProtocolError.
var ErrUnreadableVersion = errors.New("unreadable server version")

// errVersionConflict сигнализирует о необходимости повторить попытку синхронизации
var errVersionConflict = errors.New("server rejected version")

// ValidationError reports an operation that does not fit the current state:
// creating an existing task, or deleting/updating a missing one
type ValidationError struct {
	Reason string
	Op     models.Operation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid operation %s: %s", e.Op, e.Reason)
}

// ProtocolError reports a server response that breaks the version log
// contract: a gap, a reordering or an undecodable version
type ProtocolError struct {
	Err    error
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sync protocol error: %s: %v", e.Reason, e.Err)
	}
	return "sync protocol error: " + e.Reason
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// TransformApplyError reports a transformed server operation that could not
// be applied locally. Sync logs and skips such operations.
type TransformApplyError struct {
	Err     error
	Op      models.Operation
	Version uint64
}

func (e *TransformApplyError) Error() string {
	return fmt.Sprintf("failed to apply %s from version %d: %v", e.Op, e.Version, e.Err)
}

func (e *TransformApplyError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure of the storage backend
type StorageError struct {
	Err error
	Op  string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
