package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/iudanet/gophtask/internal/models"
)

//go:generate moq -out storage_mock.go . TaskStorage

// TaskStorage is a replica's durable state backend. Each call to Txn opens an
// exclusive transaction; implementations block (or fail) while another
// transaction is open.
type TaskStorage interface {
	// Txn begins a new transaction. The caller must finish it with Commit or
	// Rollback; Rollback after Commit is a no-op, so it is safe to defer.
	Txn(ctx context.Context) (Txn, error)

	// Close releases the backend
	Close() error
}

// Txn provides commit/rollback-scoped access to tasks, the pending operation
// log, the working set and the base version.
type Txn interface {
	// CreateTask creates an empty task; returns false if it already exists
	CreateTask(id uuid.UUID) (bool, error)

	// DeleteTask removes a task; returns false if it did not exist
	DeleteTask(id uuid.UUID) (bool, error)

	// GetTask returns a copy of the task
	// Returns ErrTaskNotFound if the task doesn't exist
	GetTask(id uuid.UUID) (models.Task, error)

	// SetTask stores the task, replacing any existing one
	SetTask(id uuid.UUID, task models.Task) error

	// AllTasks returns all tasks in storage iteration order
	AllTasks() ([]models.TaskRecord, error)

	// AllTaskUUIDs returns the UUIDs of all tasks in storage iteration order
	AllTaskUUIDs() ([]uuid.UUID, error)

	// GetWorkingSet returns the working set; index 0 is always empty
	GetWorkingSet() ([]uuid.NullUUID, error)

	// ClearWorkingSet empties the working set, leaving only slot 0
	ClearWorkingSet() error

	// AddToWorkingSet appends the uuid and returns its index
	AddToWorkingSet(id uuid.UUID) (uint64, error)

	// AddOperation appends an operation to the pending local log
	AddOperation(op models.Operation) error

	// Operations returns the pending local log in order
	Operations() ([]models.Operation, error)

	// SetOperations replaces the pending local log
	SetOperations(ops []models.Operation) error

	// BaseVersion returns the last server version merged into this replica (0 if none)
	BaseVersion() (uint64, error)

	// SetBaseVersion stores the base version
	SetBaseVersion(version uint64) error

	// Commit makes all changes of the transaction durable
	Commit() error

	// Rollback discards the transaction
	Rollback() error
}
