// Package taskdb is the replica's mutation engine: validated application of
// operations, working set maintenance and synchronization with the server.
package taskdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophtask/internal/client/storage"
	"github.com/iudanet/gophtask/internal/models"
)

const defaultSyncBackoff = 100 * time.Millisecond

// TaskDB owns one TaskStorage and is the only way to mutate it.
// Every public method runs in its own storage transaction.
type TaskDB struct {
	storage         storage.TaskStorage
	logger          *slog.Logger
	syncBackoff     time.Duration
	maxSyncAttempts uint64
}

// Option configures a TaskDB
type Option func(*TaskDB)

// WithMaxSyncAttempts bounds the number of push attempts made by Sync.
// Zero (the default) retries until the server accepts the version.
func WithMaxSyncAttempts(n uint64) Option {
	return func(db *TaskDB) {
		db.maxSyncAttempts = n
	}
}

// WithSyncBackoff sets the initial delay between bounded sync attempts
func WithSyncBackoff(d time.Duration) Option {
	return func(db *TaskDB) {
		if d > 0 {
			db.syncBackoff = d
		}
	}
}

// New creates a TaskDB on top of the given storage
func New(st storage.TaskStorage, logger *slog.Logger, opts ...Option) *TaskDB {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db := &TaskDB{
		storage:     st,
		logger:      logger,
		syncBackoff: defaultSyncBackoff,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Apply validates op against the current state, applies it and appends it to
// the pending local log. Nothing is changed when an error is returned.
func (db *TaskDB) Apply(ctx context.Context, op models.Operation) error {
	txn, err := db.storage.Txn(ctx)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer txn.Rollback()

	if err := applyOp(txn, op); err != nil {
		return err
	}

	if err := txn.AddOperation(op); err != nil {
		return storageErr("add operation", err)
	}

	if err := txn.Commit(); err != nil {
		return storageErr("commit", err)
	}

	db.logger.Debug("Operation applied", "operation", op.String())
	return nil
}

// applyOp validates and applies one operation inside txn without logging it
func applyOp(txn storage.Txn, op models.Operation) error {
	switch op.Type {
	case models.OpCreate:
		created, err := txn.CreateTask(op.UUID)
		if err != nil {
			return storageErr("create task", err)
		}
		if !created {
			return &ValidationError{Op: op, Reason: "task already exists"}
		}

	case models.OpDelete:
		deleted, err := txn.DeleteTask(op.UUID)
		if err != nil {
			return storageErr("delete task", err)
		}
		if !deleted {
			return &ValidationError{Op: op, Reason: "task does not exist"}
		}

	case models.OpUpdate:
		task, err := txn.GetTask(op.UUID)
		if errors.Is(err, storage.ErrTaskNotFound) {
			return &ValidationError{Op: op, Reason: "task does not exist"}
		}
		if err != nil {
			return storageErr("get task", err)
		}

		// timestamp нужен только для трансформации и в задаче не хранится
		if op.Value == nil {
			delete(task, op.Property)
		} else {
			task[op.Property] = *op.Value
		}

		if err := txn.SetTask(op.UUID, task); err != nil {
			return storageErr("set task", err)
		}

	default:
		return &ValidationError{Op: op, Reason: fmt.Sprintf("unknown operation type %q", op.Type)}
	}

	return nil
}

// view runs fn in a transaction that is always rolled back
func (db *TaskDB) view(ctx context.Context, fn func(txn storage.Txn) error) error {
	txn, err := db.storage.Txn(ctx)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer txn.Rollback()

	return fn(txn)
}

// GetTask returns the task with the given uuid.
// The error wraps storage.ErrTaskNotFound when there is no such task.
func (db *TaskDB) GetTask(ctx context.Context, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.view(ctx, func(txn storage.Txn) error {
		var err error
		task, err = txn.GetTask(id)
		if errors.Is(err, storage.ErrTaskNotFound) {
			return fmt.Errorf("task %s: %w", id, err)
		}
		if err != nil {
			return storageErr("get task", err)
		}
		return nil
	})
	return task, err
}

// AllTasks returns every task in storage order
func (db *TaskDB) AllTasks(ctx context.Context) ([]models.TaskRecord, error) {
	var records []models.TaskRecord
	err := db.view(ctx, func(txn storage.Txn) error {
		var err error
		if records, err = txn.AllTasks(); err != nil {
			return storageErr("get all tasks", err)
		}
		return nil
	})
	return records, err
}

// AllTaskUUIDs returns the uuid of every task in storage order
func (db *TaskDB) AllTaskUUIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.view(ctx, func(txn storage.Txn) error {
		var err error
		if ids, err = txn.AllTaskUUIDs(); err != nil {
			return storageErr("get task uuids", err)
		}
		return nil
	})
	return ids, err
}

// WorkingSet returns the working set; slot 0 is always empty
func (db *TaskDB) WorkingSet(ctx context.Context) ([]uuid.NullUUID, error) {
	var ws []uuid.NullUUID
	err := db.view(ctx, func(txn storage.Txn) error {
		var err error
		if ws, err = txn.GetWorkingSet(); err != nil {
			return storageErr("get working set", err)
		}
		return nil
	})
	return ws, err
}

// Operations returns the pending local log, i.e. operations not yet accepted by the server
func (db *TaskDB) Operations(ctx context.Context) ([]models.Operation, error) {
	var ops []models.Operation
	err := db.view(ctx, func(txn storage.Txn) error {
		var err error
		if ops, err = txn.Operations(); err != nil {
			return storageErr("get operations", err)
		}
		return nil
	})
	return ops, err
}

// BaseVersion returns the last server version merged into this replica
func (db *TaskDB) BaseVersion(ctx context.Context) (uint64, error) {
	var base uint64
	err := db.view(ctx, func(txn storage.Txn) error {
		var err error
		if base, err = txn.BaseVersion(); err != nil {
			return storageErr("get base version", err)
		}
		return nil
	})
	return base, err
}
