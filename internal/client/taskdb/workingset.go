package taskdb

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iudanet/gophtask/internal/client/storage"
	"github.com/iudanet/gophtask/internal/models"
)

// RebuildWorkingSet recomputes the working set from predicate. Tasks already
// in the set that still qualify keep their relative order; newly qualifying
// tasks are appended after them in storage order. Slots are renumbered.
//
// Operations applied later do not touch the working set, so it is only
// accurate right after a rebuild.
func (db *TaskDB) RebuildWorkingSet(ctx context.Context, predicate func(models.Task) bool) error {
	txn, err := db.storage.Txn(ctx)
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer txn.Rollback()

	current, err := txn.GetWorkingSet()
	if err != nil {
		return storageErr("get working set", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(current))
	next := make([]uuid.UUID, 0, len(current))

	// Сначала сохраняем подходящие задачи из текущего набора
	for _, slot := range current {
		if !slot.Valid {
			continue
		}
		if _, ok := seen[slot.UUID]; ok {
			continue
		}

		task, err := txn.GetTask(slot.UUID)
		if errors.Is(err, storage.ErrTaskNotFound) {
			continue
		}
		if err != nil {
			return storageErr("get task", err)
		}

		seen[slot.UUID] = struct{}{}
		if predicate(task) {
			next = append(next, slot.UUID)
		}
	}

	// Затем добавляем новые подходящие задачи
	records, err := txn.AllTasks()
	if err != nil {
		return storageErr("get all tasks", err)
	}
	for _, rec := range records {
		if _, ok := seen[rec.UUID]; ok {
			continue
		}
		if predicate(rec.Task) {
			next = append(next, rec.UUID)
		}
	}

	if err := txn.ClearWorkingSet(); err != nil {
		return storageErr("clear working set", err)
	}
	for _, id := range next {
		if _, err := txn.AddToWorkingSet(id); err != nil {
			return storageErr("add to working set", err)
		}
	}

	if err := txn.Commit(); err != nil {
		return storageErr("commit", err)
	}

	db.logger.Debug("Working set rebuilt", "size", len(next))
	return nil
}

// AddToWorkingSet appends id to the working set and returns its index. If id
// is already present its existing index is returned and nothing changes.
func (db *TaskDB) AddToWorkingSet(ctx context.Context, id uuid.UUID) (uint64, error) {
	txn, err := db.storage.Txn(ctx)
	if err != nil {
		return 0, storageErr("begin transaction", err)
	}
	defer txn.Rollback()

	ws, err := txn.GetWorkingSet()
	if err != nil {
		return 0, storageErr("get working set", err)
	}
	for i, slot := range ws {
		if slot.Valid && slot.UUID == id {
			return uint64(i), nil
		}
	}

	index, err := txn.AddToWorkingSet(id)
	if err != nil {
		return 0, storageErr("add to working set", err)
	}

	if err := txn.Commit(); err != nil {
		return 0, storageErr("commit", err)
	}

	return index, nil
}
