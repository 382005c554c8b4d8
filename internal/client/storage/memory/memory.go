// Package memory provides an in-memory TaskStorage. It is used by tests and
// by replicas that do not need to survive a restart.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/iudanet/gophtask/internal/client/storage"
	"github.com/iudanet/gophtask/internal/models"
)

// state is one complete snapshot of the replica
type state struct {
	tasks       map[uuid.UUID]models.Task
	operations  []models.Operation
	workingSet  []uuid.NullUUID
	baseVersion uint64
}

func newState() *state {
	return &state{
		tasks:      make(map[uuid.UUID]models.Task),
		workingSet: []uuid.NullUUID{{}},
	}
}

func (st *state) clone() *state {
	tasks := make(map[uuid.UUID]models.Task, len(st.tasks))
	for id, task := range st.tasks {
		tasks[id] = task.Clone()
	}
	return &state{
		tasks:       tasks,
		operations:  append([]models.Operation(nil), st.operations...),
		workingSet:  append([]uuid.NullUUID(nil), st.workingSet...),
		baseVersion: st.baseVersion,
	}
}

// Storage is an in-memory TaskStorage. Transactions work on a private copy of
// the state which replaces the shared one on Commit.
type Storage struct {
	state  *state
	lock   chan struct{} // семафор: не более одной открытой транзакции
	closed bool
}

var _ storage.TaskStorage = (*Storage)(nil)

// New creates an empty in-memory storage
func New() *Storage {
	return &Storage{
		state: newState(),
		lock:  make(chan struct{}, 1),
	}
}

// Txn waits until no other transaction is open and begins a new one
func (s *Storage) Txn(ctx context.Context) (storage.Txn, error) {
	select {
	case s.lock <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to begin transaction: %w", ctx.Err())
	}

	if s.closed {
		<-s.lock
		return nil, storage.ErrStorageClosed
	}

	return &txn{s: s, st: s.state.clone()}, nil
}

// Close marks the storage as closed
func (s *Storage) Close() error {
	s.lock <- struct{}{}
	s.closed = true
	<-s.lock
	return nil
}

type txn struct {
	s    *Storage
	st   *state
	done bool
}

func (t *txn) check() error {
	if t.done {
		return storage.ErrTxnDone
	}
	return nil
}

func (t *txn) CreateTask(id uuid.UUID) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}
	if _, ok := t.st.tasks[id]; ok {
		return false, nil
	}
	t.st.tasks[id] = models.Task{}
	return true, nil
}

func (t *txn) DeleteTask(id uuid.UUID) (bool, error) {
	if err := t.check(); err != nil {
		return false, err
	}
	if _, ok := t.st.tasks[id]; !ok {
		return false, nil
	}
	delete(t.st.tasks, id)
	return true, nil
}

func (t *txn) GetTask(id uuid.UUID) (models.Task, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	task, ok := t.st.tasks[id]
	if !ok {
		return nil, storage.ErrTaskNotFound
	}
	return task.Clone(), nil
}

func (t *txn) SetTask(id uuid.UUID, task models.Task) error {
	if err := t.check(); err != nil {
		return err
	}
	t.st.tasks[id] = task.Clone()
	return nil
}

// sortedUUIDs возвращает UUID в порядке байтов, как итерирует boltdb
func (t *txn) sortedUUIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.st.tasks))
	for id := range t.st.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

func (t *txn) AllTasks() ([]models.TaskRecord, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	ids := t.sortedUUIDs()
	records := make([]models.TaskRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, models.TaskRecord{UUID: id, Task: t.st.tasks[id].Clone()})
	}
	return records, nil
}

func (t *txn) AllTaskUUIDs() ([]uuid.UUID, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	return t.sortedUUIDs(), nil
}

func (t *txn) GetWorkingSet() ([]uuid.NullUUID, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	return append([]uuid.NullUUID(nil), t.st.workingSet...), nil
}

func (t *txn) ClearWorkingSet() error {
	if err := t.check(); err != nil {
		return err
	}
	t.st.workingSet = []uuid.NullUUID{{}}
	return nil
}

func (t *txn) AddToWorkingSet(id uuid.UUID) (uint64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	t.st.workingSet = append(t.st.workingSet, uuid.NullUUID{UUID: id, Valid: true})
	return uint64(len(t.st.workingSet) - 1), nil
}

func (t *txn) AddOperation(op models.Operation) error {
	if err := t.check(); err != nil {
		return err
	}
	t.st.operations = append(t.st.operations, op)
	return nil
}

func (t *txn) Operations() ([]models.Operation, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	return append([]models.Operation(nil), t.st.operations...), nil
}

func (t *txn) SetOperations(ops []models.Operation) error {
	if err := t.check(); err != nil {
		return err
	}
	t.st.operations = append([]models.Operation(nil), ops...)
	return nil
}

func (t *txn) BaseVersion() (uint64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	return t.st.baseVersion, nil
}

func (t *txn) SetBaseVersion(version uint64) error {
	if err := t.check(); err != nil {
		return err
	}
	t.st.baseVersion = version
	return nil
}

func (t *txn) Commit() error {
	if err := t.check(); err != nil {
		return err
	}
	t.s.state = t.st
	t.done = true
	<-t.s.lock
	return nil
}

func (t *txn) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	<-t.s.lock
	return nil
}
