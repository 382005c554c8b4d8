// Package storagetest holds the behaviour every storage.TaskStorage
// implementation must share. Backends call Run from their own tests.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtask/internal/client/storage"
	"github.com/iudanet/gophtask/internal/models"
)

// Factory creates a fresh, empty storage for one subtest
type Factory func(t *testing.T) storage.TaskStorage

// Run executes the storage contract against the backend produced by newStorage
func Run(t *testing.T, newStorage Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.TaskStorage)
	}{
		{"CreateTask", testCreateTask},
		{"DeleteTask", testDeleteTask},
		{"SetAndGetTask", testSetAndGetTask},
		{"AllTasks", testAllTasks},
		{"Rollback", testRollback},
		{"RollbackAfterCommit", testRollbackAfterCommit},
		{"UseAfterCommit", testUseAfterCommit},
		{"Operations", testOperations},
		{"BaseVersion", testBaseVersion},
		{"WorkingSet", testWorkingSet},
		{"ExclusiveTxn", testExclusiveTxn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStorage(t)
			tt.fn(t, s)
		})
	}
}

func begin(t *testing.T, s storage.TaskStorage) storage.Txn {
	t.Helper()
	txn, err := s.Txn(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = txn.Rollback() })
	return txn
}

func testCreateTask(t *testing.T, s storage.TaskStorage) {
	id := uuid.New()

	txn := begin(t, s)
	created, err := txn.CreateTask(id)
	require.NoError(t, err)
	assert.True(t, created)

	// повторное создание не проходит
	created, err = txn.CreateTask(id)
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, txn.Commit())

	txn = begin(t, s)
	task, err := txn.GetTask(id)
	require.NoError(t, err)
	assert.Empty(t, task)
}

func testDeleteTask(t *testing.T, s storage.TaskStorage) {
	id := uuid.New()

	txn := begin(t, s)
	deleted, err := txn.DeleteTask(id)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = txn.CreateTask(id)
	require.NoError(t, err)
	deleted, err = txn.DeleteTask(id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = txn.GetTask(id)
	assert.ErrorIs(t, err, storage.ErrTaskNotFound)
	require.NoError(t, txn.Commit())
}

func testSetAndGetTask(t *testing.T, s storage.TaskStorage) {
	id := uuid.New()

	txn := begin(t, s)
	require.NoError(t, txn.SetTask(id, models.Task{"title": "my task", "priority": "H"}))
	require.NoError(t, txn.Commit())

	txn = begin(t, s)
	task, err := txn.GetTask(id)
	require.NoError(t, err)
	assert.Equal(t, models.Task{"title": "my task", "priority": "H"}, task)

	// изменение копии не затрагивает хранилище
	task["title"] = "changed"
	again, err := txn.GetTask(id)
	require.NoError(t, err)
	assert.Equal(t, "my task", again["title"])

	_, err = txn.GetTask(uuid.New())
	assert.ErrorIs(t, err, storage.ErrTaskNotFound)
}

func testAllTasks(t *testing.T, s storage.TaskStorage) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	txn := begin(t, s)
	for i, id := range ids {
		require.NoError(t, txn.SetTask(id, models.Task{"n": string(rune('a' + i))}))
	}
	require.NoError(t, txn.Commit())

	txn = begin(t, s)
	records, err := txn.AllTasks()
	require.NoError(t, err)
	require.Len(t, records, 3)

	uuids, err := txn.AllTaskUUIDs()
	require.NoError(t, err)
	require.Len(t, uuids, 3)

	// AllTasks и AllTaskUUIDs итерируют в одном порядке
	for i := range records {
		assert.Equal(t, records[i].UUID, uuids[i])
	}
	assert.ElementsMatch(t, ids, uuids)
}

func testRollback(t *testing.T, s storage.TaskStorage) {
	id := uuid.New()

	txn := begin(t, s)
	_, err := txn.CreateTask(id)
	require.NoError(t, err)
	require.NoError(t, txn.AddOperation(models.NewCreate(id)))
	require.NoError(t, txn.SetBaseVersion(5))
	require.NoError(t, txn.Rollback())

	txn = begin(t, s)
	_, err = txn.GetTask(id)
	assert.ErrorIs(t, err, storage.ErrTaskNotFound)
	ops, err := txn.Operations()
	require.NoError(t, err)
	assert.Empty(t, ops)
	base, err := txn.BaseVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), base)
}

func testRollbackAfterCommit(t *testing.T, s storage.TaskStorage) {
	txn := begin(t, s)
	require.NoError(t, txn.SetBaseVersion(1))
	require.NoError(t, txn.Commit())
	assert.NoError(t, txn.Rollback())

	txn = begin(t, s)
	base, err := txn.BaseVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), base)
}

func testUseAfterCommit(t *testing.T, s storage.TaskStorage) {
	txn := begin(t, s)
	require.NoError(t, txn.Commit())

	_, err := txn.CreateTask(uuid.New())
	assert.Error(t, err)
	assert.Error(t, txn.Commit())
}

func testOperations(t *testing.T, s storage.TaskStorage) {
	id := uuid.New()
	now := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	ops := []models.Operation{
		models.NewCreate(id),
		models.NewSet(id, "title", "my task", now),
		models.NewRemove(id, "title", now),
		models.NewDelete(id),
	}

	txn := begin(t, s)
	for _, op := range ops {
		require.NoError(t, txn.AddOperation(op))
	}
	require.NoError(t, txn.Commit())

	txn = begin(t, s)
	got, err := txn.Operations()
	require.NoError(t, err)
	require.Len(t, got, len(ops))
	for i := range ops {
		assert.True(t, ops[i].Equal(got[i]), "operation %d: got %s, want %s", i, got[i], ops[i])
	}

	// SetOperations заменяет лог целиком
	require.NoError(t, txn.SetOperations(ops[1:2]))
	require.NoError(t, txn.AddOperation(ops[3]))
	require.NoError(t, txn.Commit())

	txn = begin(t, s)
	got, err = txn.Operations()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, ops[1].Equal(got[0]))
	assert.True(t, ops[3].Equal(got[1]))

	require.NoError(t, txn.SetOperations(nil))
	got, err = txn.Operations()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testBaseVersion(t *testing.T, s storage.TaskStorage) {
	txn := begin(t, s)
	base, err := txn.BaseVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), base)

	require.NoError(t, txn.SetBaseVersion(42))
	require.NoError(t, txn.Commit())

	txn = begin(t, s)
	base, err = txn.BaseVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), base)
}

func testWorkingSet(t *testing.T, s storage.TaskStorage) {
	u1 := uuid.New()
	u2 := uuid.New()

	txn := begin(t, s)
	ws, err := txn.GetWorkingSet()
	require.NoError(t, err)
	assert.Equal(t, []uuid.NullUUID{{}}, ws)

	idx, err := txn.AddToWorkingSet(u1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), idx)
	idx, err = txn.AddToWorkingSet(u2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), idx)
	require.NoError(t, txn.Commit())

	txn = begin(t, s)
	ws, err = txn.GetWorkingSet()
	require.NoError(t, err)
	assert.Equal(t, []uuid.NullUUID{{}, {UUID: u1, Valid: true}, {UUID: u2, Valid: true}}, ws)

	require.NoError(t, txn.ClearWorkingSet())
	idx, err = txn.AddToWorkingSet(u2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), idx)
	require.NoError(t, txn.Commit())

	txn = begin(t, s)
	ws, err = txn.GetWorkingSet()
	require.NoError(t, err)
	assert.Equal(t, []uuid.NullUUID{{}, {UUID: u2, Valid: true}}, ws)
}

func testExclusiveTxn(t *testing.T, s storage.TaskStorage) {
	txn := begin(t, s)

	// пока первая транзакция открыта, вторая не начинается
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	acquired := make(chan storage.Txn, 1)
	go func() {
		second, err := s.Txn(ctx)
		if err != nil {
			acquired <- nil
			return
		}
		acquired <- second
	}()

	second := <-acquired
	if second != nil {
		_ = second.Rollback()
		t.Fatal("second transaction began while the first one was open")
	}

	require.NoError(t, txn.Rollback())

	third, err := s.Txn(context.Background())
	require.NoError(t, err)
	require.NoError(t, third.Rollback())
}
