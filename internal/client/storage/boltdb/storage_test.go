package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/gophtask/internal/client/storage"
	"github.com/iudanet/gophtask/internal/client/storage/storagetest"
	"github.com/iudanet/gophtask/internal/models"
)

var allBuckets = [][]byte{bucketTasks, bucketOperations, bucketWorkingSet, bucketMetadata}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "testdb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStorage_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.TaskStorage {
		return newTestStorage(t)
	})
}

func TestNew_Success(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "testdb.db")

	ctx := context.Background()
	store, err := New(ctx, dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() {
		require.NoError(t, store.Close())
	}()

	// Проверяем что файл БД действительно создан
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	// Проверяем, что бакеты существуют
	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	ctx := context.Background()
	// Каталог не существует, bbolt не сможет создать файл
	invalidPath := filepath.Join(t.TempDir(), "missing", "dir", "testdb.db")
	store, err := New(ctx, invalidPath)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "testdb.db"))
	require.NoError(t, err)

	// Закрываем БД
	err = store.Close()
	assert.NoError(t, err)

	// После закрытия поле db должно стать nil
	assert.Nil(t, store.db)

	// Второй вызов Close не должен падать и должен просто ничего не делать
	err = store.Close()
	assert.NoError(t, err)

	_, err = store.Txn(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestInitBuckets_CreatesBuckets(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	// Открываем БД вручную без создания бакетов
	db, err := bbolt.Open(dbPath, 0600, nil)
	require.NoError(t, err)
	defer db.Close()

	store := &Storage{db: db, lock: make(chan struct{}, 1)}

	err = store.initBuckets()
	assert.NoError(t, err)

	// Повторная инициализация не должна падать
	err = store.initBuckets()
	assert.NoError(t, err)

	err = db.View(func(tx *bbolt.Tx) error {
		for _, b := range allBuckets {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "testdb.db")
	id := uuid.New()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	txn, err := store.Txn(ctx)
	require.NoError(t, err)
	_, err = txn.CreateTask(id)
	require.NoError(t, err)
	require.NoError(t, txn.SetTask(id, models.Task{"description": "persisted"}))
	require.NoError(t, txn.AddOperation(models.NewCreate(id)))
	require.NoError(t, txn.AddOperation(models.NewSet(id, "description", "persisted", ts)))
	_, err = txn.AddToWorkingSet(id)
	require.NoError(t, err)
	require.NoError(t, txn.SetBaseVersion(7))
	require.NoError(t, txn.Commit())
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	txn, err = store.Txn(ctx)
	require.NoError(t, err)
	defer txn.Rollback()

	task, err := txn.GetTask(id)
	require.NoError(t, err)
	assert.Equal(t, models.Task{"description": "persisted"}, task)

	ops, err := txn.Operations()
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, models.NewCreate(id), ops[0])
	assert.Equal(t, models.NewSet(id, "description", "persisted", ts), ops[1])

	ws, err := txn.GetWorkingSet()
	require.NoError(t, err)
	assert.Equal(t, []uuid.NullUUID{{}, {UUID: id, Valid: true}}, ws)

	base, err := txn.BaseVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), base)
}

func TestBaseVersion_Corrupted(t *testing.T) {
	store := newTestStorage(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Put([]byte(keyBaseVersion), []byte("bad"))
	})
	require.NoError(t, err)

	txn, err := store.Txn(context.Background())
	require.NoError(t, err)
	defer txn.Rollback()

	_, err = txn.BaseVersion()
	assert.Error(t, err)
}
