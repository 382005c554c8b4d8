package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophtask/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketTasks      = []byte("tasks")
	bucketOperations = []byte("operations")
	bucketWorkingSet = []byte("working_set")
	bucketMetadata   = []byte("metadata")
)

// Storage represents BoltDB storage implementation of storage.TaskStorage
type Storage struct {
	db   *bbolt.DB
	lock chan struct{} // одна открытая транзакция на экземпляр
}

var _ storage.TaskStorage = (*Storage)(nil)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{
		db:   db,
		lock: make(chan struct{}, 1),
	}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Txn begins a writable bbolt transaction. bbolt itself serializes writers;
// the semaphore lets a waiting caller give up when ctx is done.
func (s *Storage) Txn(ctx context.Context) (storage.Txn, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	select {
	case s.lock <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to begin transaction: %w", ctx.Err())
	}

	tx, err := s.db.Begin(true)
	if err != nil {
		<-s.lock
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &txn{s: s, tx: tx}, nil
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketTasks, bucketOperations, bucketWorkingSet, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// txn оборачивает bbolt.Tx и реализует storage.Txn
type txn struct {
	s    *Storage
	tx   *bbolt.Tx
	done bool
}

func (t *txn) bucket(name []byte) (*bbolt.Bucket, error) {
	if t.done {
		return nil, storage.ErrTxnDone
	}
	b := t.tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%s bucket not found", name)
	}
	return b, nil
}

// resetBucket удаляет bucket и создает его заново, сбрасывая sequence
func (t *txn) resetBucket(name []byte) (*bbolt.Bucket, error) {
	if t.done {
		return nil, storage.ErrTxnDone
	}
	if err := t.tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
		return nil, fmt.Errorf("failed to delete %s bucket: %w", name, err)
	}
	b, err := t.tx.CreateBucket(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s bucket: %w", name, err)
	}
	return b, nil
}

func (t *txn) Commit() error {
	if t.done {
		return storage.ErrTxnDone
	}
	t.done = true
	defer func() { <-t.s.lock }()

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (t *txn) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	defer func() { <-t.s.lock }()

	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}
