package boltdb

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Рабочий набор: ключ - индекс слота (BigEndian), значение - 16 байт UUID.
// Sequence bucket'а начинается с 1, поэтому слот 0 всегда пуст.

func (t *txn) GetWorkingSet() ([]uuid.NullUUID, error) {
	bucket, err := t.bucket(bucketWorkingSet)
	if err != nil {
		return nil, err
	}

	ws := []uuid.NullUUID{{}}
	err = bucket.ForEach(func(k, v []byte) error {
		index := binary.BigEndian.Uint64(k)
		id, err := uuid.FromBytes(v)
		if err != nil {
			return fmt.Errorf("invalid working set entry %d: %w", index, err)
		}
		for uint64(len(ws)) <= index {
			ws = append(ws, uuid.NullUUID{})
		}
		ws[index] = uuid.NullUUID{UUID: id, Valid: true}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get working set: %w", err)
	}

	return ws, nil
}

func (t *txn) ClearWorkingSet() error {
	_, err := t.resetBucket(bucketWorkingSet)
	return err
}

func (t *txn) AddToWorkingSet(id uuid.UUID) (uint64, error) {
	bucket, err := t.bucket(bucketWorkingSet)
	if err != nil {
		return 0, err
	}

	index, err := bucket.NextSequence()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate working set index: %w", err)
	}

	if err := bucket.Put(uint64Key(index), id[:]); err != nil {
		return 0, fmt.Errorf("failed to add to working set: %w", err)
	}
	return index, nil
}
