package boltdb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/iudanet/gophtask/internal/models"
)

// Лог операций: ключ - sequence bucket'а (BigEndian), порядок ключей = порядок операций

func (t *txn) AddOperation(op models.Operation) error {
	bucket, err := t.bucket(bucketOperations)
	if err != nil {
		return err
	}

	seq, err := bucket.NextSequence()
	if err != nil {
		return fmt.Errorf("failed to allocate operation key: %w", err)
	}

	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}

	if err := bucket.Put(uint64Key(seq), data); err != nil {
		return fmt.Errorf("failed to save operation: %w", err)
	}
	return nil
}

func (t *txn) Operations() ([]models.Operation, error) {
	bucket, err := t.bucket(bucketOperations)
	if err != nil {
		return nil, err
	}

	var ops []models.Operation
	err = bucket.ForEach(func(_, v []byte) error {
		var op models.Operation
		if err := json.Unmarshal(v, &op); err != nil {
			return fmt.Errorf("failed to unmarshal operation: %w", err)
		}
		ops = append(ops, op)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get operations: %w", err)
	}

	return ops, nil
}

func (t *txn) SetOperations(ops []models.Operation) error {
	if _, err := t.resetBucket(bucketOperations); err != nil {
		return err
	}

	for _, op := range ops {
		if err := t.AddOperation(op); err != nil {
			return err
		}
	}
	return nil
}

func uint64Key(v uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, v)
	return key
}
