package boltdb

import (
	"encoding/binary"
	"fmt"
)

const (
	keyBaseVersion = "base_version"
)

// BaseVersion retrieves the last server version merged into this replica
// Returns 0 if no sync has been performed yet
func (t *txn) BaseVersion() (uint64, error) {
	bucket, err := t.bucket(bucketMetadata)
	if err != nil {
		return 0, err
	}

	data := bucket.Get([]byte(keyBaseVersion))
	if data == nil {
		// Первая синхронизация еще не выполнялась
		return 0, nil
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupted base version: %d bytes", len(data))
	}

	return binary.BigEndian.Uint64(data), nil
}

// SetBaseVersion saves the base version
func (t *txn) SetBaseVersion(version uint64) error {
	bucket, err := t.bucket(bucketMetadata)
	if err != nil {
		return err
	}

	if err := bucket.Put([]byte(keyBaseVersion), uint64Key(version)); err != nil {
		return fmt.Errorf("failed to save base version: %w", err)
	}
	return nil
}
