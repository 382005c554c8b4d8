package boltdb

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/gophtask/internal/client/storage"
	"github.com/iudanet/gophtask/internal/models"
)

// Задачи хранятся по ключу из 16 байт UUID, значение - JSON объекта свойств

func (t *txn) CreateTask(id uuid.UUID) (bool, error) {
	bucket, err := t.bucket(bucketTasks)
	if err != nil {
		return false, err
	}

	if bucket.Get(id[:]) != nil {
		return false, nil
	}

	if err := bucket.Put(id[:], []byte("{}")); err != nil {
		return false, fmt.Errorf("failed to create task: %w", err)
	}
	return true, nil
}

func (t *txn) DeleteTask(id uuid.UUID) (bool, error) {
	bucket, err := t.bucket(bucketTasks)
	if err != nil {
		return false, err
	}

	if bucket.Get(id[:]) == nil {
		return false, nil
	}

	if err := bucket.Delete(id[:]); err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return true, nil
}

func (t *txn) GetTask(id uuid.UUID) (models.Task, error) {
	bucket, err := t.bucket(bucketTasks)
	if err != nil {
		return nil, err
	}

	data := bucket.Get(id[:])
	if data == nil {
		return nil, storage.ErrTaskNotFound
	}

	return decodeTask(data)
}

func (t *txn) SetTask(id uuid.UUID, task models.Task) error {
	bucket, err := t.bucket(bucketTasks)
	if err != nil {
		return err
	}

	if task == nil {
		task = models.Task{}
	}
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := bucket.Put(id[:], data); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (t *txn) AllTasks() ([]models.TaskRecord, error) {
	bucket, err := t.bucket(bucketTasks)
	if err != nil {
		return nil, err
	}

	var records []models.TaskRecord
	err = bucket.ForEach(func(k, v []byte) error {
		id, err := uuid.FromBytes(k)
		if err != nil {
			return fmt.Errorf("invalid task key: %w", err)
		}
		task, err := decodeTask(v)
		if err != nil {
			return err
		}
		records = append(records, models.TaskRecord{UUID: id, Task: task})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get all tasks: %w", err)
	}

	return records, nil
}

func (t *txn) AllTaskUUIDs() ([]uuid.UUID, error) {
	bucket, err := t.bucket(bucketTasks)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	err = bucket.ForEach(func(k, _ []byte) error {
		id, err := uuid.FromBytes(k)
		if err != nil {
			return fmt.Errorf("invalid task key: %w", err)
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get task uuids: %w", err)
	}

	return ids, nil
}

func decodeTask(data []byte) (models.Task, error) {
	task := models.Task{}
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return task, nil
}
