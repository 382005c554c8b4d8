package models

import (
	"github.com/google/uuid"
)

// Task представляет задачу: произвольный набор строковых свойств.
// Схема не навязывается, значения хранятся как есть.
type Task map[string]string

// Well-known properties used by the command line client. The replica itself
// treats every property as an opaque string.
const (
	PropDescription = "description"
	PropStatus      = "status"
	PropEntry       = "entry"
	PropModified    = "modified"
	PropEnd         = "end"

	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Clone создает копию задачи
func (t Task) Clone() Task {
	clone := make(Task, len(t))
	for k, v := range t {
		clone[k] = v
	}
	return clone
}

// IsPending reports whether the task carries status=pending
func (t Task) IsPending() bool {
	return t[PropStatus] == StatusPending
}

// TaskRecord связывает задачу с ее UUID
type TaskRecord struct {
	Task Task      `json:"task"`
	UUID uuid.UUID `json:"uuid"`
}
