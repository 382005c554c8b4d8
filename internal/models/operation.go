package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OperationType определяет вариант операции
type OperationType string

const (
	OpCreate OperationType = "Create" // создание пустой задачи
	OpDelete OperationType = "Delete" // удаление задачи целиком
	OpUpdate OperationType = "Update" // установка или удаление одного свойства
)

// Operation is a single atomic mutation of the task set.
//
// Property, Value and Timestamp are meaningful only for OpUpdate. A nil Value
// removes the property. Operations are values: they are never modified after
// construction, transforms return new ones.
type Operation struct {
	Timestamp time.Time     // Timestamp время изменения, используется для LWW при трансформации
	Value     *string       // Value новое значение свойства, nil удаляет свойство
	Type      OperationType // Type вариант операции
	Property  string        // Property имя изменяемого свойства
	UUID      uuid.UUID     // UUID идентификатор задачи
}

// NewCreate returns a Create operation for the given task
func NewCreate(id uuid.UUID) Operation {
	return Operation{Type: OpCreate, UUID: id}
}

// NewDelete returns a Delete operation for the given task
func NewDelete(id uuid.UUID) Operation {
	return Operation{Type: OpDelete, UUID: id}
}

// NewUpdate returns an Update operation. The timestamp is normalized to UTC so
// that operations compare equal after a round-trip through storage.
func NewUpdate(id uuid.UUID, property string, value *string, timestamp time.Time) Operation {
	var v *string
	if value != nil {
		s := *value
		v = &s
	}
	return Operation{
		Type:      OpUpdate,
		UUID:      id,
		Property:  property,
		Value:     v,
		Timestamp: timestamp.UTC(),
	}
}

// NewSet is a shorthand for an Update that sets property to value
func NewSet(id uuid.UUID, property, value string, timestamp time.Time) Operation {
	return NewUpdate(id, property, &value, timestamp)
}

// NewRemove is a shorthand for an Update that removes property
func NewRemove(id uuid.UUID, property string, timestamp time.Time) Operation {
	return NewUpdate(id, property, nil, timestamp)
}

// Equal reports whether two operations describe the same mutation
func (o Operation) Equal(other Operation) bool {
	if o.Type != other.Type || o.UUID != other.UUID {
		return false
	}
	if o.Type != OpUpdate {
		return true
	}
	return o.Property == other.Property &&
		valuesEqual(o.Value, other.Value) &&
		o.Timestamp.Equal(other.Timestamp)
}

// SameValue reports whether two updates write the same value (both nil counts as the same)
func (o Operation) SameValue(other Operation) bool {
	return valuesEqual(o.Value, other.Value)
}

func (o Operation) String() string {
	switch o.Type {
	case OpUpdate:
		if o.Value == nil {
			return fmt.Sprintf("Update{%s %s=<none>}", o.UUID, o.Property)
		}
		return fmt.Sprintf("Update{%s %s=%q}", o.UUID, o.Property, *o.Value)
	default:
		return fmt.Sprintf("%s{%s}", o.Type, o.UUID)
	}
}

func valuesEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// wire форматы вариантов: внешний тег с именем варианта
type uuidBody struct {
	UUID uuid.UUID `json:"uuid"`
}

type updateBody struct {
	UUID      uuid.UUID `json:"uuid"`
	Property  string    `json:"property"`
	Value     *string   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// MarshalJSON encodes the operation as an externally tagged record,
// e.g. {"Create":{"uuid":"..."}}
func (o Operation) MarshalJSON() ([]byte, error) {
	switch o.Type {
	case OpCreate, OpDelete:
		return json.Marshal(map[OperationType]uuidBody{o.Type: {UUID: o.UUID}})
	case OpUpdate:
		return json.Marshal(map[OperationType]updateBody{o.Type: {
			UUID:      o.UUID,
			Property:  o.Property,
			Value:     o.Value,
			Timestamp: o.Timestamp,
		}})
	default:
		return nil, fmt.Errorf("unknown operation type %q", o.Type)
	}
}

// UnmarshalJSON decodes an externally tagged operation record
func (o *Operation) UnmarshalJSON(data []byte) error {
	var tagged map[OperationType]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("failed to decode operation: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("operation must have exactly one variant, got %d", len(tagged))
	}

	for typ, body := range tagged {
		switch typ {
		case OpCreate, OpDelete:
			var b uuidBody
			if err := json.Unmarshal(body, &b); err != nil {
				return fmt.Errorf("failed to decode %s operation: %w", typ, err)
			}
			*o = Operation{Type: typ, UUID: b.UUID}
		case OpUpdate:
			var b updateBody
			if err := json.Unmarshal(body, &b); err != nil {
				return fmt.Errorf("failed to decode Update operation: %w", err)
			}
			if b.Property == "" {
				return fmt.Errorf("update operation without property")
			}
			*o = NewUpdate(b.UUID, b.Property, b.Value, b.Timestamp)
		default:
			return fmt.Errorf("unknown operation type %q", typ)
		}
	}

	return nil
}
