// ABOUTME: Tagged-union reference to another record: either a bare ID or the expanded record.
// ABOUTME: Marshals as an ID string or an object so stored documents stay compact.
package models

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Identified is implemented by records that can be referenced.
type Identified interface {
	RecordID() uuid.UUID
}

// Ref points at a record of type T. It is either a Reference (ID only)
// or Expanded (ID plus the loaded record).
type Ref[T any] struct {
	id     uuid.UUID
	record *T
}

// Reference builds an unresolved reference.
func Reference[T any](id uuid.UUID) Ref[T] {
	return Ref[T]{id: id}
}

// Expanded builds a resolved reference around a loaded record.
func Expanded[T any](id uuid.UUID, record *T) Ref[T] {
	return Ref[T]{id: id, record: record}
}

// ID returns the referenced record's ID.
func (r Ref[T]) ID() uuid.UUID {
	return r.id
}

// Record returns the expanded record, if any.
func (r Ref[T]) Record() (*T, bool) {
	return r.record, r.record != nil
}

// IsExpanded reports whether the record has been resolved.
func (r Ref[T]) IsExpanded() bool {
	return r.record != nil
}

// Collapse drops the expanded record and keeps only the ID.
func (r Ref[T]) Collapse() Ref[T] {
	return Ref[T]{id: r.id}
}

// MarshalJSON writes the bare ID for references and the record for expanded values.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.record != nil {
		return json.Marshal(r.record)
	}
	return json.Marshal(r.id.String())
}

// UnmarshalJSON accepts either an ID string or an object carrying the record.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("parse reference %q: %w", s, err)
		}
		*r = Ref[T]{id: id}
		return nil
	}

	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("unmarshal expanded reference: %w", err)
	}
	ident, ok := any(&rec).(Identified)
	if !ok {
		return fmt.Errorf("expanded reference of %T has no record ID", rec)
	}
	*r = Ref[T]{id: ident.RecordID(), record: &rec}
	return nil
}

// ExerciseRef references an Exercise from a workout.
type ExerciseRef = Ref[Exercise]

// FoodRef references a Food from a meal log.
type FoodRef = Ref[Food]
