package rest

import (
	"context"
	"encoding/json"
	"time"
)

// Model is a persisted entity addressed by a string identifier.
// Implementations are pointer types; their JSON encoding is the serialized form
// returned by the read and update handlers.
type Model interface {
	GetID() string
	SetID(id string)
}

// Timestamped models carry server-owned creation and update times. Values
// decoded from a payload are always replaced before a save.
type Timestamped interface {
	CreatedTime() time.Time
	SetTimes(created, updated time.Time)
}

// Store persists models of one resource.
type Store[T Model] interface {
	// FindByID returns ErrNotFound when no entity has the given id.
	FindByID(ctx context.Context, id string) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	// Save upserts every item; either all items are stored or none are.
	Save(ctx context.Context, items ...T) error
	// Delete reports whether an entity was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// Schema turns request payloads into validated models.
type Schema[T Model] interface {
	New() T
	// Load merges payload into the given instance and validates the result.
	Load(payload json.RawMessage, into T) FieldErrors
	// LoadMany decodes a JSON array into fresh instances and validates each of them.
	LoadMany(payload json.RawMessage) ([]T, FieldErrors)
}

// FieldErrors maps a field name to its validation messages.
// Errors for list payloads are keyed "<index>.<field>".
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Merge(prefix string, other FieldErrors) {
	for field, msgs := range other {
		fe[prefix+"."+field] = append(fe[prefix+"."+field], msgs...)
	}
}
