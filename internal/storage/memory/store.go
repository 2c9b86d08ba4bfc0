// Package memory provides an in-process Store used by tests and by the
// "memory" storage driver.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
)

// Store keeps JSON snapshots of each entity so callers never share memory
// with the stored copy.
type Store[T rest.Model] struct {
	mu    sync.RWMutex
	items map[string][]byte
	newFn func() T
}

var _ rest.Store[rest.Model] = (*Store[rest.Model])(nil)

func New[T rest.Model](newFn func() T) *Store[T] {
	return &Store[T]{
		items: make(map[string][]byte),
		newFn: newFn,
	}
}

func (s *Store[T]) FindByID(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	data, ok := s.items[id]
	s.mu.RUnlock()

	var zero T
	if !ok {
		return zero, rest.ErrNotFound
	}
	return s.decode(data)
}

// FindAll returns every entity ordered by id.
func (s *Store[T]) FindAll(_ context.Context) ([]T, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	snapshot := make([][]byte, 0, len(ids))
	for _, id := range ids {
		snapshot = append(snapshot, s.items[id])
	}
	s.mu.RUnlock()

	out := make([]T, 0, len(snapshot))
	for _, data := range snapshot {
		item, err := s.decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Store[T]) Save(_ context.Context, items ...T) error {
	encoded := make(map[string][]byte, len(items))
	for _, item := range items {
		if item.GetID() == "" {
			return fmt.Errorf("save: empty id")
		}
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", item.GetID(), err)
		}
		encoded[item.GetID()] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, data := range encoded {
		s.items[id] = data
	}
	return nil
}

func (s *Store[T]) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *Store[T]) decode(data []byte) (T, error) {
	item := s.newFn()
	if err := json.Unmarshal(data, item); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return item, nil
}
