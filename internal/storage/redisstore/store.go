// Package redisstore implements rest.Store on Redis: one JSON value per entity
// plus a set indexing the ids of a resource.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/seed-api/internal/rest"
)

const keyPrefix = "seed:" // seed:{resource}:item:{id}, seed:{resource}:ids

// Store handles Redis operations for one resource
type Store[T rest.Model] struct {
	client   *redis.Client
	resource string
	newFn    func() T
}

// NewStore creates a new Store keyed under resource
func NewStore[T rest.Model](client *redis.Client, resource string, newFn func() T) *Store[T] {
	return &Store[T]{
		client:   client,
		resource: resource,
		newFn:    newFn,
	}
}

// FindByID retrieves an entity by its ID
func (s *Store[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T

	data, err := s.client.Get(ctx, s.itemKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, rest.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("failed to get %s: %w", s.resource, err)
	}
	return s.decode(data)
}

// FindAll returns every indexed entity ordered by id. Ids whose value has
// vanished are skipped.
func (s *Store[T]) FindAll(ctx context.Context) ([]T, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.resource, err)
	}
	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.itemKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.resource, err)
	}

	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		item, err := s.decode([]byte(str))
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Save writes all items in one MULTI/EXEC transaction
func (s *Store[T]) Save(ctx context.Context, items ...T) error {
	if len(items) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, item := range items {
		if item.GetID() == "" {
			return fmt.Errorf("save %s: empty id", s.resource)
		}
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", s.resource, err)
		}
		pipe.Set(ctx, s.itemKey(item.GetID()), data, 0)
		pipe.SAdd(ctx, s.indexKey(), item.GetID())
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.resource, err)
	}
	return nil
}

// Delete removes an entity and its index entry
func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.itemKey(id))
	pipe.SRem(ctx, s.indexKey(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", s.resource, err)
	}
	return del.Val() > 0, nil
}

func (s *Store[T]) decode(data []byte) (T, error) {
	item := s.newFn()
	if err := json.Unmarshal(data, item); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to unmarshal %s: %w", s.resource, err)
	}
	return item, nil
}

// Helper methods for key generation
func (s *Store[T]) itemKey(id string) string {
	return fmt.Sprintf("%s%s:item:%s", keyPrefix, s.resource, id)
}

func (s *Store[T]) indexKey() string {
	return fmt.Sprintf("%s%s:ids", keyPrefix, s.resource)
}
