package inmemory

import (
	"context"
	"sync"

	ierr "github.com/sendwell/sendwell/internal/errors"
)

// Store is a generic thread-safe in-memory key/value store backing the
// repository implementations
type Store[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// NewStore creates a new in-memory store
func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		items: make(map[K]V),
	}
}

func (s *Store[K, V]) Create(ctx context.Context, key K, item V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; exists {
		return ierr.NewError("item already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	s.items[key] = item
	return nil
}

func (s *Store[K, V]) Get(ctx context.Context, key K) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[key]
	if !exists {
		var zero V
		return zero, ierr.NewError("item not found").
			Mark(ierr.ErrNotFound)
	}
	return item, nil
}

func (s *Store[K, V]) Update(ctx context.Context, key K, item V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists {
		return ierr.NewError("item not found").
			Mark(ierr.ErrNotFound)
	}
	s.items[key] = item
	return nil
}

// Set inserts or replaces without caring whether the key exists
func (s *Store[K, V]) Set(ctx context.Context, key K, item V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = item
}

func (s *Store[K, V]) Delete(ctx context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists {
		return ierr.NewError("item not found").
			Mark(ierr.ErrNotFound)
	}
	delete(s.items, key)
	return nil
}

// List returns the items matching the filter, in unspecified order
func (s *Store[K, V]) List(ctx context.Context, filter func(V) bool) []V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]V, 0, len(s.items))
	for _, item := range s.items {
		if filter == nil || filter(item) {
			result = append(result, item)
		}
	}
	return result
}

// Count returns how many items match the filter
func (s *Store[K, V]) Count(ctx context.Context, filter func(V) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		if filter == nil || filter(item) {
			count++
		}
	}
	return count
}
