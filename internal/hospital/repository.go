package hospital

import (
	"context"
	"fmt"
	"sync"
)

// Entity is anything the generic store can hold. Clone must return a
// copy that shares no mutable state with the receiver, so the store can
// hand out snapshots without aliasing its own copy.
type Entity[T any] interface {
	EntityID() string
	Clone() T
}

// Store is the storage contract for one entity type. A durable
// implementation (see internal/store/pg) must preserve these semantics
// exactly: wholesale replace on Update, snapshot reads, and an atomic
// read-check-write in Mutate.
type Store[T Entity[T]] interface {
	Insert(ctx context.Context, e T) error
	FindByID(ctx context.Context, id string) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, id string) (bool, error)
	Mutate(ctx context.Context, id string, fn func(T) (T, error)) (T, error)
}

// MemoryStore implements Store with in-process concurrency safety.
type MemoryStore[T Entity[T]] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore[T Entity[T]]() *MemoryStore[T] {
	return &MemoryStore[T]{items: make(map[string]T)}
}

// Insert stores a new entity. The uniqueness check and the write happen
// under one lock, so two concurrent inserts of the same ID cannot both
// succeed.
func (s *MemoryStore[T]) Insert(ctx context.Context, e T) error {
	id := e.EntityID()
	if id == "" {
		return fmt.Errorf("%w: entity id is empty", ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, id)
	}
	s.items[id] = e.Clone()
	s.order = append(s.order, id)
	return nil
}

func (s *MemoryStore[T]) FindByID(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.Clone(), nil
}

// FindAll returns cloned entities in insertion order. Mutating the
// result does not affect the store.
func (s *MemoryStore[T]) FindAll(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		if e, ok := s.items[id]; ok {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

// Update replaces the stored entity wholesale. No partial field merge.
func (s *MemoryStore[T]) Update(ctx context.Context, e T) error {
	id := e.EntityID()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.items[id] = e.Clone()
	return nil
}

// Delete removes the entity. false means nothing was stored under that
// ID; it is not an error.
func (s *MemoryStore[T]) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// Mutate applies fn to the stored entity under the write lock and
// replaces it with fn's result. State-machine transitions go through
// here so that two concurrent transition attempts on one entity cannot
// both succeed. fn receives a clone and must leave the ID unchanged.
func (s *MemoryStore[T]) Mutate(ctx context.Context, id string, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next, err := fn(e.Clone())
	if err != nil {
		var zero T
		return zero, err
	}
	if next.EntityID() != id {
		var zero T
		return zero, fmt.Errorf("%w: mutation must not change the entity id", ErrInvalidArgument)
	}
	s.items[id] = next.Clone()
	return next, nil
}
