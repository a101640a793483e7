package database

import (
	"context"
	"sync"
)

// Lazy opens a shared handle on first use and caches it for the life of
// the process. A failed open is not cached; the next Get tries again.
type Lazy[T any] struct {
	mu     sync.Mutex
	open   func(context.Context) (T, error)
	val    T
	loaded bool
}

func NewLazy[T any](open func(context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{open: open}
}

// Get returns the cached handle, opening it if needed.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.val, nil
	}
	v, err := l.open(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	l.val, l.loaded = v, true
	return v, nil
}

// Loaded returns the handle only if it was already opened.
func (l *Lazy[T]) Loaded() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.val, l.loaded
}
