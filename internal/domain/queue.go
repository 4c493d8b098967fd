package domain

import (
	"context"
	"sync"
)

// Queue is a bounded FIFO shared between goroutines. Once closed it hands
// out the remaining items and then reports ErrQueueClosed, so consumers can
// tell "empty for now" apart from "finished".
type Queue[T any] struct {
	items     chan T
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewQueue creates a queue holding at most capacity items. A capacity
// below one makes every Push wait for a matching Pop.
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{items: make(chan T, max(capacity, 0))}
}

// Push appends item, blocking while the queue is full.
func (q *Queue[T]) Push(ctx context.Context, item T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop removes the oldest item, blocking while the queue is empty and open.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	var zero T

	select {
	case item, ok := <-q.items:
		if !ok {
			return zero, ErrQueueClosed
		}

		return item, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close marks the end of input. It waits for in-progress pushes and is safe
// to call more than once.
func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		defer q.mu.Unlock()

		q.closed = true
		close(q.items)
	})
}

