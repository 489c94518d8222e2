package interp

import "sync"

// Queue is an unbounded FIFO safe for concurrent Push and DrainAll.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push appends v.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// DrainAll removes and returns everything currently queued, oldest first.
// It never blocks waiting for items.
func (q *Queue[T]) DrainAll() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
