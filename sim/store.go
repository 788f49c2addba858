package sim

// Store is the FIFO "blocking" queue primitive from spec.md §4.2. Because the
// Clock is continuation-driven rather than goroutine-blocking, nothing here
// blocks the caller: Get returns false when the store is empty, and GetAsync
// records the continuation as a waiter, to be resumed (at the current
// instant, preserving FIFO ordering per spec.md §5) the moment a matching Put
// arrives. This mirrors the teacher's pattern of one event scheduling the
// next (sim/event.go's ArrivalEvent scheduling a ProcessBatchEvent) rather
// than using OS-level blocking, which the spec explicitly forbids relying on.
type Store[T any] struct {
	items   []T
	waiters []func(T)
}

// NewStore creates an empty Store, optionally preloaded with initial items.
func NewStore[T any](initial ...T) *Store[T] {
	s := &Store[T]{}
	s.items = append(s.items, initial...)
	return s
}

// Put adds an item to the store. If a waiter is already queued, the item is
// handed to the earliest waiter immediately (synchronously) rather than
// resting in the queue, matching "Wakeups are processed in FIFO order of
// waiters" (spec.md §4.2). Put never blocks (spec.md §4.3 "put... never
// blocks" applies to LocomotivePool; the general Store keeps the same
// contract since the scope's only bounded store, workshop staging tracks, is
// governed by TrackCapacityManager, not Store capacity).
func (s *Store[T]) Put(x T) {
	if len(s.waiters) > 0 {
		w := s.waiters[0]
		s.waiters = s.waiters[1:]
		w(x)
		return
	}
	s.items = append(s.items, x)
}

// Get attempts to take the next item immediately. It reports ok=false if the
// store is empty, in which case the caller should use GetAsync to be resumed
// later.
func (s *Store[T]) Get() (item T, ok bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	item = s.items[0]
	s.items = s.items[1:]
	return item, true
}

// GetAsync returns an item synchronously if one is available; otherwise it
// registers cb to be invoked with the next Put'd item, preserving FIFO order
// across all waiters.
func (s *Store[T]) GetAsync(cb func(T)) {
	if item, ok := s.Get(); ok {
		cb(item)
		return
	}
	s.waiters = append(s.waiters, cb)
}

// Len reports the number of items currently resting in the store.
func (s *Store[T]) Len() int { return len(s.items) }

// DrainAll removes and returns every item currently resting in the store, in
// FIFO order, leaving the store empty. Used by coordinators forming a batch
// from "all currently ready" items (spec.md §4.7.4 "default = all
// waiting").
func (s *Store[T]) DrainAll() []T {
	out := s.items
	s.items = nil
	return out
}

// Peek returns all items currently resting in the store without removing
// them, in FIFO order.
func (s *Store[T]) Peek() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
