package sim

// Resource is the counting semaphore primitive from spec.md §4.2, used by
// WorkshopCapacityManager to gate retrofit stations. Like Store, Request
// never truly blocks the caller goroutine: it either grants a slot
// synchronously or queues the continuation to be resumed (FIFO) the moment a
// slot is Released.
type Resource struct {
	capacity int
	inUse    int
	waiters  []func()
}

// NewResource creates a counting Resource with the given capacity.
func NewResource(capacity int) *Resource {
	if capacity < 0 {
		panic("sim: NewResource requires capacity >= 0")
	}
	return &Resource{capacity: capacity}
}

// Capacity returns the total number of slots.
func (r *Resource) Capacity() int { return r.capacity }

// InUse returns the number of slots currently held.
func (r *Resource) InUse() int { return r.inUse }

// Available returns the number of free slots.
func (r *Resource) Available() int { return r.capacity - r.inUse }

// TryRequest attempts to acquire one slot immediately, returning false if
// none is free.
func (r *Resource) TryRequest() bool {
	if r.inUse >= r.capacity {
		return false
	}
	r.inUse++
	return true
}

// RequestAsync acquires a slot synchronously if one is free; otherwise it
// queues cb to run (with the slot already counted as held) once a slot is
// Released, preserving FIFO order among waiters.
func (r *Resource) RequestAsync(cb func()) {
	if r.TryRequest() {
		cb()
		return
	}
	r.waiters = append(r.waiters, cb)
}

// Release returns one slot. If a waiter is queued, the slot is handed
// directly to it (inUse stays unchanged) rather than resting free.
func (r *Resource) Release() {
	if r.inUse <= 0 {
		panic("sim: Resource.Release called with no slot held")
	}
	if len(r.waiters) > 0 {
		w := r.waiters[0]
		r.waiters = r.waiters[1:]
		w()
		return
	}
	r.inUse--
}
