// Package sim implements the PopUpSim discrete-event wagon retrofit pipeline:
// a deterministic clock, FIFO resource primitives, the wagon/locomotive/track
// domain model, capacity managers, the five process coordinators, and the
// event/metrics collector.
package sim

import "container/heap"

// Continuation is a chunk of coordinator logic scheduled to run at a given
// simulation time. Continuations never block: where the teacher's coroutine
// model would suspend, PopUpSim schedules the remainder of the work as a new
// continuation, keeping everything single-threaded and deterministic.
type Continuation func(clock *Clock)

// continuationEvent wraps a Continuation with its due time and a monotonic
// sequence number so that events scheduled for the same instant execute in
// enqueue order (spec.md §4.1 (a), §5 "Ordering").
type continuationEvent struct {
	at   float64
	seq  uint64
	run  Continuation
}

// eventHeap implements container/heap.Interface, ordering by time then by
// sequence number. This is the same shape as the teacher's EventQueue
// (sim/simulator.go) and EventHeap (sim/cluster/event_heap.go), generalized
// from a fixed set of Event structs to arbitrary closures.
type eventHeap []*continuationEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(*continuationEvent)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Clock is the discrete-event scheduler (spec.md §4.1). now() advances only
// when no continuation is runnable at the current instant: RunUntil pops the
// earliest-due continuation and executes it to completion before looking at
// the queue again, so any continuations it schedules for "now" run before
// the clock moves forward.
type Clock struct {
	now     float64
	horizon float64
	events  eventHeap
	seq     uint64
}

// NewClock creates a Clock that will stop advancing past horizon minutes.
func NewClock(horizon float64) *Clock {
	c := &Clock{horizon: horizon}
	heap.Init(&c.events)
	return c
}

// Now returns the current simulation time in minutes.
func (c *Clock) Now() float64 { return c.now }

// Horizon returns the time at which RunUntil stops.
func (c *Clock) Horizon() float64 { return c.horizon }

// Schedule enqueues fn to run at absolute time at. at must be >= c.Now();
// scheduling in the past is a coordinator bug.
func (c *Clock) Schedule(at float64, fn Continuation) {
	if at < c.now {
		panic("sim: Schedule called with a time in the past")
	}
	c.seq++
	heap.Push(&c.events, &continuationEvent{at: at, seq: c.seq, run: fn})
}

// After schedules fn to run d minutes from now. d must be >= 0.
func (c *Clock) After(d float64, fn Continuation) {
	if d < 0 {
		panic("sim: After called with a negative delay")
	}
	c.Schedule(c.now+d, fn)
}

// Pending reports whether any continuation remains scheduled.
func (c *Clock) Pending() bool { return len(c.events) > 0 }

// RunUntil drains the event queue, executing the earliest-due continuation
// each iteration, until the horizon is reached or the queue empties. Any
// continuations still scheduled beyond the horizon are left in the queue
// (their owners are reported as in-flight, spec.md §7 "Horizon reached").
func (c *Clock) RunUntil(horizon float64) {
	c.horizon = horizon
	for len(c.events) > 0 {
		next := c.events[0]
		if next.at > c.horizon {
			break
		}
		heap.Pop(&c.events)
		c.now = next.at
		next.run(c)
	}
	if c.now < c.horizon {
		c.now = c.horizon
	}
}
