// ABOUTME: Bounded lock-free multi-producer queue for collector events
// ABOUTME: Fixed-capacity ring with per-cell sequence stamps

// Package eventq implements the bounded lock-free queue carrying graph
// edit events from mutator goroutines to the collector. Any number of
// producers may push concurrently without blocking each other; popping
// is reserved for a single consumer. Events pushed by one producer are
// popped in the order that producer pushed them; ordering across
// producers is unspecified.
package eventq

import "sync/atomic"

// Queue is a bounded multi-producer lock-free queue. The zero value is
// not usable; create queues with New.
type Queue[T any] struct {
	mask  uint64
	cells []cell[T]

	enqueue atomic.Uint64
	_       [7]uint64 // keep the cursors on separate cache lines
	dequeue atomic.Uint64
}

// Each cell's sequence stamp encodes its state relative to the
// cursors: seq == pos means free for the producer claiming pos,
// seq == pos+1 means occupied and ready for the consumer.
type cell[T any] struct {
	seq atomic.Uint64
	val T
}

// New creates a queue holding at least capacity events. The capacity
// is rounded up to the next power of two. A non-positive capacity
// panics.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic("eventq: capacity must be positive")
	}
	n := uint64(1)
	for n < uint64(capacity) {
		n <<= 1
	}
	q := &Queue[T]{
		mask:  n - 1,
		cells: make([]cell[T], n),
	}
	for i := range q.cells {
		q.cells[i].seq.Store(uint64(i))
	}
	return q
}

// TryPush enqueues v, returning false when the queue is full. It never
// blocks and is safe to call from any number of goroutines.
func (q *Queue[T]) TryPush(v T) bool {
	pos := q.enqueue.Load()
	for {
		c := &q.cells[pos&q.mask]
		seq := c.seq.Load()
		switch diff := int64(seq) - int64(pos); {
		case diff == 0:
			// Cell is free; claim it.
			if q.enqueue.CompareAndSwap(pos, pos+1) {
				c.val = v
				c.seq.Store(pos + 1)
				return true
			}
			pos = q.enqueue.Load()
		case diff < 0:
			// The cell still holds an event from one lap ago.
			return false
		default:
			// Another producer claimed pos; reload and retry.
			pos = q.enqueue.Load()
		}
	}
}

// TryPop dequeues the oldest event, returning false when the queue is
// empty. Only one goroutine may pop at a time.
func (q *Queue[T]) TryPop() (T, bool) {
	var zero T
	pos := q.dequeue.Load()
	for {
		c := &q.cells[pos&q.mask]
		seq := c.seq.Load()
		switch diff := int64(seq) - int64(pos+1); {
		case diff == 0:
			if q.dequeue.CompareAndSwap(pos, pos+1) {
				v := c.val
				c.val = zero
				// Free the cell for the producer's next lap.
				c.seq.Store(pos + q.mask + 1)
				return v, true
			}
			pos = q.dequeue.Load()
		case diff < 0:
			// The cell has not been published yet.
			return zero, false
		default:
			pos = q.dequeue.Load()
		}
	}
}

// Cap returns the queue's capacity.
func (q *Queue[T]) Cap() int { return len(q.cells) }

// Len returns the number of queued events. The result is exact only
// when the queue is quiescent; under concurrent use it is a snapshot.
func (q *Queue[T]) Len() int {
	e := q.enqueue.Load()
	d := q.dequeue.Load()
	if e <= d {
		return 0
	}
	n := e - d
	if n > uint64(len(q.cells)) {
		n = uint64(len(q.cells))
	}
	return int(n)
}
