// Package deque implements a Chase-Lev work-stealing deque (spec §3, §4.5):
// a single owner pushes and pops from the "bottom" end in LIFO order for
// cache-friendly depth-first traversal, while any number of other
// goroutines steal from the "top" end in FIFO order when their own deque
// runs dry. The indices and the buffer pointer use sync/atomic directly
// rather than a mutex, matching the pack's preference for typed atomics (see
// dshills-keystorm/internal/event/bus.go) over ad-hoc locking for
// hot-path counters.
package deque

import "sync/atomic"

const minCapacity = 64

// Deque is a Chase-Lev deque of T. The zero value is not usable; construct
// with New.
type Deque[T any] struct {
	bottom atomic.Int64
	top    atomic.Int64
	buf    atomic.Pointer[buffer[T]]

	// garbage retains every buffer this deque has ever grown out of. A
	// stealer may still be mid-read of an old buffer when the owner
	// installs a bigger one; retiring instead of freeing avoids a
	// reclamation hazard, at the cost of holding old buffers until the
	// deque itself is dropped (spec §3).
	garbage []*buffer[T]
}

type buffer[T any] struct {
	mask int64 // capacity-1; capacity is always a power of two
	data []T
}

func newBuffer[T any](capacity int64) *buffer[T] {
	return &buffer[T]{mask: capacity - 1, data: make([]T, capacity)}
}

func (b *buffer[T]) get(i int64) T    { return b.data[i&b.mask] }
func (b *buffer[T]) put(i int64, v T) { b.data[i&b.mask] = v }
func (b *buffer[T]) capacity() int64  { return int64(len(b.data)) }

// New returns an empty Deque with an initial capacity of at least 64.
func New[T any]() *Deque[T] {
	d := &Deque[T]{}
	d.buf.Store(newBuffer[T](minCapacity))
	return d
}

// Push adds an item to the bottom of the deque. Only the owning goroutine
// may call Push.
func (d *Deque[T]) Push(item T) {
	b := d.bottom.Load()
	t := d.top.Load()
	buf := d.buf.Load()

	if b-t >= buf.capacity() {
		grown := newBuffer[T](buf.capacity() * 2)
		for i := t; i < b; i++ {
			grown.put(i, buf.get(i))
		}
		d.garbage = append(d.garbage, buf)
		d.buf.Store(grown)
		buf = grown
	}

	buf.put(b, item)
	// Release: the item must be visible to a stealer before bottom
	// advances past it.
	d.bottom.Store(b + 1)
}

// Pop removes and returns the item at the bottom of the deque (LIFO).
// Only the owning goroutine may call Pop. ok is false if the deque was
// empty.
func (d *Deque[T]) Pop() (item T, ok bool) {
	b := d.bottom.Load() - 1
	buf := d.buf.Load()
	d.bottom.Store(b)
	t := d.top.Load()

	if t > b {
		// Was already empty; restore bottom.
		d.bottom.Store(t)
		var zero T
		return zero, false
	}

	v := buf.get(b)
	if t == b {
		// Last item: race with stealers via CAS on top.
		if !d.top.CompareAndSwap(t, t+1) {
			d.bottom.Store(t + 1)
			var zero T
			return zero, false
		}
		d.bottom.Store(t + 1)
		return v, true
	}

	return v, true
}

// Steal removes and returns the item at the top of the deque (FIFO). Any
// goroutine may call Steal, including the owner (though the owner should
// prefer Pop). ok is false if the deque was empty or another goroutine
// advanced top first (a competing stealer, or the owner taking the last
// item).
func (d *Deque[T]) Steal() (item T, ok bool) {
	t := d.top.Load()
	b := d.bottom.Load()

	if t >= b {
		var zero T
		return zero, false
	}

	buf := d.buf.Load()
	v := buf.get(t)
	if !d.top.CompareAndSwap(t, t+1) {
		var zero T
		return zero, false
	}
	return v, true
}

// Len returns a snapshot of the number of items currently in the deque.
// Racy by nature in the presence of concurrent stealers; useful only for
// heuristics like steal-target ordering, never for correctness.
func (d *Deque[T]) Len() int64 {
	b := d.bottom.Load()
	t := d.top.Load()
	if b < t {
		return 0
	}
	return b - t
}
