// Package arena stores values behind generation-checked handles.
//
// A Handle is an index plus the generation the slot had when the value was
// inserted. Removing a value bumps the slot generation, so every handle that
// still refers to the old value stops resolving. Slots are recycled LIFO.
package arena

import (
	"fmt"
	"sync"
)

// Handle identifies a value in an Arena. The zero Handle never resolves.
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.generation == 0 }

// Index returns the slot index.
func (h Handle) Index() uint32 { return h.index }

// Generation returns the slot generation captured at insertion.
func (h Handle) Generation() uint32 { return h.generation }

func (h Handle) String() string {
	if h.IsZero() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d#%d)", h.index, h.generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Arena is a concurrency-safe slot map.
type Arena[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	live  int
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.generation++
	if s.generation == 0 {
		// Wrapped: skip the zero generation so the zero Handle stays invalid.
		s.generation = 1
	}
	s.value = v
	s.live = true
	a.live++
	return Handle{index: idx, generation: s.generation}
}

// Get returns the value for h, or false if h is stale or zero.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var zero T
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.index]
	if !s.live || s.generation != h.generation {
		return zero, false
	}
	return s.value, true
}

// Contains reports whether h resolves.
func (a *Arena[T]) Contains(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

// Remove deletes the value for h and returns it. Stale handles return false.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var zero T
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.index]
	if !s.live || s.generation != h.generation {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.live = false
	a.free = append(a.free, h.index)
	a.live--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.live
}

// Drain removes every live value and returns them in slot order.
func (a *Arena[T]) Drain() []T {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]T, 0, a.live)
	var zero T
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		out = append(out, s.value)
		s.value = zero
		s.live = false
		a.free = append(a.free, uint32(i))
	}
	a.live = 0
	return out
}
