// Package refcount provides the shared-ownership primitive used by every
// wallet entity that crosses a callback boundary.
//
// A Counter starts at one reference (the creator's). Take adds a reference,
// Give drops one and runs the release hook when the count reaches zero. Give
// past zero is a caller bug and panics.
package refcount

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Counter tracks the number of outstanding references to an entity.
//
// The zero value is not usable; entities call Init once during construction.
type Counter struct {
	count   atomic.Int64
	release func()
	once    sync.Once
	name    string
}

// Init sets the initial reference and the hook invoked when the last
// reference is given back. name identifies the entity kind in panics.
func (c *Counter) Init(name string, release func()) {
	c.name = name
	c.release = release
	c.count.Store(1)
}

// Count returns the number of outstanding references.
func (c *Counter) Count() int64 {
	return c.count.Load()
}

// Retain adds a reference. Entities expose it through their typed Take.
func (c *Counter) Retain() {
	if n := c.count.Add(1); n <= 1 {
		panic(fmt.Sprintf("refcount: take on released %s", c.name))
	}
}

// TryRetain adds a reference unless the last one was already given back.
func (c *Counter) TryRetain() bool {
	for {
		n := c.count.Load()
		if n <= 0 {
			return false
		}
		if c.count.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Release drops a reference and reports whether it was the last one, in
// which case the release hook has already run.
func (c *Counter) Release() bool {
	n := c.count.Add(-1)
	switch {
	case n > 0:
		return false
	case n < 0:
		panic(fmt.Sprintf("refcount: give on released %s", c.name))
	}

	c.once.Do(func() {
		if c.release != nil {
			c.release()
		}
	})

	return true
}

// Handle is implemented by every reference-counted entity.
type Handle[T any] interface {
	Take() T
	Give()
}

// GiveAll gives back every handle in hs. Nil entries are skipped.
func GiveAll[T interface {
	comparable
	Handle[T]
}](hs []T) {
	var zero T
	for _, h := range hs {
		if h == zero {
			continue
		}
		h.Give()
	}
}
