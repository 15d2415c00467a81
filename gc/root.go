// ABOUTME: Root handle type, an external reference that keeps its target alive
// ABOUTME: Every lifecycle transition emits exactly one collector event

package gc

import (
	"fmt"

	"github.com/prateek/shadowgc/graph"
)

// Root is a value-semantic handle counting as one external reference
// to its target. As long as a root handle is alive and its
// construction event has been processed, the target survives every
// collection.
//
// Go has no copy constructors or destructors, so handle transitions
// are explicit: duplicate with Clone, overwrite with Assign, and call
// Release when the handle goes out of scope. Each transition emits
// exactly one event per affected target; skipping a Release leaks the
// target permanently.
type Root struct {
	c      *Collector
	target Collectable
}

// NewRoot creates a root handle on the Default collector. A nil target
// yields an empty handle and emits nothing.
func NewRoot(target Collectable) Root {
	return Default().NewRoot(target)
}

// NewRoot creates a root handle bound to c.
func (c *Collector) NewRoot(target Collectable) Root {
	r := Root{c: c, target: target}
	r.retain()
	return r
}

func (r Root) col() *Collector {
	if r.c != nil {
		return r.c
	}
	return Default()
}

func (r *Root) retain() {
	if r.target != nil {
		r.col().AddRoot(r.target)
	}
}

func (r *Root) release() {
	if r.target != nil {
		r.col().RemoveRoot(r.target)
	}
}

// Clone duplicates the handle, adding one more root reference to the
// target.
func (r Root) Clone() Root {
	d := r
	d.retain()
	return d
}

// Assign points the handle at other's target, releasing the previous
// target. Assigning a handle its current target is a no-op.
func (r *Root) Assign(other Root) {
	if r.target == other.target {
		return
	}
	r.release()
	r.c = other.col()
	r.target = other.target
	r.retain()
}

// Release drops the handle's reference and empties it. Releasing an
// empty handle is a no-op, so Release is idempotent.
func (r *Root) Release() {
	r.release()
	r.target = nil
}

// Get returns the raw target, or nil for an empty handle. The raw
// reference must not outlive r.
func (r Root) Get() Collectable { return r.target }

// IsNil reports whether the handle is empty.
func (r Root) IsNil() bool { return r.target == nil }

// Eq reports whether both handles name the same object.
func (r Root) Eq(other Root) bool { return r.target == other.target }

// Less orders handles by object identity; empty handles sort first.
func (r Root) Less(other Root) bool { return r.id() < other.id() }

func (r Root) id() graph.ObjID {
	if r.target == nil {
		return 0
	}
	return r.target.gcObject().ID()
}

// String formats the handle by its target's identity.
func (r Root) String() string {
	if r.target == nil {
		return "root(nil)"
	}
	return fmt.Sprintf("root(%d)", r.id())
}
