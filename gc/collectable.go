// ABOUTME: Collectable base object carrying the collector's private bookkeeping
// ABOUTME: Embed Object in any type that should be garbage collected

// Package gc implements a concurrent mark-sweep garbage collector for
// graphs of managed objects. Objects opt in by embedding Object;
// mutator goroutines hold references through Root and Edge handles,
// whose lifecycle transitions stream edit events to the collector. The
// collector applies those events to its own shadow of the object graph
// and reclaims whatever is no longer reachable from a root.
package gc

import (
	"sync/atomic"

	"github.com/prateek/shadowgc/graph"
)

// Collectable marks a type as managed by the collector. Implement it
// by embedding Object.
//
// Usage contract: any collectable reference held on the stack or in a
// non-collectable container goes through a Root handle; any reference
// held as a field inside another collectable goes through an Edge
// handle owned by the containing collectable. Raw references obtained
// from a handle must not outlive it.
type Collectable interface {
	gcObject() *Object
}

// Destroyer is implemented by collectables that release resources when
// reclaimed. Destroy is invoked at most once, during the sweep that
// reclaims the object, on the collecting goroutine. It must not panic.
type Destroyer interface {
	Destroy()
}

// Object carries the collector's per-object bookkeeping. The zero
// value is ready to use. Objects must not be copied once any handle
// names them.
type Object struct {
	id atomic.Uint64 // lazily assigned, see ID

	// The remaining fields shadow the object's place in the graph and
	// are touched only while holding the owning collector's mutex.
	rootCount int
	adjacency []Collectable // multiset, one entry per live edge handle
	epoch     uint64        // mark stamp of the last visit
}

var idCounter atomic.Uint64

func (o *Object) gcObject() *Object { return o }

// ID returns the object's stable identifier, assigning one on first
// use. IDs order handles and key snapshot graphs; they are unique
// within the process and never reused.
func (o *Object) ID() graph.ObjID {
	if id := o.id.Load(); id != 0 {
		return graph.ObjID(id)
	}
	next := idCounter.Add(1)
	if o.id.CompareAndSwap(0, next) {
		return graph.ObjID(next)
	}
	return graph.ObjID(o.id.Load())
}
