// ABOUTME: Edge handle type, an owned reference field inside a collectable
// ABOUTME: Models one reachability edge from owner to target in the shadow graph

package gc

import (
	"fmt"

	"github.com/prateek/shadowgc/graph"
)

// Edge is a value-semantic handle for a reference held as a field
// inside another collectable. The owner is fixed at construction and
// must be the collectable the field lives in; each live edge handle
// contributes one entry to the owner's adjacency, so two sibling
// handles naming the same target disconnect independently.
//
// Create edges with NewEdge or NewEdgeOf; the zero value has no owner
// and is unusable.
type Edge struct {
	c      *Collector
	owner  Collectable
	target Collectable
}

// NewEdge creates an empty edge handle owned by owner on the Default
// collector. A nil owner panics.
func NewEdge(owner Collectable) Edge {
	return Default().NewEdge(owner)
}

// NewEdgeOf creates an edge handle owned by owner that adopts r's
// target, on the Default collector.
func NewEdgeOf(owner Collectable, r Root) Edge {
	return Default().NewEdgeOf(owner, r)
}

// NewEdge creates an empty edge handle owned by owner, bound to c.
func (c *Collector) NewEdge(owner Collectable) Edge {
	if owner == nil {
		panic("gc: edge handle requires an owner")
	}
	return Edge{c: c, owner: owner}
}

// NewEdgeOf creates an edge handle owned by owner that adopts r's
// target, bound to c.
func (c *Collector) NewEdgeOf(owner Collectable, r Root) Edge {
	e := c.NewEdge(owner)
	e.target = r.Get()
	e.retain()
	return e
}

func (e Edge) col() *Collector {
	if e.c != nil {
		return e.c
	}
	return Default()
}

func (e *Edge) retain() {
	if e.target != nil {
		e.col().Connect(e.owner, e.target)
	}
}

func (e *Edge) release() {
	if e.target != nil {
		e.col().Disconnect(e.owner, e.target)
	}
}

// Assign points the handle at other's target. Both handles must share
// the same owner; assigning across owners panics.
func (e *Edge) Assign(other Edge) {
	if e.owner != other.owner {
		panic("gc: assignment between edge handles with different owners")
	}
	if e.target == other.target {
		return
	}
	e.release()
	e.target = other.target
	e.retain()
}

// AssignRoot points the handle at r's target, keeping the owner.
func (e *Edge) AssignRoot(r Root) {
	if e.target == r.Get() {
		return
	}
	e.release()
	e.target = r.Get()
	e.retain()
}

// Release drops the edge and empties the handle.
//
// When the collector reclaims the owner, the owner's destructor
// releases its edge handles on the collecting goroutine; those
// releases stay silent (no Disconnect) because the owner's adjacency
// vanishes with it, and an event naming a reclaimed object would
// violate the collector's contract.
func (e *Edge) Release() {
	if e.target != nil && !e.col().InGC() {
		e.release()
	}
	e.target = nil
}

// Root returns a retaining view of the edge for use at method-call
// boundaries: a fresh root handle on the edge's target.
func (e Edge) Root() Root {
	return e.col().NewRoot(e.target)
}

// Get returns the raw target, or nil for an empty handle. The raw
// reference must not outlive the edge or its owner.
func (e Edge) Get() Collectable { return e.target }

// Owner returns the collectable this edge lives in.
func (e Edge) Owner() Collectable { return e.owner }

// IsNil reports whether the handle has no target.
func (e Edge) IsNil() bool { return e.target == nil }

// Eq reports whether both handles name the same target object.
func (e Edge) Eq(other Edge) bool { return e.target == other.target }

// Less orders handles by target identity; empty handles sort first.
func (e Edge) Less(other Edge) bool { return e.id() < other.id() }

func (e Edge) id() graph.ObjID {
	if e.target == nil {
		return 0
	}
	return e.target.gcObject().ID()
}

// String formats the handle by its owner and target identities.
func (e Edge) String() string {
	if e.target == nil {
		return fmt.Sprintf("edge(%d, nil)", e.owner.gcObject().ID())
	}
	return fmt.Sprintf("edge(%d, %d)", e.owner.gcObject().ID(), e.id())
}
