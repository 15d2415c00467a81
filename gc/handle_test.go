// ABOUTME: Tests for the root and edge handle types
// ABOUTME: Validates event emission across construct, clone, assign, release

package gc

import (
	"fmt"
	"testing"
)

func TestRootLifecycle(t *testing.T) {
	c := NewCollector(64)
	nodes, _ := newNodes(2)
	a, b := nodes[0], nodes[1]

	r := c.NewRoot(a)
	if got := c.RootCount(a); got != 1 {
		t.Errorf("Expected root count 1 after construction, got %d", got)
	}

	clone := r.Clone()
	if got := c.RootCount(a); got != 2 {
		t.Errorf("Expected root count 2 after clone, got %d", got)
	}

	// Assignment releases the old target and retains the new one.
	rb := c.NewRoot(b)
	clone.Assign(rb)
	if got := c.RootCount(a); got != 1 {
		t.Errorf("Expected root count 1 after reassign, got %d", got)
	}
	if got := c.RootCount(b); got != 2 {
		t.Errorf("Expected root count 2 for new target, got %d", got)
	}

	// Self-assignment emits nothing.
	clone.Assign(rb)
	if got := c.RootCount(b); got != 2 {
		t.Errorf("Expected root count 2 after self-assign, got %d", got)
	}

	r.Release()
	clone.Release()
	rb.Release()
	if got := c.RootCount(a); got != 0 {
		t.Errorf("Expected root count 0 for a, got %d", got)
	}
	if got := c.RootCount(b); got != 0 {
		t.Errorf("Expected root count 0 for b, got %d", got)
	}

	// Release is idempotent on an empty handle.
	r.Release()
	if got := c.RootCount(a); got != 0 {
		t.Errorf("Expected root count 0 after double release, got %d", got)
	}
}

func TestRootEmpty(t *testing.T) {
	c := NewCollector(64)

	var r Root
	if !r.IsNil() {
		t.Error("Expected zero-value handle to be empty")
	}
	if r.Get() != nil {
		t.Error("Expected nil target from empty handle")
	}
	r.Release() // must not emit

	empty := c.NewRoot(nil)
	if !empty.IsNil() {
		t.Error("Expected handle from nil target to be empty")
	}
	c.ProcessEvents()
	if got := c.NumNodes(); got != 0 {
		t.Errorf("Expected no known nodes, got %d", got)
	}
}

func TestRootObservers(t *testing.T) {
	c := NewCollector(64)
	nodes, _ := newNodes(2)
	a, b := nodes[0], nodes[1]

	ra := c.NewRoot(a)
	ra2 := c.NewRoot(a)
	rb := c.NewRoot(b)
	var empty Root

	if !ra.Eq(ra2) {
		t.Error("Expected handles to the same object to be equal")
	}
	if ra.Eq(rb) {
		t.Error("Expected handles to different objects to differ")
	}

	// Ordering follows object identity; IDs are assigned on first use,
	// so a, compared first, gets the smaller one. Empty handles sort
	// first.
	if !ra.Less(rb) {
		t.Error("Expected a < b by identity")
	}
	if rb.Less(ra) {
		t.Error("Expected b not < a")
	}
	if !empty.Less(ra) {
		t.Error("Expected empty handle to sort first")
	}

	if got := fmt.Sprint(ra); got != fmt.Sprintf("root(%d)", a.ID()) {
		t.Errorf("Unexpected format %q", got)
	}
	if got := fmt.Sprint(empty); got != "root(nil)" {
		t.Errorf("Unexpected empty format %q", got)
	}

	ra.Release()
	ra2.Release()
	rb.Release()
}

func TestEdgeLifecycle(t *testing.T) {
	c := NewCollector(64)
	nodes, _ := newNodes(3)
	owner, x, y := nodes[0], nodes[1], nodes[2]

	rOwner := c.NewRoot(owner)
	rx := c.NewRoot(x)
	ry := c.NewRoot(y)

	e := c.NewEdge(owner)
	if !e.IsNil() {
		t.Error("Expected empty edge from owner-only construction")
	}
	c.ProcessEvents()
	if got := len(owner.adjacency); got != 0 {
		t.Errorf("Expected no adjacency, got %d", got)
	}

	e = c.NewEdgeOf(owner, rx)
	c.ProcessEvents()
	if got := len(owner.adjacency); got != 1 {
		t.Errorf("Expected 1 adjacency entry, got %d", got)
	}

	// Reassignment through a root handle swaps the edge.
	e.AssignRoot(ry)
	c.ProcessEvents()
	if got := len(owner.adjacency); got != 1 {
		t.Errorf("Expected 1 adjacency entry after reassign, got %d", got)
	}
	if owner.adjacency[0] != Collectable(y) {
		t.Error("Expected adjacency to point at y")
	}

	e.Release()
	c.ProcessEvents()
	if got := len(owner.adjacency); got != 0 {
		t.Errorf("Expected empty adjacency after release, got %d", got)
	}

	rOwner.Release()
	rx.Release()
	ry.Release()
}

func TestEdgeSiblings(t *testing.T) {
	c := NewCollector(64)
	nodes, _ := newNodes(2)
	owner, target := nodes[0], nodes[1]

	rOwner := c.NewRoot(owner)
	rt := c.NewRoot(target)

	// Two sibling edges to the same target disconnect independently.
	e1 := c.NewEdgeOf(owner, rt)
	e2 := c.NewEdgeOf(owner, rt)
	c.ProcessEvents()
	if got := len(owner.adjacency); got != 2 {
		t.Errorf("Expected 2 adjacency entries, got %d", got)
	}

	e1.Release()
	c.ProcessEvents()
	if got := len(owner.adjacency); got != 1 {
		t.Errorf("Expected 1 adjacency entry, got %d", got)
	}

	e2.Release()
	c.ProcessEvents()
	if got := len(owner.adjacency); got != 0 {
		t.Errorf("Expected empty adjacency, got %d", got)
	}

	rOwner.Release()
	rt.Release()
}

func TestEdgeAssignSameOwner(t *testing.T) {
	c := NewCollector(64)
	nodes, _ := newNodes(3)
	owner, x, y := nodes[0], nodes[1], nodes[2]

	rx := c.NewRoot(x)
	ry := c.NewRoot(y)
	e1 := c.NewEdgeOf(owner, rx)
	e2 := c.NewEdgeOf(owner, ry)

	e1.Assign(e2)
	c.ProcessEvents()
	if got := len(owner.adjacency); got != 2 {
		t.Errorf("Expected 2 adjacency entries, got %d", got)
	}
	for _, target := range owner.adjacency {
		if target != Collectable(y) {
			t.Error("Expected both edges to point at y")
		}
	}

	rx.Release()
	ry.Release()
}

func TestEdgeAssignDifferentOwnersPanics(t *testing.T) {
	c := NewCollector(64)
	nodes, _ := newNodes(2)

	e1 := c.NewEdge(nodes[0])
	e2 := c.NewEdge(nodes[1])

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on cross-owner assignment")
		}
	}()
	e1.Assign(e2)
}

func TestEdgeNilOwnerPanics(t *testing.T) {
	c := NewCollector(64)

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on nil owner")
		}
	}()
	c.NewEdge(nil)
}

func TestEdgeRootView(t *testing.T) {
	c := NewCollector(64)
	nodes, _ := newNodes(2)
	owner, target := nodes[0], nodes[1]

	rt := c.NewRoot(target)
	e := c.NewEdgeOf(owner, rt)
	rt.Release()

	// The retaining view adds a root reference of its own.
	view := e.Root()
	if view.Get() != Collectable(target) {
		t.Error("Expected view to name the edge's target")
	}
	if got := c.RootCount(target); got != 1 {
		t.Errorf("Expected root count 1 via view, got %d", got)
	}
	view.Release()
	if got := c.RootCount(target); got != 0 {
		t.Errorf("Expected root count 0 after view release, got %d", got)
	}

	e.Release()
}

func TestEdgeObservers(t *testing.T) {
	c := NewCollector(64)
	nodes, _ := newNodes(3)
	owner, x, y := nodes[0], nodes[1], nodes[2]

	rx := c.NewRoot(x)
	ry := c.NewRoot(y)
	ex := c.NewEdgeOf(owner, rx)
	ex2 := c.NewEdgeOf(owner, rx)
	ey := c.NewEdgeOf(owner, ry)
	empty := c.NewEdge(owner)

	if !ex.Eq(ex2) {
		t.Error("Expected edges to the same target to be equal")
	}
	if ex.Eq(ey) {
		t.Error("Expected edges to different targets to differ")
	}
	if !ex.Less(ey) {
		t.Error("Expected x < y by identity")
	}
	if !empty.Less(ex) {
		t.Error("Expected empty edge to sort first")
	}
	if empty.Owner() != Collectable(owner) {
		t.Error("Expected Owner to return the constructing owner")
	}

	if got := fmt.Sprint(ex); got != fmt.Sprintf("edge(%d, %d)", owner.ID(), x.ID()) {
		t.Errorf("Unexpected format %q", got)
	}
	if got := fmt.Sprint(empty); got != fmt.Sprintf("edge(%d, nil)", owner.ID()) {
		t.Errorf("Unexpected empty format %q", got)
	}

	ex.Release()
	ex2.Release()
	ey.Release()
	rx.Release()
	ry.Release()
}
