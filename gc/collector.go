// ABOUTME: The mark-sweep collector and its shadow object graph
// ABOUTME: Drains mutator events, traces reachability, reclaims unreachable objects

package gc

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/prateek/shadowgc/eventq"
	"github.com/prateek/shadowgc/graph"
)

// DefaultQueueCap is the event channel capacity of the Default
// collector.
const DefaultQueueCap = 32768

// Collector owns a shadow copy of the object graph, kept eventually
// consistent with the handle graph by the event channel, and reclaims
// unreachable objects with a mark-sweep pass.
//
// The four event producers (AddRoot, RemoveRoot, Connect, Disconnect)
// are safe to call from any goroutine and never block except while the
// channel is full. ProcessEvents and Collect serialize on the
// collection mutex; only one collection runs at a time.
type Collector struct {
	queue *eventq.Queue[event]

	mu           sync.Mutex // the collection mutex
	nodes        map[Collectable]struct{}
	epoch        uint64
	graphChanged bool

	// Goroutine id of the goroutine running mark-sweep, 0 when no
	// collection is in progress. Goroutine ids start at 1.
	gcGoid atomic.Int64

	diag atomic.Pointer[log.Logger]
}

var (
	defaultOnce sync.Once
	defaultInst *Collector
)

// Default returns the process-wide collector, creating it on first use
// with DefaultQueueCap. Handles built with NewRoot and NewEdge are
// bound to it.
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultInst = NewCollector(DefaultQueueCap)
	})
	return defaultInst
}

// NewCollector creates a collector with its own event channel holding
// at least queueCap events. Most programs use Default; separate
// instances are useful for tests and for isolating object graphs.
func NewCollector(queueCap int) *Collector {
	return &Collector{
		queue: eventq.New[event](queueCap),
		nodes: make(map[Collectable]struct{}),
	}
}

// SetDiagnostics routes the collector's diagnostic output (currently
// only channel-full warnings) to l. A nil logger restores the default
// stderr logger.
func (c *Collector) SetDiagnostics(l *log.Logger) {
	c.diag.Store(l)
}

var stderrLog = log.New(os.Stderr, "", log.LstdFlags)

func (c *Collector) diagLog() *log.Logger {
	if l := c.diag.Load(); l != nil {
		return l
	}
	return stderrLog
}

// push enqueues an event, spinning while the channel is full. Dropping
// an event would silently corrupt the shadow graph, so a full channel
// stalls the producer; each retry is reported because a full channel
// means the queue is undersized for the mutation rate.
func (c *Collector) push(e event) {
	for !c.queue.TryPush(e) {
		c.diagLog().Print("gc: warning: collector event queue is full")
		runtime.Gosched()
	}
}

// AddRoot records one root reference to n. Handles emit this; call it
// directly only when managing references manually.
func (c *Collector) AddRoot(n Collectable) {
	c.push(event{kind: eventAddRoot, a: n})
}

// RemoveRoot drops one root reference to n.
func (c *Collector) RemoveRoot(n Collectable) {
	c.push(event{kind: eventRemoveRoot, a: n})
}

// Connect records a reference from a to b.
func (c *Collector) Connect(a, b Collectable) {
	c.push(event{kind: eventConnect, a: a, b: b})
}

// Disconnect drops one reference from a to b.
func (c *Collector) Disconnect(a, b Collectable) {
	c.push(event{kind: eventDisconnect, a: a, b: b})
}

// ProcessEvents drains the event channel into the shadow graph.
// Calling it is optional: Collect drains on its own, but when mutators
// generate many edits between collections, frequent draining keeps the
// channel small.
func (c *Collector) ProcessEvents() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drain()
}

// drain applies queued events in dequeue order. Caller holds c.mu.
func (c *Collector) drain() {
	for {
		e, ok := c.queue.TryPop()
		if !ok {
			return
		}
		c.graphChanged = true
		obj := e.a.gcObject()
		switch e.kind {
		case eventAddRoot:
			// The only event that introduces an object to the node
			// set. Edge targets become known transitively: every edge
			// handle's target passed through a root handle first.
			c.nodes[e.a] = struct{}{}
			obj.rootCount++
		case eventRemoveRoot:
			obj.rootCount--
			if obj.rootCount < 0 {
				panic(fmt.Sprintf("gc: root count below zero for object %d", obj.ID()))
			}
		case eventConnect:
			obj.adjacency = append(obj.adjacency, e.b)
		case eventDisconnect:
			i := slices.Index(obj.adjacency, e.b)
			if i < 0 {
				panic(fmt.Sprintf("gc: disconnect of unknown edge %d -> %d", obj.ID(), e.b.gcObject().ID()))
			}
			obj.adjacency = slices.Delete(obj.adjacency, i, i+1)
		}
	}
}

// Collect drains pending events and, if the graph changed since the
// last pass, runs a full mark-sweep, destroying every known object
// that is no longer reachable from a root. Concurrent callers
// serialize on the collection mutex.
//
// Mutators may keep emitting events during a collection; such events
// are applied by the next drain and their reachability effects are
// deferred by one cycle. An object is reclaimed only if every event
// processed so far leaves it unreachable.
func (c *Collector) Collect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gcGoid.Store(goid.Get())
	defer c.gcGoid.Store(0)

	c.drain()

	if !c.graphChanged {
		return
	}

	c.epoch++

	// Mark: trace from every rooted object, stamping the current
	// epoch. Any traversal order works; reachability is a fixed point.
	var stack []Collectable
	for n := range c.nodes {
		if n.gcObject().rootCount > 0 {
			stack = append(stack, n)
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		obj := n.gcObject()
		if obj.epoch != c.epoch {
			obj.epoch = c.epoch
			stack = append(stack, obj.adjacency...)
		}
	}

	// Sweep: destroy everything the mark did not reach. Destructors
	// run on this goroutine, so edge handles released inside them see
	// InGC() == true and stay silent.
	for n := range c.nodes {
		if n.gcObject().epoch != c.epoch {
			delete(c.nodes, n)
			if d, ok := n.(Destroyer); ok {
				d.Destroy()
			}
		}
	}

	c.graphChanged = false
}

// InGC reports whether the calling goroutine is currently running a
// collection. Edge handles released while their owner is being
// reclaimed use it to suppress their Disconnect events; on every other
// goroutine it is always false.
func (c *Collector) InGC() bool {
	return c.gcGoid.Load() == goid.Get()
}

// Epoch returns the number of mark phases run so far.
func (c *Collector) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// NumNodes drains pending events and returns the number of objects the
// collector currently knows about.
func (c *Collector) NumNodes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drain()
	return len(c.nodes)
}

// RootCount drains pending events and returns n's root reference count
// in the shadow graph.
func (c *Collector) RootCount(n Collectable) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drain()
	return n.gcObject().rootCount
}

// Snapshot drains pending events and returns a point-in-time copy of
// the shadow graph for offline analysis with the graph package. Object
// types are the dynamic Go type names of the collectables.
func (c *Collector) Snapshot() graph.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drain()

	g := graph.NewMemGraph()
	var roots []graph.ObjID
	for _, n := range maps.Keys(c.nodes) {
		obj := n.gcObject()
		refs := make([]graph.ObjID, len(obj.adjacency))
		for i, target := range obj.adjacency {
			refs[i] = target.gcObject().ID()
		}
		g.AddObject(&graph.Object{
			ID:   obj.ID(),
			Type: fmt.Sprintf("%T", n),
			Refs: refs,
		})
		if obj.rootCount > 0 {
			roots = append(roots, obj.ID())
		}
	}
	slices.Sort(roots)
	g.SetRoots(graph.Roots{IDs: roots})
	return g
}
