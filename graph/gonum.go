// ABOUTME: Interop with the gonum graph algorithms
// ABOUTME: Exports snapshots as directed multigraphs and reports cycles

package graph

import (
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

// node adapts an ObjID to gonum's graph.Node.
type node int64

func (n node) ID() int64 { return int64(n) }

// Export builds a gonum directed multigraph from a snapshot. The
// adjacency multiset maps onto parallel lines, one per live edge.
// Self-referencing edges are omitted because gonum multigraphs reject
// self-loops; use Cycles to find them.
func Export(g Graph) *multi.DirectedGraph {
	dg := multi.NewDirectedGraph()

	g.ForEachObject(func(obj *Object) {
		if dg.Node(int64(obj.ID)) == nil {
			dg.AddNode(node(obj.ID))
		}
		for _, ref := range obj.Refs {
			if ref == obj.ID {
				continue
			}
			dg.SetLine(dg.NewLine(node(obj.ID), node(ref)))
		}
	})

	return dg
}

// Cycles returns the non-trivial cycles in a snapshot: every strongly
// connected component with more than one member, plus every object
// that references itself. Cycles that lose their last root are exactly
// what reference counting would leak and what the collector exists to
// reclaim. Each component is sorted by ID, and components are sorted
// by their smallest member.
func Cycles(g Graph) [][]ObjID {
	var cycles [][]ObjID

	for _, scc := range topo.TarjanSCC(Export(g)) {
		if len(scc) < 2 {
			continue
		}
		component := make([]ObjID, len(scc))
		for i, n := range scc {
			component[i] = ObjID(n.ID())
		}
		slices.Sort(component)
		cycles = append(cycles, component)
	}

	// Self-loops are single-object cycles; Export dropped them.
	g.ForEachObject(func(obj *Object) {
		if slices.Contains(obj.Refs, obj.ID) {
			cycles = append(cycles, []ObjID{obj.ID})
		}
	})

	slices.SortFunc(cycles, func(a, b []ObjID) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		default:
			return 0
		}
	})

	return cycles
}
