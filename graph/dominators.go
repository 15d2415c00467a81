// ABOUTME: Computes immediate dominators for snapshot graphs
// ABOUTME: Iterative reverse-postorder dominance (Cooper-Harvey-Kennedy)

package graph

// Dominators computes the immediate dominator for each reachable
// object in the graph, using the iterative reverse-postorder dominance
// algorithm. Returns a map from object ID to its immediate dominator
// ID. The synthetic super-root (ID 0) reaches every rooted object,
// dominates all of them, and has no dominator itself; it does not
// appear as a key in the result. Unreachable objects are absent.
func Dominators(g Graph) map[ObjID]ObjID {
	// Forward adjacency with the super-root fanning out to all roots.
	// Parallel edges collapse: dominance only cares whether an edge
	// exists.
	succ := make(map[ObjID][]ObjID)
	succ[0] = append([]ObjID{}, g.GetRoots().IDs...)
	g.ForEachObject(func(obj *Object) {
		seen := make(map[ObjID]bool)
		for _, ref := range obj.Refs {
			if !seen[ref] {
				seen[ref] = true
				succ[obj.ID] = append(succ[obj.ID], ref)
			}
		}
	})

	// Postorder over the reachable subgraph by iterative DFS; live
	// object chains can be deep enough to make recursion unsafe.
	const (
		white = iota
		gray
		black
	)
	state := make(map[ObjID]int)
	var postorder []ObjID

	type frame struct {
		id   ObjID
		next int
	}
	stack := []frame{{id: 0}}
	state[0] = gray
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next < len(succ[f.id]) {
			child := succ[f.id][f.next]
			f.next++
			if state[child] == white {
				state[child] = gray
				stack = append(stack, frame{id: child})
			}
			continue
		}
		state[f.id] = black
		postorder = append(postorder, f.id)
		stack = stack[:len(stack)-1]
	}

	// Reverse-postorder index per reachable node. The super-root
	// finishes last, so it holds index 0.
	rpo := make(map[ObjID]int, len(postorder))
	for i, id := range postorder {
		rpo[id] = len(postorder) - 1 - i
	}

	// Predecessors within the reachable subgraph.
	preds := make(map[ObjID][]ObjID)
	for id := range rpo {
		for _, s := range succ[id] {
			if _, reachable := rpo[s]; reachable {
				preds[s] = append(preds[s], id)
			}
		}
	}

	idom := make(map[ObjID]ObjID)
	idom[0] = 0

	// Walk both idom chains up to the common ancestor, ordering by
	// reverse-postorder index.
	intersect := func(a, b ObjID) ObjID {
		for a != b {
			for rpo[a] > rpo[b] {
				a = idom[a]
			}
			for rpo[b] > rpo[a] {
				b = idom[b]
			}
		}
		return a
	}

	// Iterate to the fixed point, visiting nodes in reverse postorder
	// (postorder back to front, skipping the super-root at the end).
	for changed := true; changed; {
		changed = false
		for i := len(postorder) - 2; i >= 0; i-- {
			n := postorder[i]

			var newIdom ObjID
			found := false
			for _, p := range preds[n] {
				if _, processed := idom[p]; !processed {
					continue
				}
				if !found {
					newIdom = p
					found = true
				} else {
					newIdom = intersect(p, newIdom)
				}
			}
			if !found {
				continue
			}

			if cur, ok := idom[n]; !ok || cur != newIdom {
				idom[n] = newIdom
				changed = true
			}
		}
	}

	delete(idom, 0)
	return idom
}
