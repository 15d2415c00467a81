// ABOUTME: Calculates retained object counts using dominator tree analysis
// ABOUTME: Reports how many objects each object keeps alive

package graph

// RetainedCount computes, for each reachable object, the number of
// objects that the next collection would reclaim if that object were
// removed. An object retains itself plus everything it dominates, so
// the count is the size of its dominator subtree. Returns a map from
// object ID to its retained count.
func RetainedCount(g Graph) map[ObjID]int {
	idom := Dominators(g)
	tree := DominatorTree(idom)

	retained := make(map[ObjID]int)

	var subtreeSize func(ObjID) int
	subtreeSize = func(id ObjID) int {
		if n, done := retained[id]; done {
			return n
		}

		n := 1 // the object itself
		for _, child := range tree[id] {
			n += subtreeSize(child)
		}

		retained[id] = n
		return n
	}

	for id := range tree {
		subtreeSize(id)
	}

	// The super-root is synthetic and retains the whole graph; drop it.
	delete(retained, 0)

	return retained
}

// RetainedCountSubset computes retained counts for a specific subset
// of objects. This avoids walking the whole dominator tree when only a
// few objects are of interest.
func RetainedCountSubset(g Graph, targetIDs []ObjID) map[ObjID]int {
	if len(targetIDs) == 0 {
		return make(map[ObjID]int)
	}

	idom := Dominators(g)
	tree := DominatorTree(idom)

	computed := make(map[ObjID]int)
	var subtreeSize func(ObjID) int
	subtreeSize = func(id ObjID) int {
		if n, done := computed[id]; done {
			return n
		}

		n := 1
		for _, child := range tree[id] {
			n += subtreeSize(child)
		}

		computed[id] = n
		return n
	}

	result := make(map[ObjID]int)
	for _, id := range targetIDs {
		if id == 0 {
			continue
		}
		// Unreachable or unknown objects are absent from the tree.
		if _, reachable := tree[id]; reachable {
			result[id] = subtreeSize(id)
		}
	}

	return result
}
