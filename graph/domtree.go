// ABOUTME: Utility functions for working with dominator trees
// ABOUTME: Provides tree construction, traversal and analysis capabilities

package graph

import "golang.org/x/exp/slices"

// DominatorTree builds a tree structure from immediate dominators.
// Returns a map from each node to its immediately dominated children,
// sorted by ID. The super-root (ID 0) is the tree's root.
func DominatorTree(idom map[ObjID]ObjID) map[ObjID][]ObjID {
	tree := make(map[ObjID][]ObjID)

	for node := range idom {
		tree[node] = []ObjID{}
	}
	tree[0] = []ObjID{}

	for node, dom := range idom {
		tree[dom] = append(tree[dom], node)
	}
	for _, children := range tree {
		slices.Sort(children)
	}

	return tree
}

// DominatorDepth computes the depth of each node in the dominator
// tree. Returns a map from node ID to its depth; the super-root has
// depth 0.
func DominatorDepth(tree map[ObjID][]ObjID) map[ObjID]int {
	depth := make(map[ObjID]int)

	type entry struct {
		node ObjID
		d    int
	}
	queue := []entry{{node: 0, d: 0}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		depth[e.node] = e.d
		for _, child := range tree[e.node] {
			queue = append(queue, entry{node: child, d: e.d + 1})
		}
	}

	return depth
}

// DominatorPath returns the path from a node to the root of the
// dominator tree. The path includes the node itself and ends with the
// super-root.
func DominatorPath(idom map[ObjID]ObjID, node ObjID) []ObjID {
	var path []ObjID
	current := node

	for {
		path = append(path, current)
		dom, exists := idom[current]
		if !exists || dom == 0 {
			if current != 0 {
				path = append(path, 0)
			}
			break
		}
		current = dom
	}

	return path
}

// IsDominated returns true if node is dominated by dominator. A node
// dominates itself; the super-root dominates everything reachable.
func IsDominated(idom map[ObjID]ObjID, node, dominator ObjID) bool {
	if node == dominator {
		return true
	}

	current := node
	for {
		dom, exists := idom[current]
		if !exists {
			return dominator == 0 && current == 0
		}
		if dom == dominator {
			return true
		}
		if dom == 0 {
			return dominator == 0
		}
		current = dom
	}
}
