// ABOUTME: BFS algorithm for finding paths from objects to rooted objects
// ABOUTME: Answers "why is this object still alive" for retention debugging

package graph

// Path represents a path from an object to a rooted object
type Path struct {
	IDs []ObjID // Sequence of object IDs from target to root
}

// PathsToRoots finds up to maxPaths paths from an object to rooted
// objects using BFS over reverse edges. Paths are reported shortest
// first; each path starts at from and ends at a root. Because the
// adjacency is a multiset, parallel edges between the same pair of
// objects contribute a single referrer step.
func PathsToRoots(g Graph, from ObjID, maxPaths int) []Path {
	if maxPaths <= 0 {
		return nil
	}

	reverse := BuildReverseEdges(g)

	rootSet := make(map[ObjID]bool)
	for _, id := range g.GetRoots().IDs {
		rootSet[id] = true
	}

	// A rooted object is its own shortest path.
	if rootSet[from] {
		return []Path{{IDs: []ObjID{from}}}
	}

	type searchNode struct {
		id   ObjID
		path []ObjID
	}

	var result []Path
	queue := []searchNode{{id: from, path: []ObjID{from}}}

	for len(queue) > 0 && len(result) < maxPaths {
		node := queue[0]
		queue = queue[1:]

		seenStep := make(map[ObjID]bool)
		for _, referrer := range reverse[node.id] {
			// Parallel edges collapse to one step.
			if seenStep[referrer] {
				continue
			}
			seenStep[referrer] = true

			// Avoid cycles: skip referrers already on this path.
			inPath := false
			for _, id := range node.path {
				if id == referrer {
					inPath = true
					break
				}
			}
			if inPath {
				continue
			}

			newPath := make([]ObjID, len(node.path)+1)
			copy(newPath, node.path)
			newPath[len(node.path)] = referrer

			if rootSet[referrer] {
				result = append(result, Path{IDs: newPath})
				if len(result) >= maxPaths {
					break
				}
			} else {
				queue = append(queue, searchNode{id: referrer, path: newPath})
			}
		}
	}

	return result
}
