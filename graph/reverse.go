// ABOUTME: Builds reverse edges for graph traversal
// ABOUTME: Maps objects to their referrers for paths-to-roots

package graph

// ReverseEdges maps each object to the objects that reference it. A
// referrer appears once per edge, mirroring the adjacency multiset.
type ReverseEdges map[ObjID][]ObjID

// BuildReverseEdges creates a map of reverse edges
func BuildReverseEdges(g Graph) ReverseEdges {
	reverse := make(ReverseEdges)

	g.ForEachObject(func(obj *Object) {
		for _, target := range obj.Refs {
			reverse[target] = append(reverse[target], obj.ID)
		}
	})

	return reverse
}
