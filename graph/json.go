// ABOUTME: JSON codec for shadow graph snapshots
// ABOUTME: Dumps snapshots for offline analysis and reads them back

package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrBadSnapshot is returned when a snapshot document is structurally
// invalid.
var ErrBadSnapshot = errors.New("graph: malformed snapshot")

// jsonSnapshot is the on-disk snapshot format.
type jsonSnapshot struct {
	Objects []jsonObject `json:"objects"`
	Roots   []ObjID      `json:"roots"`
}

// jsonObject represents an object in the JSON format.
type jsonObject struct {
	ID   ObjID   `json:"id"`
	Type string  `json:"type,omitempty"`
	Refs []ObjID `json:"refs,omitempty"`
}

// WriteJSON writes a snapshot to w. Objects are emitted in ascending
// ID order, so equal graphs serialize identically.
func WriteJSON(w io.Writer, g Graph) error {
	dump := jsonSnapshot{
		Objects: []jsonObject{},
		Roots:   g.GetRoots().IDs,
	}
	if dump.Roots == nil {
		dump.Roots = []ObjID{}
	}

	g.ForEachObject(func(obj *Object) {
		dump.Objects = append(dump.Objects, jsonObject{
			ID:   obj.ID,
			Type: obj.Type,
			Refs: obj.Refs,
		})
	})

	enc := json.NewEncoder(w)
	return enc.Encode(&dump)
}

// OpenJSON reads a snapshot written by WriteJSON and builds a graph.
func OpenJSON(r io.Reader) (Graph, error) {
	var dump jsonSnapshot

	dec := json.NewDecoder(r)
	if err := dec.Decode(&dump); err != nil {
		return nil, fmt.Errorf("graph: failed to decode snapshot: %w", err)
	}

	g := NewMemGraph()
	seen := make(map[ObjID]bool)
	for i, obj := range dump.Objects {
		if obj.ID == 0 {
			return nil, fmt.Errorf("%w: object at index %d missing ID", ErrBadSnapshot, i)
		}
		if seen[obj.ID] {
			return nil, fmt.Errorf("%w: duplicate object %d", ErrBadSnapshot, obj.ID)
		}
		seen[obj.ID] = true

		refs := obj.Refs
		if refs == nil {
			refs = []ObjID{}
		}
		g.AddObject(&Object{
			ID:   obj.ID,
			Type: obj.Type,
			Refs: refs,
		})
	}

	roots := dump.Roots
	if roots == nil {
		roots = []ObjID{}
	}
	for _, id := range roots {
		if !seen[id] {
			return nil, fmt.Errorf("%w: root %d has no object", ErrBadSnapshot, id)
		}
	}
	g.SetRoots(Roots{IDs: roots})

	return g, nil
}
