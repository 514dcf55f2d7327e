// Package holes finds boundary-edge loops ("holes") over the whole mesh
// and fills a given loop with a new face conformed to its neighborhood.
package holes

import (
	"github.com/chazu/adze/pkg/mesh"
	"github.com/chazu/adze/pkg/topo"
)

// Hole is one closed loop of boundary edges. Edges[i] connects
// Vertices[i] to Vertices[(i+1) % len]. A loop needs at least three
// edges to be fillable.
type Hole struct {
	Edges    []mesh.Edge
	Vertices []int
}

// Len returns the number of edges in the loop.
func (h *Hole) Len() int {
	return len(h.Edges)
}

// Find walks the boundary half-edges of the entire mesh into maximal
// closed loops. When relevant is non-nil, only loops seeded from a
// boundary edge with both endpoints in relevant are reported.
//
// Malformed boundaries (open chains, walks exceeding the iteration cap)
// are discarded silently: a partial boundary is a valid non-fillable
// state, not an error. Loops shorter than three edges are discarded too.
func Find(m *mesh.Mesh, relevant map[int]bool) ([]*Hole, error) {
	idx, err := topo.Build(m, topo.AllFaces(m))
	if err != nil {
		return nil, err
	}
	return findLoops(idx, relevant), nil
}

func findLoops(idx *topo.Index, relevant map[int]bool) []*Hole {
	used := make(map[*topo.HalfEdge]bool)
	var out []*Hole

	for _, start := range idx.HalfEdges() {
		if !start.IsBoundary() || used[start] {
			continue
		}
		if relevant != nil && (!relevant[start.From] || !relevant[start.To]) {
			continue
		}
		if h := walkLoop(idx, start, used); h != nil {
			out = append(out, h)
		}
	}
	return out
}

// FindContaining returns the boundary loop that contains seed, for
// callers holding only an edge (e.g. from BoundaryEdgeFromVertex)
// rather than a previous Find result.
func FindContaining(m *mesh.Mesh, seed mesh.Edge) (*Hole, bool, error) {
	found, err := Find(m, nil)
	if err != nil {
		return nil, false, err
	}
	for _, h := range found {
		for _, e := range h.Edges {
			if e == seed {
				return h, true, nil
			}
		}
	}
	return nil, false, nil
}

// walkLoop traces the boundary loop containing start. Every half-edge it
// visits is marked used whether or not the loop closes, so a malformed
// chain is not re-walked from another seed.
func walkLoop(idx *topo.Index, start *topo.HalfEdge, used map[*topo.HalfEdge]bool) *Hole {
	used[start] = true
	h := &Hole{
		Edges:    []mesh.Edge{start.Edge},
		Vertices: []int{start.From},
	}
	startV := start.From
	cur := start.To
	closed := false

	for iter := 0; iter < topo.MaxWalk; iter++ {
		if cur == startV {
			closed = true
			break
		}
		var next *topo.HalfEdge
		for _, cand := range idx.AtVertex(cur) {
			// Edges with an opposite are interior to some face pair,
			// never part of the hole boundary.
			if !cand.IsBoundary() || used[cand] {
				continue
			}
			next = cand
			break
		}
		if next == nil {
			// Dangling boundary: no cyclic closure.
			break
		}
		used[next] = true
		h.Edges = append(h.Edges, next.Edge)
		h.Vertices = append(h.Vertices, cur)
		cur, _ = next.Edge.Other(cur)
	}

	if !closed || h.Len() < 3 {
		return nil
	}
	return h
}
