package holes

import (
	"errors"
	"fmt"

	"github.com/chazu/adze/pkg/mesh"
	"github.com/chazu/adze/pkg/topo"
)

// Fill errors. Per-element fill failures are reported to the caller,
// who continues with the remaining holes.
var (
	ErrLoopTooSmall = errors.New("hole loop has fewer than 3 edges")
	ErrNotBoundary  = errors.New("hole loop is no longer a boundary")
)

// Fill closes h with a new face spanning its vertex loop and appends it
// to the mesh's face list, returning the new face index.
//
// The loop's vertex run is reversed before triangulation, then the new
// face copies material/UV attributes from one adjacent existing face and
// flips its winding if it disagrees with that neighbor. A fully isolated
// hole keeps default attributes. Degenerate triangles from a
// self-intersecting loop are left for the caller's cleanup pass.
func Fill(m *mesh.Mesh, h *Hole) (int, error) {
	if h.Len() < 3 {
		return -1, ErrLoopTooSmall
	}

	// The loop must still be a true boundary against the live mesh; the
	// caller may have edited faces since Find ran.
	idx, err := topo.Build(m, topo.AllFaces(m))
	if err != nil {
		return -1, err
	}
	for _, e := range h.Edges {
		if !idx.IsBoundary(e) {
			return -1, fmt.Errorf("%w: edge %v", ErrNotBoundary, e)
		}
	}

	loop := make([]int, len(h.Vertices))
	for i, v := range h.Vertices {
		loop[len(loop)-1-i] = v
	}

	face := mesh.Face{Indices: fanTriangulate(loop)}
	m.Faces = append(m.Faces, face)
	fi := len(m.Faces) - 1

	// Rebuild with the new face in place, then conform attributes and
	// winding to one adjacent face.
	idx, err = topo.Build(m, topo.AllFaces(m))
	if err != nil {
		return -1, err
	}
	if ni, she, ok := adjacentFace(idx, fi, h); ok {
		m.Faces[fi].Material = m.Faces[ni].Material
		m.Faces[fi].UVGroup = m.Faces[ni].UVGroup
		if !windingAgrees(m.Faces[fi], m.Faces[ni], she) {
			m.Faces[fi].FlipWinding()
		}
	}
	return fi, nil
}

// fanTriangulate converts an ordered vertex loop into triangle runs
// fanned from the first vertex.
func fanTriangulate(loop []int) []int {
	var idxs []int
	for i := 1; i+1 < len(loop); i++ {
		idxs = append(idxs, loop[0], loop[i], loop[i+1])
	}
	return idxs
}

// adjacentFace returns a face other than fi sharing one of the hole's
// edges, with the shared edge.
func adjacentFace(idx *topo.Index, fi int, h *Hole) (int, mesh.Edge, bool) {
	for _, e := range h.Edges {
		for _, ni := range idx.NeighborFaces(e) {
			if ni != fi {
				return ni, e, true
			}
		}
	}
	return -1, mesh.Edge{}, false
}

// windingAgrees reports whether faces a and b are consistently wound
// across their shared edge: consistent orientation traverses the edge
// in opposite directions in the two faces.
func windingAgrees(a, b mesh.Face, shared mesh.Edge) bool {
	da, ok := directedIn(a, shared)
	if !ok {
		return true
	}
	db, ok := directedIn(b, shared)
	if !ok {
		return true
	}
	return da != db
}

// directedIn returns true as the second value when face f contains the
// shared edge, and as the first whether f traverses it from shared.A to
// shared.B.
func directedIn(f mesh.Face, shared mesh.Edge) (bool, bool) {
	for i := 0; i < f.TriangleCount(); i++ {
		tri := f.Triangle(i)
		for j := 0; j < 3; j++ {
			a, b := tri[j], tri[(j+1)%3]
			if mesh.NewEdge(a, b) == shared {
				return a == shared.A, true
			}
		}
	}
	return false, false
}

// IsBoundaryEdge rebuilds the full-mesh index and reports whether e is
// currently a boundary edge.
func IsBoundaryEdge(m *mesh.Mesh, e mesh.Edge) (bool, error) {
	idx, err := topo.Build(m, topo.AllFaces(m))
	if err != nil {
		return false, err
	}
	return idx.IsBoundary(e), nil
}

// BoundaryEdgeFromVertex rebuilds the full-mesh index and returns a
// boundary edge touching v or any of v's coincident-position partners.
// ok is false when no such edge exists.
func BoundaryEdgeFromVertex(m *mesh.Mesh, v int, tol float64) (mesh.Edge, bool, error) {
	idx, err := topo.Build(m, topo.AllFaces(m))
	if err != nil {
		return mesh.Edge{}, false, err
	}
	candidates := append([]int{v}, mesh.PartnersOf(m, v, tol)...)
	for _, cv := range candidates {
		for _, he := range idx.AtVertex(cv) {
			if he.IsBoundary() {
				return he.Edge, true, nil
			}
		}
	}
	return mesh.Edge{}, false, nil
}
