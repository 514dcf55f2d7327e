// Package topo builds a half-edge index over a subset of a mesh's faces.
// The index is rebuilt on demand from the live face list and never
// persisted across mesh edits.
package topo

import (
	"fmt"

	"github.com/chazu/adze/pkg/mesh"
)

// MaxWalk bounds every adjacency traversal so malformed or cyclic
// topology truncates instead of spinning.
const MaxWalk = 2048

// HalfEdge is one directed edge of one triangle run. Opposite is the
// same edge seen from a neighboring half-edge, nil on a boundary.
type HalfEdge struct {
	Edge     mesh.Edge
	From, To int
	Face     int // mesh face index
	Next     *HalfEdge
	Opposite *HalfEdge
}

// IsBoundary reports whether the half-edge has no opposite.
func (h *HalfEdge) IsBoundary() bool {
	return h.Opposite == nil
}

// Index is a half-edge graph over a face subset.
type Index struct {
	m         *mesh.Mesh
	faces     []int
	halfEdges []*HalfEdge
	byEdge    map[mesh.Edge][]*HalfEdge
	byVertex  map[int][]*HalfEdge
}

// AllFaces returns the index subset covering every face of m.
func AllFaces(m *mesh.Mesh) []int {
	faces := make([]int, m.FaceCount())
	for i := range faces {
		faces[i] = i
	}
	return faces
}

// Build constructs the half-edge index for the given face subset.
// Two half-edges with the same normalized edge are linked as opposites;
// a third or later occurrence of an edge stays unlinked and counts as an
// additional boundary occurrence (non-manifold edges are tolerated, not
// resolved). Faces referencing out-of-range vertices fail the build.
func Build(m *mesh.Mesh, faceSubset []int) (*Index, error) {
	idx := &Index{
		m:        m,
		faces:    append([]int(nil), faceSubset...),
		byEdge:   make(map[mesh.Edge][]*HalfEdge),
		byVertex: make(map[int][]*HalfEdge),
	}

	for _, fi := range faceSubset {
		if fi < 0 || fi >= m.FaceCount() {
			return nil, fmt.Errorf("%w: face subset references face %d of %d", mesh.ErrInvalidTopology, fi, m.FaceCount())
		}
		f := m.Faces[fi]
		if len(f.Indices)%3 != 0 {
			return nil, fmt.Errorf("%w: face %d has %d indices, not a multiple of 3", mesh.ErrInvalidTopology, fi, len(f.Indices))
		}
		for ti := 0; ti < f.TriangleCount(); ti++ {
			tri := f.Triangle(ti)
			var runEdges [3]*HalfEdge
			for j := 0; j < 3; j++ {
				a, b := tri[j], tri[(j+1)%3]
				if a < 0 || a >= m.VertexCount() || b < 0 || b >= m.VertexCount() {
					return nil, fmt.Errorf("%w: face %d references vertex out of range", mesh.ErrInvalidTopology, fi)
				}
				he := &HalfEdge{
					Edge: mesh.NewEdge(a, b),
					From: a,
					To:   b,
					Face: fi,
				}
				runEdges[j] = he
				idx.link(he)
			}
			for j := 0; j < 3; j++ {
				runEdges[j].Next = runEdges[(j+1)%3]
			}
		}
	}
	return idx, nil
}

// link registers he and pairs it with the first unpaired half-edge of
// the same normalized edge, if any.
func (idx *Index) link(he *HalfEdge) {
	for _, other := range idx.byEdge[he.Edge] {
		if other.Opposite == nil {
			other.Opposite = he
			he.Opposite = other
			break
		}
	}
	idx.byEdge[he.Edge] = append(idx.byEdge[he.Edge], he)
	idx.byVertex[he.From] = append(idx.byVertex[he.From], he)
	idx.byVertex[he.To] = append(idx.byVertex[he.To], he)
	idx.halfEdges = append(idx.halfEdges, he)
}

// HalfEdges returns every half-edge in creation order.
func (idx *Index) HalfEdges() []*HalfEdge {
	return idx.halfEdges
}

// Faces returns the face subset the index was built over.
func (idx *Index) Faces() []int {
	return idx.faces
}

// IsBoundary reports whether e has at least one half-edge with no
// opposite. Unknown edges are not boundary.
func (idx *Index) IsBoundary(e mesh.Edge) bool {
	for _, he := range idx.byEdge[e] {
		if he.Opposite == nil {
			return true
		}
	}
	return false
}

// BoundaryEdges returns all half-edges with no opposite, in creation order.
func (idx *Index) BoundaryEdges() []*HalfEdge {
	var out []*HalfEdge
	for _, he := range idx.halfEdges {
		if he.Opposite == nil {
			out = append(out, he)
		}
	}
	return out
}

// AtVertex returns the half-edges touching vertex slot v, in creation order.
func (idx *Index) AtVertex(v int) []*HalfEdge {
	return idx.byVertex[v]
}

// AtEdge returns every half-edge with the given normalized edge.
func (idx *Index) AtEdge(e mesh.Edge) []*HalfEdge {
	return idx.byEdge[e]
}

// NeighborFaces returns every face of the whole mesh incident to e,
// whether or not it is in the indexed subset.
func (idx *Index) NeighborFaces(e mesh.Edge) []int {
	var out []int
	for fi, f := range idx.m.Faces {
		for _, fe := range f.Edges() {
			if fe == e {
				out = append(out, fi)
				break
			}
		}
	}
	return out
}
