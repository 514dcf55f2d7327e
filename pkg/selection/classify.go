// Package selection classifies the vertices and edges of a face
// selection as perimeter or interior, and groups coincident-position
// vertex slots ("partners") so seam-duplicated geometry reads as one
// topological point.
package selection

import (
	"github.com/chazu/adze/pkg/geom"
	"github.com/chazu/adze/pkg/mesh"
	"github.com/chazu/adze/pkg/topo"
)

// VertexRecord labels one selection vertex. Interior means every
// selection edge touching the vertex is interior; otherwise the vertex
// sits on the selection's perimeter. Partners are the other selection
// vertices sharing this vertex's position.
type VertexRecord struct {
	Vertex         int
	Interior       bool
	PerimeterEdges []*topo.HalfEdge
	InteriorEdges  []*topo.HalfEdge
	Partners       []int
}

// EdgeRecord labels one distinct selection edge.
type EdgeRecord struct {
	Edge     mesh.Edge
	Interior bool
}

// Classification is the result of classifying one face selection.
// Vertices and Edges preserve first-touch order over the selected
// faces, so identical input yields identical output.
type Classification struct {
	Vertices []*VertexRecord
	ByVertex map[int]*VertexRecord
	Edges    []*EdgeRecord
	ByEdge   map[mesh.Edge]*EdgeRecord
}

// Classify labels the vertices and edges of selectedFaces.
//
// An edge is interior when another selection edge spans the same two
// endpoint positions within tol; index equality is not required, which
// unifies edges split across duplicated seam slots. An empty selection
// yields empty records, not an error.
func Classify(m *mesh.Mesh, idx *topo.Index, selectedFaces []int, tol float64) *Classification {
	c := &Classification{
		ByVertex: make(map[int]*VertexRecord),
		ByEdge:   make(map[mesh.Edge]*EdgeRecord),
	}

	// Distinct vertices and edges in first-touch order. Edge occurrences
	// are counted per triangle run so an edge literally shared by two
	// selected triangles is caught even without a positional twin.
	edgeCount := make(map[mesh.Edge]int)
	var vertOrder []int
	var edgeOrder []mesh.Edge
	for _, fi := range selectedFaces {
		f := m.Faces[fi]
		for _, v := range f.Vertices() {
			if _, ok := c.ByVertex[v]; !ok {
				rec := &VertexRecord{Vertex: v}
				c.ByVertex[v] = rec
				c.Vertices = append(c.Vertices, rec)
				vertOrder = append(vertOrder, v)
			}
		}
		for _, e := range f.Edges() {
			if edgeCount[e] == 0 {
				edgeOrder = append(edgeOrder, e)
			}
			edgeCount[e]++
		}
	}

	for _, e := range edgeOrder {
		rec := &EdgeRecord{Edge: e}
		c.ByEdge[e] = rec
		c.Edges = append(c.Edges, rec)
	}

	// Interior test: literal sharing, or a positional twin among the
	// other selection edges.
	for _, rec := range c.Edges {
		if edgeCount[rec.Edge] >= 2 {
			rec.Interior = true
			continue
		}
		rec.Interior = hasPositionalTwin(m, rec.Edge, edgeOrder, tol)
	}

	// A vertex is interior iff every selection edge touching it is interior.
	for _, rec := range c.Vertices {
		touched := false
		interior := true
		for _, er := range c.Edges {
			if !er.Edge.Touches(rec.Vertex) {
				continue
			}
			touched = true
			if !er.Interior {
				interior = false
			}
		}
		rec.Interior = touched && interior
	}

	// Incident half-edges split by the owning edge's classification.
	for _, rec := range c.Vertices {
		for _, he := range idx.AtVertex(rec.Vertex) {
			er := c.ByEdge[he.Edge]
			if er == nil {
				continue
			}
			if er.Interior {
				rec.InteriorEdges = append(rec.InteriorEdges, he)
			} else {
				rec.PerimeterEdges = append(rec.PerimeterEdges, he)
			}
		}
	}

	// Partner grouping is transitive within tol across the selection.
	for _, group := range mesh.PartnerGroups(m, vertOrder, tol) {
		if len(group) < 2 {
			continue
		}
		for _, v := range group {
			rec := c.ByVertex[v]
			for _, other := range group {
				if other != v {
					rec.Partners = append(rec.Partners, other)
				}
			}
		}
	}

	return c
}

// hasPositionalTwin reports whether another selection edge spans the
// same two endpoint positions as e, within tol.
func hasPositionalTwin(m *mesh.Mesh, e mesh.Edge, edges []mesh.Edge, tol float64) bool {
	pa := m.Position(e.A)
	pb := m.Position(e.B)
	for _, other := range edges {
		if other == e {
			continue
		}
		qa := m.Position(other.A)
		qb := m.Position(other.B)
		if (geom.SamePosition(pa, qa, tol) && geom.SamePosition(pb, qb, tol)) ||
			(geom.SamePosition(pa, qb, tol) && geom.SamePosition(pb, qa, tol)) {
			return true
		}
	}
	return false
}
