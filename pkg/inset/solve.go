package inset

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/adze/pkg/geom"
	"github.com/chazu/adze/pkg/mesh"
	"github.com/chazu/adze/pkg/selection"
	"github.com/chazu/adze/pkg/topo"
)

// vertexSolver carries the per-call state of the solving stage. It is
// built fresh inside Compute and discarded with it.
type vertexSolver struct {
	m        *mesh.Mesh
	cls      *selection.Classification
	lines    map[mesh.Edge]insetLine
	opts     Options
	distance float64
	res      *Result
	done     map[int]bool
}

// solve resolves one vertex record. Interior vertices get no entry.
// Vertices in a partner group are resolved together on first touch.
func (s *vertexSolver) solve(rec *selection.VertexRecord) {
	if s.done[rec.Vertex] || rec.Interior {
		return
	}
	if len(rec.Partners) > 0 {
		s.solveGroup(rec)
		return
	}
	s.done[rec.Vertex] = true
	if p, ok := s.solveSimple(rec); ok {
		s.res.Positions[rec.Vertex] = p
	}
}

// solveSimple handles a vertex with no coincident partners: intersect
// the inset lines of its perimeter edges. Fewer than two usable lines
// leaves the vertex unresolved.
func (s *vertexSolver) solveSimple(rec *selection.VertexRecord) (v3.Vec, bool) {
	lines := s.perimeterLines(rec)
	if len(lines) < 2 {
		return v3.Vec{}, false
	}
	return s.solveJunction(rec.Vertex, lines)
}

// solveJunction intersects the inset lines meeting at one vertex.
// Two lines is the plain corner case: a failed intersection leaves the
// vertex unresolved. For more, every pair is intersected and the
// accepted solutions averaged; when no pair intersects within bounds,
// the first line's midpoint stands in as an approximate corner.
func (s *vertexSolver) solveJunction(vertex int, lines []insetLine) (v3.Vec, bool) {
	gap := s.opts.MaxIntersectionDistance * s.distance
	origin := s.m.Position(vertex)

	var sum v3.Vec
	hits := 0
	pairs := 0
	for i := 0; i < len(lines) && pairs < topo.MaxWalk; i++ {
		for j := i + 1; j < len(lines) && pairs < topo.MaxWalk; j++ {
			pairs++
			p, ok := geom.IntersectLines(lines[i].line, lines[j].line, origin, gap, s.opts.ParallelThreshold)
			if !ok {
				continue
			}
			if p.Sub(origin).Length() > s.opts.MaxIntersectionDistance {
				continue
			}
			sum = sum.Add(p)
			hits++
		}
	}
	if hits > 0 {
		return sum.DivScalar(float64(hits)), true
	}
	if len(lines) > 2 {
		return lines[0].midpoint(), true
	}
	return v3.Vec{}, false
}

// solveGroup handles a coincident-position group: find a member with
// exactly one perimeter edge and at least one interior edge, then
// intersect that member's single inset line against each of its
// original, unshifted interior edges. The first intersection within
// bounds becomes the shared value for the whole group's perimeter
// members; failing that, the first available inset line's midpoint.
func (s *vertexSolver) solveGroup(rec *selection.VertexRecord) {
	group := append([]int{rec.Vertex}, rec.Partners...)
	for _, v := range group {
		s.done[v] = true
	}

	p, ok := s.groupJunction(group)
	if !ok {
		p, ok = s.groupFallback(group)
	}
	if !ok {
		return
	}
	for _, v := range group {
		member := s.cls.ByVertex[v]
		if member != nil && !member.Interior {
			s.res.Positions[v] = p
		}
	}
}

// groupJunction searches the group for the corner member described in
// the contract and intersects its inset line with its interior edges.
func (s *vertexSolver) groupJunction(group []int) (v3.Vec, bool) {
	gap := s.opts.MaxIntersectionDistance * s.distance
	for _, v := range group {
		member := s.cls.ByVertex[v]
		if member == nil {
			continue
		}
		lines := s.perimeterLines(member)
		if len(lines) != 1 || len(member.InteriorEdges) == 0 {
			continue
		}
		origin := s.m.Position(v)
		for _, he := range member.InteriorEdges {
			interior := geom.LineThrough(s.m.Position(he.Edge.A), s.m.Position(he.Edge.B))
			p, ok := geom.IntersectLines(lines[0].line, interior, origin, gap, s.opts.ParallelThreshold)
			if !ok {
				continue
			}
			if p.Sub(origin).Length() > s.opts.MaxIntersectionDistance {
				continue
			}
			return p, true
		}
	}
	return v3.Vec{}, false
}

// groupFallback returns the midpoint of the first inset line available
// to any group member.
func (s *vertexSolver) groupFallback(group []int) (v3.Vec, bool) {
	for _, v := range group {
		member := s.cls.ByVertex[v]
		if member == nil {
			continue
		}
		if lines := s.perimeterLines(member); len(lines) > 0 {
			return lines[0].midpoint(), true
		}
	}
	return v3.Vec{}, false
}

// perimeterLines collects the distinct inset lines of the vertex's
// perimeter edges, in incidence order.
func (s *vertexSolver) perimeterLines(rec *selection.VertexRecord) []insetLine {
	seen := make(map[mesh.Edge]bool, len(rec.PerimeterEdges))
	var out []insetLine
	for _, he := range rec.PerimeterEdges {
		if seen[he.Edge] {
			continue
		}
		seen[he.Edge] = true
		if il, ok := s.lines[he.Edge]; ok {
			out = append(out, il)
		}
	}
	return out
}
