// Package inset computes, for every perimeter vertex of a face
// selection, the position it would occupy after insetting the selection
// inward by a distance. Perimeter edges are offset parallel to
// themselves toward the selection's inside and the corner positions are
// re-derived by 3D line intersection.
package inset

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/adze/pkg/geom"
	"github.com/chazu/adze/pkg/mesh"
	"github.com/chazu/adze/pkg/selection"
	"github.com/chazu/adze/pkg/topo"
)

// ErrInvalidArgument is returned for a non-positive distance or an
// empty selection.
var ErrInvalidArgument = errors.New("invalid argument")

// DefaultMaxIntersectionDistance rejects corner solutions far from the
// vertex they belong to.
const DefaultMaxIntersectionDistance = 2.0

// Options tunes the solver's tolerances. Zero values take the defaults.
type Options struct {
	// PositionTolerance unifies coincident vertex slots.
	PositionTolerance float64
	// MaxIntersectionDistance bounds how far a solved corner may sit
	// from its vertex before it is rejected.
	MaxIntersectionDistance float64
	// ParallelThreshold is the cross-product magnitude under which two
	// inset lines count as parallel.
	ParallelThreshold float64
}

func (o Options) withDefaults() Options {
	if o.PositionTolerance == 0 {
		o.PositionTolerance = geom.DefaultPositionTolerance
	}
	if o.MaxIntersectionDistance == 0 {
		o.MaxIntersectionDistance = DefaultMaxIntersectionDistance
	}
	if o.ParallelThreshold == 0 {
		o.ParallelThreshold = geom.DefaultParallelThreshold
	}
	return o
}

// Result maps vertex slots to their inset positions. Interior vertices
// and vertices whose intersection failed have no entry; callers skip
// those rather than treating them as fatal.
type Result struct {
	Positions map[int]v3.Vec
	// Order is the stable vertex ordering of the classification pass,
	// perimeter and interior vertices both.
	Order []int
	// Solved and Total report per-element progress over perimeter
	// vertices, for "solved N of M" style host feedback.
	Solved, Total int
}

// Position returns the computed position for v, if any.
func (r *Result) Position(v int) (v3.Vec, bool) {
	p, ok := r.Positions[v]
	return p, ok
}

// insetLine is one perimeter edge translated inward by the inset
// distance. The shifted endpoints are kept for midpoint fallbacks.
type insetLine struct {
	line geom.Line
	a, b v3.Vec
}

func (il insetLine) midpoint() v3.Vec {
	return il.a.Add(il.b).MulScalar(0.5)
}

// Compute runs the inset pipeline over selectedFaces.
//
// Stages run in order: classification, inset-line construction for
// every perimeter edge, then per-vertex solving (partner groups are
// solved together and share one value). No state survives the call.
func Compute(m *mesh.Mesh, selectedFaces []int, distance float64, opts Options) (*Result, error) {
	if distance <= 0 {
		return nil, fmt.Errorf("%w: inset distance %v, must be positive", ErrInvalidArgument, distance)
	}
	if len(selectedFaces) == 0 {
		return nil, fmt.Errorf("%w: empty face selection", ErrInvalidArgument)
	}
	opts = opts.withDefaults()

	idx, err := topo.Build(m, selectedFaces)
	if err != nil {
		return nil, err
	}
	cls := selection.Classify(m, idx, selectedFaces, opts.PositionTolerance)

	lines := buildInsetLines(m, cls, selectedFaces, distance)

	res := &Result{Positions: make(map[int]v3.Vec)}
	for _, rec := range cls.Vertices {
		res.Order = append(res.Order, rec.Vertex)
		if !rec.Interior {
			res.Total++
		}
	}

	solver := &vertexSolver{
		m:        m,
		cls:      cls,
		lines:    lines,
		opts:     opts,
		distance: distance,
		res:      res,
		done:     make(map[int]bool),
	}
	for _, rec := range cls.Vertices {
		solver.solve(rec)
	}
	res.Solved = len(res.Positions)
	return res, nil
}

// buildInsetLines constructs the inward-shifted line for every
// perimeter edge of the classification.
func buildInsetLines(m *mesh.Mesh, cls *selection.Classification, selectedFaces []int, distance float64) map[mesh.Edge]insetLine {
	lines := make(map[mesh.Edge]insetLine, len(cls.Edges))
	for _, er := range cls.Edges {
		if er.Interior {
			continue
		}
		dir, ok := inwardDirection(m, er.Edge, selectedFaces)
		if !ok {
			continue
		}
		offset := dir.MulScalar(distance)
		pa := m.Position(er.Edge.A).Add(offset)
		pb := m.Position(er.Edge.B).Add(offset)
		lines[er.Edge] = insetLine{
			line: geom.LineThrough(pa, pb),
			a:    pa,
			b:    pb,
		}
	}
	return lines
}

// inwardDirection derives the unit direction pointing from edge e into
// the selection: the component of (third vertex - edge midpoint)
// perpendicular to the edge. Needle triangles whose projection
// degenerates fall back to an arbitrary perpendicular.
func inwardDirection(m *mesh.Mesh, e mesh.Edge, selectedFaces []int) (v3.Vec, bool) {
	pa := m.Position(e.A)
	pb := m.Position(e.B)
	edgeDir := pb.Sub(pa)
	el2 := edgeDir.Length2()
	if el2 == 0 {
		return v3.Vec{}, false
	}

	third, ok := thirdVertexInSelection(m, e, selectedFaces)
	if !ok {
		return v3.Vec{}, false
	}

	mid := pa.Add(pb).MulScalar(0.5)
	toThird := m.Position(third).Sub(mid)
	perp := toThird.Sub(edgeDir.MulScalar(toThird.Dot(edgeDir) / el2))
	if perp.Length2() < geom.DefaultPositionTolerance*geom.DefaultPositionTolerance {
		return geom.PerpendicularTo(edgeDir), true
	}
	return perp.Normalize(), true
}

// thirdVertexInSelection finds one selected triangle containing e and
// returns its remaining vertex.
func thirdVertexInSelection(m *mesh.Mesh, e mesh.Edge, selectedFaces []int) (int, bool) {
	for _, fi := range selectedFaces {
		if v, ok := FindThirdVertex(m.Faces[fi], e); ok {
			return v, true
		}
	}
	return -1, false
}

// FindThirdVertex returns the third vertex of the first triangle run of
// f that contains both endpoints of e.
func FindThirdVertex(f mesh.Face, e mesh.Edge) (int, bool) {
	for i := 0; i < f.TriangleCount(); i++ {
		tri := f.Triangle(i)
		for j := 0; j < 3; j++ {
			if mesh.NewEdge(tri[j], tri[(j+1)%3]) == e {
				return tri[(j+2)%3], true
			}
		}
	}
	return -1, false
}
