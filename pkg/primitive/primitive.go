// Package primitive constructs editable starting meshes. Curved and
// solid shapes are built as SDF solids with the deadsy/sdfx library,
// tessellated by marching cubes, and welded into an indexed mesh;
// planar grids are built directly as quad faces.
package primitive

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/adze/pkg/geom"
	"github.com/chazu/adze/pkg/mesh"
)

// defaultMeshCells controls marching cubes resolution. Editable meshes
// favor coarse tessellation over render fidelity.
const defaultMeshCells = 32

// Options tunes tessellation and welding.
type Options struct {
	// Cells is the marching cubes grid resolution. 0 takes the default.
	Cells int
	// WeldTolerance merges vertex slots closer than this. 0 takes the
	// default position tolerance; a negative value disables welding so
	// every triangle corner keeps its own slot (hard-edge style
	// duplicates, coincident by position only).
	WeldTolerance float64
}

func (o Options) withDefaults() Options {
	if o.Cells == 0 {
		o.Cells = defaultMeshCells
	}
	if o.WeldTolerance == 0 {
		o.WeldTolerance = geom.DefaultPositionTolerance
	}
	return o
}

// Box returns a box mesh with dimensions (x, y, z), minimum corner at
// the origin so placement translations work intuitively.
func Box(x, y, z float64, opts Options) (*mesh.Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("primitive: box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return FromSDF(sdf.Transform3D(s, m), opts)
}

// Cylinder returns a cylinder mesh with the given height and radius,
// centered at the origin.
func Cylinder(height, radius float64, opts Options) (*mesh.Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("primitive: cylinder: %w", err)
	}
	return FromSDF(s, opts)
}

// FromSDF tessellates any SDF solid into an indexed triangle mesh.
// Marching cubes emits disconnected triangles; welding coincident
// corners within the tolerance restores shared topology so the
// half-edge index sees a connected surface.
func FromSDF(s sdf.SDF3, opts Options) (*mesh.Mesh, error) {
	opts = opts.withDefaults()
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(opts.Cells))
	if len(triangles) == 0 {
		return nil, fmt.Errorf("primitive: tessellation produced no triangles")
	}

	m := &mesh.Mesh{}
	w := newWelder(m, opts.WeldTolerance)
	for _, tri := range triangles {
		a := w.slot(tri[0])
		b := w.slot(tri[1])
		c := w.slot(tri[2])
		if a == b || b == c || a == c {
			// Degenerate after welding.
			continue
		}
		m.Faces = append(m.Faces, mesh.Face{Indices: []int{a, b, c}})
	}
	return m, nil
}

// PlaneGrid returns an nx by ny grid of quad faces in the XY plane with
// the given cell size, corner at the origin. Quad faces carry two
// triangle runs each, matching the polygon model the editor works on.
func PlaneGrid(nx, ny int, size float64) *mesh.Mesh {
	m := &mesh.Mesh{}
	for y := 0; y <= ny; y++ {
		for x := 0; x <= nx; x++ {
			m.Positions = append(m.Positions, v3.Vec{X: float64(x) * size, Y: float64(y) * size})
		}
	}
	at := func(x, y int) int { return y*(nx+1) + x }
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			bl := at(x, y)
			br := at(x+1, y)
			tr := at(x+1, y+1)
			tl := at(x, y+1)
			m.Faces = append(m.Faces, mesh.Face{Indices: []int{bl, br, tr, bl, tr, tl}})
		}
	}
	return m
}

// welder assigns stable vertex slots to positions, merging positions
// within the tolerance of an existing slot. Positions are quantized
// into tolerance-sized cells; a candidate within tolerance is at most
// one cell away on each axis, so the lookup probes the 27-cell
// neighborhood. A non-positive tolerance disables merging; every
// position gets a fresh slot.
type welder struct {
	m     *mesh.Mesh
	tol   float64
	slots map[[3]int64]int
}

func newWelder(m *mesh.Mesh, tol float64) *welder {
	return &welder{m: m, tol: tol, slots: make(map[[3]int64]int)}
}

func (w *welder) slot(p v3.Vec) int {
	if w.tol <= 0 {
		w.m.Positions = append(w.m.Positions, p)
		return len(w.m.Positions) - 1
	}
	cx := int64(math.Floor(p.X / w.tol))
	cy := int64(math.Floor(p.Y / w.tol))
	cz := int64(math.Floor(p.Z / w.tol))
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				i, ok := w.slots[[3]int64{cx + dx, cy + dy, cz + dz}]
				if ok && geom.SamePosition(w.m.Positions[i], p, w.tol) {
					return i
				}
			}
		}
	}
	i := len(w.m.Positions)
	w.m.Positions = append(w.m.Positions, p)
	w.slots[[3]int64{cx, cy, cz}] = i
	return i
}
