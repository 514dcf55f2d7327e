package inset

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/adze/pkg/geom"
	"github.com/chazu/adze/pkg/mesh"
	"github.com/chazu/adze/pkg/selection"
	"github.com/chazu/adze/pkg/topo"
)

// unitSquare is one quad face spanning [0,1]^2 in the XY plane.
func unitSquare() *mesh.Mesh {
	return &mesh.Mesh{
		Positions: []v3.Vec{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		},
		Faces: []mesh.Face{
			{Indices: []int{0, 1, 2, 0, 2, 3}},
		},
	}
}

func wantPosition(t *testing.T, res *Result, v int, want v3.Vec) {
	t.Helper()
	got, ok := res.Position(v)
	if !ok {
		t.Fatalf("vertex %d unresolved, want %v", v, want)
	}
	if !geom.SamePosition(got, want, geom.DefaultPositionTolerance) {
		t.Errorf("vertex %d = %v, want %v", v, got, want)
	}
}

func TestComputeInvalidArguments(t *testing.T) {
	m := unitSquare()
	tests := []struct {
		name     string
		faces    []int
		distance float64
	}{
		{"zero distance", []int{0}, 0},
		{"negative distance", []int{0}, -0.5},
		{"empty selection", nil, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compute(m, tt.faces, tt.distance, Options{}); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Compute = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestComputeInvalidTopology(t *testing.T) {
	m := unitSquare()
	m.Faces[0].Indices[0] = 42
	if _, err := Compute(m, []int{0}, 0.25, Options{}); !errors.Is(err, mesh.ErrInvalidTopology) {
		t.Errorf("Compute = %v, want ErrInvalidTopology", err)
	}
}

func TestComputeUnitSquare(t *testing.T) {
	res, err := Compute(unitSquare(), []int{0}, 0.25, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// Inset by 0.25 yields a side-0.5 square centered at (0.5, 0.5).
	wantPosition(t, res, 0, v3.Vec{X: 0.25, Y: 0.25})
	wantPosition(t, res, 1, v3.Vec{X: 0.75, Y: 0.25})
	wantPosition(t, res, 2, v3.Vec{X: 0.75, Y: 0.75})
	wantPosition(t, res, 3, v3.Vec{X: 0.25, Y: 0.75})

	if res.Solved != 4 || res.Total != 4 {
		t.Errorf("Solved/Total = %d/%d, want 4/4", res.Solved, res.Total)
	}
}

func TestComputeComposesWithParallelEdges(t *testing.T) {
	// Insetting the inset of a square keeps every edge parallel to the
	// original: corners land on the diagonal at twice the offset.
	first, err := Compute(unitSquare(), []int{0}, 0.2, Options{})
	if err != nil {
		t.Fatalf("first Compute: %v", err)
	}
	inner := &mesh.Mesh{Faces: []mesh.Face{{Indices: []int{0, 1, 2, 0, 2, 3}}}}
	for _, v := range []int{0, 1, 2, 3} {
		p, ok := first.Position(v)
		if !ok {
			t.Fatalf("vertex %d unresolved in first pass", v)
		}
		inner.Positions = append(inner.Positions, p)
	}

	second, err := Compute(inner, []int{0}, 0.2, Options{})
	if err != nil {
		t.Fatalf("second Compute: %v", err)
	}
	wantPosition(t, second, 0, v3.Vec{X: 0.4, Y: 0.4})
	wantPosition(t, second, 1, v3.Vec{X: 0.6, Y: 0.4})
	wantPosition(t, second, 2, v3.Vec{X: 0.6, Y: 0.6})
	wantPosition(t, second, 3, v3.Vec{X: 0.4, Y: 0.6})
}

func TestComputeInteriorVertexUnresolved(t *testing.T) {
	// 2x2 grid of quads; the center vertex is interior and must stay
	// absent from the result.
	m := &mesh.Mesh{}
	for y := 0; y <= 2; y++ {
		for x := 0; x <= 2; x++ {
			m.Positions = append(m.Positions, v3.Vec{X: float64(x), Y: float64(y)})
		}
	}
	at := func(x, y int) int { return y*3 + x }
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			m.Faces = append(m.Faces, mesh.Face{
				Indices: []int{at(x, y), at(x+1, y), at(x+1, y+1), at(x, y), at(x+1, y+1), at(x, y+1)},
			})
		}
	}

	res, err := Compute(m, []int{0, 1, 2, 3}, 0.1, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if _, ok := res.Position(at(1, 1)); ok {
		t.Error("interior center vertex received an inset position")
	}
	if res.Total != 8 {
		t.Errorf("Total = %d, want 8 perimeter vertices", res.Total)
	}
	// The four grid corners solve as plain two-edge intersections.
	wantPosition(t, res, at(0, 0), v3.Vec{X: 0.1, Y: 0.1})
	wantPosition(t, res, at(2, 2), v3.Vec{X: 1.9, Y: 1.9})
}

func TestComputeTwoAdjacentQuads(t *testing.T) {
	// Two unit quads sharing the edge x=1; the far corners resolve via
	// plain corner intersections.
	m := &mesh.Mesh{
		Positions: []v3.Vec{
			{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1},
			{X: 2, Y: 0}, {X: 2, Y: 1},
		},
		Faces: []mesh.Face{
			{Indices: []int{0, 2, 3, 0, 3, 1}},
			{Indices: []int{2, 4, 5, 2, 5, 3}},
		},
	}
	res, err := Compute(m, []int{0, 1}, 0.1, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	wantPosition(t, res, 0, v3.Vec{X: 0.1, Y: 0.1})
	wantPosition(t, res, 1, v3.Vec{X: 0.1, Y: 0.9})
	wantPosition(t, res, 4, v3.Vec{X: 1.9, Y: 0.1})
	wantPosition(t, res, 5, v3.Vec{X: 1.9, Y: 0.9})

	// The shared-edge vertices sit between two colinear perimeter edges;
	// they project straight onto the offset line, keeping their x.
	wantPosition(t, res, 2, v3.Vec{X: 1, Y: 0.1})
	wantPosition(t, res, 3, v3.Vec{X: 1, Y: 0.9})
}

func TestComputeColinearEdgesKeepTangentialPosition(t *testing.T) {
	// Quads of widths 1 and 3 sharing the edge x=1. The asymmetric
	// shifted-edge anchors must not drag the shared vertices along the
	// boundary; each projects onto the offset line at its own x.
	m := &mesh.Mesh{
		Positions: []v3.Vec{
			{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1},
			{X: 4, Y: 0}, {X: 4, Y: 1},
		},
		Faces: []mesh.Face{
			{Indices: []int{0, 2, 3, 0, 3, 1}},
			{Indices: []int{2, 4, 5, 2, 5, 3}},
		},
	}
	res, err := Compute(m, []int{0, 1}, 0.1, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	wantPosition(t, res, 2, v3.Vec{X: 1, Y: 0.1})
	wantPosition(t, res, 3, v3.Vec{X: 1, Y: 0.9})
}

func TestComputeFoldedCornerUnresolved(t *testing.T) {
	// Three triangles folding from the XY into the XZ plane across
	// vertex 0: its two perimeter edges run along x but their inward
	// directions point +y and +z, so the shifted lines are parallel
	// without being colinear. The corner must stay absent, not be
	// approximated from either line.
	m := &mesh.Mesh{
		Positions: []v3.Vec{
			{}, {X: -1}, {X: 1}, {Y: 1}, {Z: 1},
		},
		Faces: []mesh.Face{
			{Indices: []int{1, 0, 3}},
			{Indices: []int{0, 2, 4}},
			{Indices: []int{0, 4, 3}},
		},
	}
	res, err := Compute(m, []int{0, 1, 2}, 0.1, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if p, ok := res.Position(0); ok {
		t.Errorf("folded corner resolved to %v, want no entry", p)
	}
	if res.Solved >= res.Total {
		t.Errorf("Solved/Total = %d/%d, want the folded corner unsolved", res.Solved, res.Total)
	}
}

func TestComputePartnerGroupSharedJunction(t *testing.T) {
	// Two quads meeting at x=1 with duplicated seam slots: the seam
	// reads as interior through positional twins, and each seam corner
	// group resolves through its one-perimeter-edge member against the
	// unshifted seam edge.
	m := &mesh.Mesh{
		Positions: []v3.Vec{
			{X: 0}, {X: 1}, {X: 1, Y: 1}, {X: 0, Y: 1},
			{X: 1}, {X: 2}, {X: 2, Y: 1}, {X: 1, Y: 1},
		},
		Faces: []mesh.Face{
			{Indices: []int{0, 1, 2, 0, 2, 3}},
			{Indices: []int{4, 5, 6, 4, 6, 7}},
		},
	}
	res, err := Compute(m, []int{0, 1}, 0.1, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// Bottom seam group {1, 4} shares one junction at (1, 0.1).
	want := v3.Vec{X: 1, Y: 0.1}
	wantPosition(t, res, 1, want)
	wantPosition(t, res, 4, want)
	p1, _ := res.Position(1)
	p4, _ := res.Position(4)
	if !geom.SamePosition(p1, p4, geom.DefaultPositionTolerance) {
		t.Error("partner group diverged across its members")
	}

	// Top seam group {2, 7} likewise.
	wantPosition(t, res, 2, v3.Vec{X: 1, Y: 0.9})
	wantPosition(t, res, 7, v3.Vec{X: 1, Y: 0.9})
}

func TestSolveSimpleNeedsTwoLines(t *testing.T) {
	// A vertex with fewer than two usable inset lines stays unresolved;
	// the solver never fabricates a position for it.
	e := mesh.NewEdge(0, 1)
	s := &vertexSolver{
		m:    unitSquare(),
		opts: Options{}.withDefaults(),
		lines: map[mesh.Edge]insetLine{
			e: {line: geom.Line{Point: v3.Vec{Y: 0.1}, Dir: v3.Vec{X: 1}}},
		},
	}
	rec := &selection.VertexRecord{
		Vertex:         0,
		PerimeterEdges: []*topo.HalfEdge{{Edge: e, From: 0, To: 1}},
	}
	if _, ok := s.solveSimple(rec); ok {
		t.Error("solveSimple resolved a vertex with a single inset line")
	}
	rec.PerimeterEdges = nil
	if _, ok := s.solveSimple(rec); ok {
		t.Error("solveSimple resolved a vertex with no inset lines")
	}
}

func TestFindThirdVertex(t *testing.T) {
	f := mesh.Face{Indices: []int{0, 1, 2, 0, 2, 3}}
	tests := []struct {
		name   string
		edge   mesh.Edge
		want   int
		wantOK bool
	}{
		{"first run edge", mesh.NewEdge(0, 1), 2, true},
		{"second run edge", mesh.NewEdge(2, 3), 0, true},
		{"diagonal", mesh.NewEdge(0, 2), 1, true},
		{"absent edge", mesh.NewEdge(1, 3), -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindThirdVertex(f, tt.edge)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FindThirdVertex(%v) = (%d, %v), want (%d, %v)", tt.edge, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResultOrderIsStable(t *testing.T) {
	m := unitSquare()
	a, err := Compute(m, []int{0}, 0.25, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	b, err := Compute(m, []int{0}, 0.25, Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(a.Order) != len(b.Order) {
		t.Fatal("order length differs between identical runs")
	}
	for i := range a.Order {
		if a.Order[i] != b.Order[i] {
			t.Fatalf("order differs at %d: %d vs %d", i, a.Order[i], b.Order[i])
		}
	}
}
