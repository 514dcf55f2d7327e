package primitive

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/adze/pkg/geom"
	"github.com/chazu/adze/pkg/mesh"
	"github.com/chazu/adze/pkg/topo"
)

func TestPlaneGrid(t *testing.T) {
	tests := []struct {
		name      string
		nx, ny    int
		wantVerts int
		wantFaces int
	}{
		{"single quad", 1, 1, 4, 1},
		{"two by two", 2, 2, 9, 4},
		{"strip", 3, 1, 8, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := PlaneGrid(tt.nx, tt.ny, 1.0)
			if got := m.VertexCount(); got != tt.wantVerts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVerts)
			}
			if got := m.FaceCount(); got != tt.wantFaces {
				t.Errorf("FaceCount() = %d, want %d", got, tt.wantFaces)
			}
			if err := m.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestPlaneGridCellSize(t *testing.T) {
	m := PlaneGrid(2, 1, 0.5)
	want := v3.Vec{X: 1.0, Y: 0.5}
	if !geom.SamePosition(m.Positions[len(m.Positions)-1], want, geom.DefaultPositionTolerance) {
		t.Errorf("far corner = %v, want %v", m.Positions[len(m.Positions)-1], want)
	}
}

func TestPlaneGridSharesSlots(t *testing.T) {
	// Adjacent quads must share seam slots, not duplicate them.
	m := PlaneGrid(2, 1, 1.0)
	idx, err := topo.Build(m, topo.AllFaces(m))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if idx.IsBoundary(mesh.NewEdge(1, 4)) {
		t.Error("seam edge between adjacent quads reads as boundary")
	}
}

func TestBoxWelded(t *testing.T) {
	m, err := Box(10, 10, 10, Options{Cells: 16})
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	if m.IsEmpty() || m.FaceCount() == 0 {
		t.Fatal("Box produced an empty mesh")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	// Welding must leave strictly fewer slots than the 3-per-triangle
	// soup marching cubes emits.
	if m.VertexCount() >= m.FaceCount()*3 {
		t.Errorf("vertices = %d for %d triangles; welding did not merge shared corners", m.VertexCount(), m.FaceCount())
	}
}

func TestWelderMergesAcrossCellBoundaries(t *testing.T) {
	// Positions within tolerance must weld even when they quantize into
	// different cells, including across the sign boundary at zero.
	tol := 1e-4
	m := &mesh.Mesh{}
	w := newWelder(m, tol)

	tests := []struct {
		name string
		a, b v3.Vec
		same bool
	}{
		{"straddling zero", v3.Vec{X: -1e-5}, v3.Vec{X: 1e-5}, true},
		{"straddling a cell edge", v3.Vec{X: 5 - 1e-5}, v3.Vec{X: 5 + 1e-5}, true},
		{"beyond tolerance", v3.Vec{Y: 3}, v3.Vec{Y: 3 + 3*tol}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.slot(tt.a) == w.slot(tt.b); got != tt.same {
				t.Errorf("slot(%v) == slot(%v) is %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}
}

func TestBoxUnwelded(t *testing.T) {
	// A negative tolerance keeps every triangle corner as its own slot.
	m, err := Box(10, 10, 10, Options{Cells: 16, WeldTolerance: -1})
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	if got, want := m.VertexCount(), m.FaceCount()*3; got != want {
		t.Errorf("vertices = %d for %d triangles, want %d", got, m.FaceCount(), want)
	}
}

func TestCylinder(t *testing.T) {
	m, err := Cylinder(10, 3, Options{Cells: 16})
	if err != nil {
		t.Fatalf("Cylinder: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("Cylinder produced an empty mesh")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
