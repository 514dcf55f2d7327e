// Package mesh defines the indexed polygon mesh the editing engine
// operates on: vertex positions plus faces of triangulated index runs.
// The mesh is a plain value owned by the caller; the engine packages
// never retain one between calls.
package mesh

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrInvalidTopology is returned when a face references a vertex slot
// outside the mesh's vertex list.
var ErrInvalidTopology = errors.New("invalid topology")

// Face is an ordered list of vertex-slot indices grouped in runs of
// three, each run one triangle. A quad face therefore carries six
// indices. Material and UVGroup are the attribute slots the hole filler
// copies from a neighboring face.
type Face struct {
	Indices  []int
	Material int
	UVGroup  int
}

// TriangleCount returns the number of triangle runs in the face.
func (f Face) TriangleCount() int {
	return len(f.Indices) / 3
}

// Triangle returns the i-th triangle run.
func (f Face) Triangle(i int) [3]int {
	return [3]int{f.Indices[i*3], f.Indices[i*3+1], f.Indices[i*3+2]}
}

// Vertices returns the distinct vertex slots of the face, in first-touch order.
func (f Face) Vertices() []int {
	seen := make(map[int]bool, len(f.Indices))
	var out []int
	for _, v := range f.Indices {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Edges returns the normalized edges of every triangle run, in order,
// duplicates included. Internal diagonals of a triangulated polygon
// appear once per triangle that uses them.
func (f Face) Edges() []Edge {
	var out []Edge
	for i := 0; i < f.TriangleCount(); i++ {
		tri := f.Triangle(i)
		for j := 0; j < 3; j++ {
			out = append(out, NewEdge(tri[j], tri[(j+1)%3]))
		}
	}
	return out
}

// FlipWinding reverses the orientation of every triangle run in place.
func (f *Face) FlipWinding() {
	for i := 0; i < f.TriangleCount(); i++ {
		f.Indices[i*3+1], f.Indices[i*3+2] = f.Indices[i*3+2], f.Indices[i*3+1]
	}
}

// Mesh is an indexed polygon mesh.
type Mesh struct {
	Positions []v3.Vec
	Faces     []Face
}

// VertexCount returns the number of vertex slots.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// Validate checks that every face index is a valid vertex slot and that
// every face is a whole number of triangle runs.
func (m *Mesh) Validate() error {
	for fi, f := range m.Faces {
		if len(f.Indices)%3 != 0 {
			return fmt.Errorf("%w: face %d has %d indices, not a multiple of 3", ErrInvalidTopology, fi, len(f.Indices))
		}
		for _, v := range f.Indices {
			if v < 0 || v >= len(m.Positions) {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidTopology, fi, v, len(m.Positions))
			}
		}
	}
	return nil
}

// Position returns the position of vertex slot v.
func (m *Mesh) Position(v int) v3.Vec {
	return m.Positions[v]
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Positions: append([]v3.Vec(nil), m.Positions...),
		Faces:     make([]Face, len(m.Faces)),
	}
	for i, f := range m.Faces {
		out.Faces[i] = Face{
			Indices:  append([]int(nil), f.Indices...),
			Material: f.Material,
			UVGroup:  f.UVGroup,
		}
	}
	return out
}

// RemoveFace deletes face fi, preserving the order of the remaining faces.
// Vertex slots are left in place; orphaned slots are harmless.
func (m *Mesh) RemoveFace(fi int) {
	m.Faces = append(m.Faces[:fi], m.Faces[fi+1:]...)
}

// TransformPoints applies a local-to-world transform to every vertex
// position, returning a new mesh. The engine itself is space-agnostic;
// this is applied only at the host boundary.
func (m *Mesh) TransformPoints(t sdf.M44) *Mesh {
	out := m.Clone()
	for i, p := range out.Positions {
		out.Positions[i] = t.MulPosition(p)
	}
	return out
}
