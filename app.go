package main

import (
	"context"
	"fmt"
	"log"

	"github.com/chazu/adze/pkg/engine"
	"github.com/chazu/adze/pkg/holes"
	"github.com/chazu/adze/pkg/inset"
	"github.com/chazu/adze/pkg/mesh"
	"github.com/chazu/adze/pkg/primitive"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// App is the Wails backend. It owns the live mesh and selection between
// calls (the host role); every engine call below is a full, independent
// recomputation against that state.
type App struct {
	ctx       context.Context
	engine    *engine.Engine
	mesh      *mesh.Mesh
	selection []int
	detected  []*holes.Hole
}

// MeshData is the JSON-serializable mesh format exchanged with the
// frontend. Faces are flat triangle-run index lists, one per face.
type MeshData struct {
	Positions [][3]float64 `json:"positions"`
	Faces     [][]int      `json:"faces"`
}

// VertexOffsetData is one solved inset corner.
type VertexOffsetData struct {
	Vertex   int        `json:"vertex"`
	Position [3]float64 `json:"position"`
}

// InsetPreviewData is the result of one inset preview pass.
type InsetPreviewData struct {
	Offsets []VertexOffsetData `json:"offsets"`
	Solved  int                `json:"solved"`
	Total   int                `json:"total"`
	Error   string             `json:"error,omitempty"`
}

// HoleData is one boundary loop found in the mesh.
type HoleData struct {
	Vertices  []int `json:"vertices"`
	EdgeCount int   `json:"edgeCount"`
}

// OpResultData reports a mutating operation back to the frontend.
type OpResultData struct {
	FaceCount int    `json:"faceCount"`
	NewFace   int    `json:"newFace"`
	Error     string `json:"error,omitempty"`
}

// ScriptResultData is the outcome of a console evaluation.
type ScriptResultData struct {
	Errors    []ScriptErrorData `json:"errors"`
	FaceCount int               `json:"faceCount"`
}

// ScriptErrorData is a JSON-serializable eval error for the frontend.
type ScriptErrorData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// NewApp creates a new App with a scripting engine and no mesh.
func NewApp() *App {
	return &App{engine: engine.NewEngine()}
}

// startup is called by Wails on app startup. The context is saved so we
// can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// LoadMesh replaces the live mesh with one supplied by the frontend.
func (a *App) LoadMesh(data MeshData) error {
	m := &mesh.Mesh{}
	for _, p := range data.Positions {
		m.Positions = append(m.Positions, v3.Vec{X: p[0], Y: p[1], Z: p[2]})
	}
	for _, f := range data.Faces {
		m.Faces = append(m.Faces, mesh.Face{Indices: append([]int(nil), f...)})
	}
	if err := m.Validate(); err != nil {
		log.Printf("LoadMesh rejected: %v", err)
		return err
	}
	a.mesh = m
	a.selection = nil
	return nil
}

// NewPlane replaces the live mesh with a quad grid.
func (a *App) NewPlane(nx, ny int, size float64) (int, error) {
	if nx < 1 || ny < 1 || size <= 0 {
		return 0, fmt.Errorf("plane dimensions must be positive")
	}
	a.mesh = primitive.PlaneGrid(nx, ny, size)
	a.selection = nil
	return a.mesh.FaceCount(), nil
}

// NewBox replaces the live mesh with a welded box.
func (a *App) NewBox(x, y, z float64) (int, error) {
	m, err := primitive.Box(x, y, z, primitive.Options{})
	if err != nil {
		log.Printf("NewBox: %v", err)
		return 0, err
	}
	a.mesh = m
	a.selection = nil
	return m.FaceCount(), nil
}

// SelectFaces sets the live selection.
func (a *App) SelectFaces(faces []int) error {
	if a.mesh == nil {
		return fmt.Errorf("no mesh loaded")
	}
	for _, fi := range faces {
		if fi < 0 || fi >= a.mesh.FaceCount() {
			return fmt.Errorf("face %d of %d", fi, a.mesh.FaceCount())
		}
	}
	a.selection = append([]int(nil), faces...)
	return nil
}

// InsetPreview recomputes the inset for the current selection at the
// given distance. It is called once per parameter change; each call is
// an independent computation and the previous preview is simply
// superseded. Per-vertex failures are absent from Offsets, never fatal.
func (a *App) InsetPreview(distance float64) InsetPreviewData {
	if a.mesh == nil {
		return InsetPreviewData{Error: "no mesh loaded"}
	}
	res, err := inset.Compute(a.mesh, a.selection, distance, inset.Options{})
	if err != nil {
		log.Printf("InsetPreview: %v", err)
		return InsetPreviewData{Error: err.Error()}
	}
	out := InsetPreviewData{Solved: res.Solved, Total: res.Total}
	for _, v := range res.Order {
		if p, ok := res.Position(v); ok {
			out.Offsets = append(out.Offsets, VertexOffsetData{
				Vertex:   v,
				Position: [3]float64{p.X, p.Y, p.Z},
			})
		}
	}
	return out
}

// ApplyInset runs the inset and moves the solved vertices in place.
func (a *App) ApplyInset(distance float64) InsetPreviewData {
	preview := a.InsetPreview(distance)
	if preview.Error != "" {
		return preview
	}
	for _, off := range preview.Offsets {
		a.mesh.Positions[off.Vertex] = v3.Vec{
			X: off.Position[0], Y: off.Position[1], Z: off.Position[2],
		}
	}
	return preview
}

// DetectHoles finds boundary loops, scoped to the current selection's
// vertices when a selection exists.
func (a *App) DetectHoles() ([]HoleData, error) {
	if a.mesh == nil {
		return nil, fmt.Errorf("no mesh loaded")
	}
	var relevant map[int]bool
	if len(a.selection) > 0 {
		relevant = make(map[int]bool)
		for _, fi := range a.selection {
			for _, v := range a.mesh.Faces[fi].Vertices() {
				relevant[v] = true
			}
		}
	}
	found, err := holes.Find(a.mesh, relevant)
	if err != nil {
		log.Printf("DetectHoles: %v", err)
		return nil, err
	}
	out := make([]HoleData, 0, len(found))
	for _, h := range found {
		out = append(out, HoleData{
			Vertices:  append([]int(nil), h.Vertices...),
			EdgeCount: h.Len(),
		})
	}
	a.detected = found
	return out, nil
}

// FillHole fills the i-th hole from the last DetectHoles pass.
func (a *App) FillHole(i int) OpResultData {
	if a.mesh == nil {
		return OpResultData{Error: "no mesh loaded"}
	}
	if i < 0 || i >= len(a.detected) {
		return OpResultData{Error: fmt.Sprintf("hole %d of %d found", i, len(a.detected))}
	}
	fi, err := holes.Fill(a.mesh, a.detected[i])
	if err != nil {
		log.Printf("FillHole: %v", err)
		return OpResultData{Error: err.Error(), FaceCount: a.mesh.FaceCount(), NewFace: -1}
	}
	return OpResultData{FaceCount: a.mesh.FaceCount(), NewFace: fi}
}

// FillAllHoles fills every hole from the last DetectHoles pass,
// isolating per-hole failures so the batch continues.
func (a *App) FillAllHoles() (filled, failed int) {
	for i := range a.detected {
		res := a.FillHole(i)
		if res.Error != "" {
			failed++
			continue
		}
		filled++
	}
	a.detected = nil
	return filled, failed
}

// EvalScript runs console source in a fresh engine session and, on
// success, adopts the session's mesh and selection as the live state.
func (a *App) EvalScript(source string) ScriptResultData {
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		log.Printf("EvalScript fatal: %v", err)
		return ScriptResultData{Errors: []ScriptErrorData{{Message: err.Error()}}}
	}
	if len(evalErrs) > 0 {
		out := ScriptResultData{}
		for _, e := range evalErrs {
			out.Errors = append(out.Errors, ScriptErrorData{Line: e.Line, Message: e.Message})
		}
		return out
	}
	if s.Mesh != nil {
		a.mesh = s.Mesh
		a.selection = s.Selection
	}
	out := ScriptResultData{Errors: []ScriptErrorData{}}
	if a.mesh != nil {
		out.FaceCount = a.mesh.FaceCount()
	}
	return out
}

// MeshSnapshot returns the live mesh in frontend format. The frontend
// rebuilds its render buffers from this after every mutation; tolerance
// is not applied here, positions pass through as stored.
func (a *App) MeshSnapshot() MeshData {
	out := MeshData{}
	if a.mesh == nil {
		return out
	}
	for _, p := range a.mesh.Positions {
		out.Positions = append(out.Positions, [3]float64{p.X, p.Y, p.Z})
	}
	for _, f := range a.mesh.Faces {
		out.Faces = append(out.Faces, append([]int(nil), f.Indices...))
	}
	return out
}

