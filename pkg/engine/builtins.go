package engine

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/adze/pkg/holes"
	"github.com/chazu/adze/pkg/inset"
	"github.com/chazu/adze/pkg/primitive"
)

// registerBuiltins binds the editing operations to env, all closing
// over the evaluation's session.
//
// Script surface (kebab-case accepted, converted by the preprocessor):
//
//	(plane nx ny size)        build an nx*ny quad grid mesh
//	(box x y z)               build a welded box mesh
//	(cylinder height radius)  build a welded cylinder mesh
//	(delete-face i)           remove face i (punches a hole)
//	(select-faces i j ...)    set the face selection
//	(inset distance)          inset preview; returns solved count
//	(solved-count)            perimeter vertices solved by the last inset
//	(find-holes)              find boundary loops; returns hole count
//	(fill-hole i)             fill the i-th found hole; returns face index
func registerBuiltins(env *zygo.Zlisp, s *Session) {
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("plane expects (plane nx ny size)")
		}
		nx, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		ny, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		size, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, err
		}
		if nx < 1 || ny < 1 || size <= 0 {
			return zygo.SexpNull, fmt.Errorf("plane: dimensions must be positive")
		}
		s.Mesh = primitive.PlaneGrid(nx, ny, size)
		s.Selection = nil
		return &zygo.SexpInt{Val: int64(s.Mesh.FaceCount())}, nil
	})

	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		dims, err := floatArgs(args, 3, "(box x y z)")
		if err != nil {
			return zygo.SexpNull, err
		}
		m, err := primitive.Box(dims[0], dims[1], dims[2], primitive.Options{})
		if err != nil {
			return zygo.SexpNull, err
		}
		s.Mesh = m
		s.Selection = nil
		return &zygo.SexpInt{Val: int64(m.FaceCount())}, nil
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		dims, err := floatArgs(args, 2, "(cylinder height radius)")
		if err != nil {
			return zygo.SexpNull, err
		}
		m, err := primitive.Cylinder(dims[0], dims[1], primitive.Options{})
		if err != nil {
			return zygo.SexpNull, err
		}
		s.Mesh = m
		s.Selection = nil
		return &zygo.SexpInt{Val: int64(m.FaceCount())}, nil
	})

	env.AddFunction("delete_face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := needMesh(s); err != nil {
			return zygo.SexpNull, err
		}
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("delete-face expects one face index")
		}
		fi, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		if fi < 0 || fi >= s.Mesh.FaceCount() {
			return zygo.SexpNull, fmt.Errorf("delete-face: face %d of %d", fi, s.Mesh.FaceCount())
		}
		s.Mesh.RemoveFace(fi)
		s.Selection = nil
		return &zygo.SexpInt{Val: int64(s.Mesh.FaceCount())}, nil
	})

	env.AddFunction("select_faces", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := needMesh(s); err != nil {
			return zygo.SexpNull, err
		}
		sel := make([]int, 0, len(args))
		for _, a := range args {
			fi, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, err
			}
			if fi < 0 || fi >= s.Mesh.FaceCount() {
				return zygo.SexpNull, fmt.Errorf("select-faces: face %d of %d", fi, s.Mesh.FaceCount())
			}
			sel = append(sel, fi)
		}
		s.Selection = sel
		return &zygo.SexpInt{Val: int64(len(sel))}, nil
	})

	env.AddFunction("inset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := needMesh(s); err != nil {
			return zygo.SexpNull, err
		}
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("inset expects one distance")
		}
		d, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		res, err := inset.Compute(s.Mesh, s.Selection, d, inset.Options{})
		if err != nil {
			return zygo.SexpNull, err
		}
		s.Inset = res
		return &zygo.SexpInt{Val: int64(res.Solved)}, nil
	})

	env.AddFunction("solved_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if s.Inset == nil {
			return zygo.SexpNull, fmt.Errorf("solved-count: no inset has been computed")
		}
		return &zygo.SexpInt{Val: int64(s.Inset.Solved)}, nil
	})

	env.AddFunction("find_holes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := needMesh(s); err != nil {
			return zygo.SexpNull, err
		}
		var relevant map[int]bool
		if len(s.Selection) > 0 {
			relevant = make(map[int]bool)
			for _, fi := range s.Selection {
				for _, v := range s.Mesh.Faces[fi].Vertices() {
					relevant[v] = true
				}
			}
		}
		found, err := holes.Find(s.Mesh, relevant)
		if err != nil {
			return zygo.SexpNull, err
		}
		s.Holes = found
		return &zygo.SexpInt{Val: int64(len(found))}, nil
	})

	env.AddFunction("fill_hole", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := needMesh(s); err != nil {
			return zygo.SexpNull, err
		}
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("fill-hole expects one hole index")
		}
		hi, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		if hi < 0 || hi >= len(s.Holes) {
			return zygo.SexpNull, fmt.Errorf("fill-hole: hole %d of %d found", hi, len(s.Holes))
		}
		fi, err := holes.Fill(s.Mesh, s.Holes[hi])
		if err != nil {
			return zygo.SexpNull, err
		}
		s.Filled = append(s.Filled, fi)
		return &zygo.SexpInt{Val: int64(fi)}, nil
	})
}

func needMesh(s *Session) error {
	if s.Mesh == nil {
		return fmt.Errorf("no mesh: build one with (plane ...), (box ...) or (cylinder ...) first")
	}
	return nil
}

// toFloat64 accepts integer and float script values.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", s)
}

func toInt(s zygo.Sexp) (int, error) {
	v, ok := s.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("expected an integer, got %T", s)
	}
	return int(v.Val), nil
}

func floatArgs(args []zygo.Sexp, n int, usage string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %s", usage)
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
