// Package geom provides the 3D primitives the mesh engine is built on:
// tolerance comparison, lines, and closest-point line intersection.
// All positions and directions are sdfx v3 vectors.
package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultPositionTolerance is the distance under which two positions are
// considered the same point. Duplicate vertex slots (seams, hard edges)
// are unified at this tolerance.
const DefaultPositionTolerance = 1e-4

// DefaultParallelThreshold is the cross-product magnitude under which two
// unit directions are treated as parallel.
const DefaultParallelThreshold = 1e-3

// ApproxEqual reports whether a and b differ by no more than tol.
func ApproxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// SamePosition reports whether two points coincide within tol.
func SamePosition(a, b v3.Vec, tol float64) bool {
	return a.Sub(b).Length2() <= tol*tol
}

// Line is an infinite 3D line through Point along Dir.
// Dir need not be unit length but must be non-zero.
type Line struct {
	Point v3.Vec
	Dir   v3.Vec
}

// LineThrough returns the line through a and b.
func LineThrough(a, b v3.Vec) Line {
	return Line{Point: a, Dir: b.Sub(a)}
}

// Translated returns the line shifted by offset.
func (l Line) Translated(offset v3.Vec) Line {
	return Line{Point: l.Point.Add(offset), Dir: l.Dir}
}

// At returns the point at parameter t along the line.
func (l Line) At(t float64) v3.Vec {
	return l.Point.Add(l.Dir.MulScalar(t))
}

// PerpendicularTo returns a unit vector perpendicular to d, chosen by
// crossing d with whichever coordinate axis it is least aligned with.
// d must be non-zero.
func PerpendicularTo(d v3.Vec) v3.Vec {
	a := d.Abs()
	axis := v3.Vec{X: 1}
	if a.Y <= a.X && a.Y <= a.Z {
		axis = v3.Vec{Y: 1}
	} else if a.Z <= a.X && a.Z <= a.Y {
		axis = v3.Vec{Z: 1}
	}
	return d.Cross(axis).Normalize()
}

// IntersectLines computes the intersection of two 3D lines using the
// closest-point-pair solution.
//
// Parallel directions (cross product magnitude below parallelThreshold)
// intersect only when the lines are colinear, judged by the perpendicular
// distance between them against a tenth of maxGap; every point of the
// merged line is then shared, so the result is the projection of ref
// onto it. Skew lines yield the midpoint of the two closest points when
// the gap between them is at most maxGap. ok is false when no
// acceptable intersection exists.
func IntersectLines(a, b Line, ref v3.Vec, maxGap, parallelThreshold float64) (p v3.Vec, ok bool) {
	u := a.Dir
	v := b.Dir
	ul := u.Length()
	vl := v.Length()
	if ul == 0 || vl == 0 {
		return v3.Vec{}, false
	}

	if u.DivScalar(ul).Cross(v.DivScalar(vl)).Length() < parallelThreshold {
		// Colinear only if b's anchor sits on line a.
		w := b.Point.Sub(a.Point)
		perp := w.Sub(u.MulScalar(w.Dot(u) / (ul * ul)))
		if perp.Length() <= maxGap*0.1 {
			r := ref.Sub(a.Point)
			return a.Point.Add(u.MulScalar(r.Dot(u) / (ul * ul))), true
		}
		return v3.Vec{}, false
	}

	// Closest points on two skew lines.
	w := a.Point.Sub(b.Point)
	uu := u.Dot(u)
	uv := u.Dot(v)
	vv := v.Dot(v)
	uw := u.Dot(w)
	vw := v.Dot(w)
	denom := uu*vv - uv*uv
	s := (uv*vw - vv*uw) / denom
	t := (uu*vw - uv*uw) / denom

	pa := a.At(s)
	pb := b.At(t)
	if pa.Sub(pb).Length() > maxGap {
		return v3.Vec{}, false
	}
	return pa.Add(pb).MulScalar(0.5), true
}
