// Package geom provides the 2D primitives shared by the navmesh builder,
// the ballistic solver and steering.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// UnitX is the horizontal axis used by the walkability filter.
var UnitX = r2.Vec{X: 1}

// SegmentIntersection returns the point where segment a0-a1 crosses segment
// b0-b1. Touching endpoints count as an intersection; parallel and collinear
// segments never intersect.
func SegmentIntersection(a0, a1, b0, b1 r2.Vec) (r2.Vec, bool) {
	r := r2.Sub(a1, a0)
	s := r2.Sub(b1, b0)

	denom := r2.Cross(r, s)
	if denom == 0 {
		return r2.Vec{}, false
	}

	ab := r2.Sub(b0, a0)
	t := r2.Cross(ab, s) / denom
	u := r2.Cross(ab, r) / denom

	if t < 0 || t > 1 || u < 0 || u > 1 {
		return r2.Vec{}, false
	}
	return r2.Add(a0, r2.Scale(t, r)), true
}

// Intersects reports whether the two segments cross.
func Intersects(a0, a1, b0, b1 r2.Vec) bool {
	_, ok := SegmentIntersection(a0, a1, b0, b1)
	return ok
}

// NormalizeOrZero returns the unit vector along v, or the zero vector when v
// has no usable direction.
func NormalizeOrZero(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// Perp rotates v by 90 degrees counter-clockwise.
func Perp(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}

// DistSq returns the squared distance between two points.
func DistSq(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// IsZero reports whether v is exactly the zero vector.
func IsZero(v r2.Vec) bool {
	return v.X == 0 && v.Y == 0
}

// ClosestOnSegment returns the point on segment a-b closest to p.
func ClosestOnSegment(p, a, b r2.Vec) r2.Vec {
	ab := r2.Sub(b, a)
	lenSq := r2.Norm2(ab)
	if lenSq == 0 {
		return a
	}
	t := r2.Dot(r2.Sub(p, a), ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return r2.Add(a, r2.Scale(t, ab))
}

// Sign returns -1, 0 or +1 following the sign of v.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
