// Package geom is the planar geometry kernel behind manifold projection:
// Delaunay triangulation, barycentric coordinates and nearest-point queries
// against the triangulated hull of a small point set.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the tolerance used for barycentric containment and
// degeneracy tests.
const Epsilon = 1e-9

// Dist returns the Euclidean distance between p and q.
func Dist(p, q r2.Vec) float64 {
	return r2.Norm(r2.Sub(p, q))
}

// Lerp returns p + (q-p)*t.
func Lerp(p, q r2.Vec, t float64) r2.Vec {
	return r2.Vec{X: p.X*(1-t) + q.X*t, Y: p.Y*(1-t) + q.Y*t}
}

// orient returns twice the signed area of triangle (a, b, c).
// Positive when the points turn counter-clockwise in a Y-up frame.
func orient(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// ClosestOnSegment returns the point of segment ab nearest p and its
// parameter t in [0, 1]. A zero-length segment yields a with t = 0.
func ClosestOnSegment(p, a, b r2.Vec) (r2.Vec, float64) {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return a, 0
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	switch {
	case t <= 0:
		return a, 0
	case t >= 1:
		return b, 1
	}
	return Lerp(a, b, t), t
}

// Barycentric returns the weights (u, v, w) of p relative to triangle
// (a, b, c), so that p = u*a + v*b + w*c and u+v+w = 1. ok is false for a
// degenerate triangle.
func Barycentric(p, a, b, c r2.Vec) (u, v, w float64, ok bool) {
	d := orient(a, b, c)
	if math.Abs(d) < Epsilon {
		return 0, 0, 0, false
	}
	u = orient(p, b, c) / d
	v = orient(a, p, c) / d
	w = 1 - u - v
	return u, v, w, true
}

// Nearest returns the index of the point in pts closest to p and its
// distance. It returns -1 and +Inf for an empty slice.
func Nearest(pts []r2.Vec, p r2.Vec) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, q := range pts {
		if d := Dist(p, q); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}
