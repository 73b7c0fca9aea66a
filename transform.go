package dragon

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

// identity is the identity affine matrix.
var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// OpKind identifies a transform component.
type OpKind uint8

const (
	OpTranslate OpKind = iota // X, Y
	OpRotate                  // Angle (degrees) about (X, Y)
	OpScale                   // X, Y factors
)

func (k OpKind) String() string {
	switch k {
	case OpTranslate:
		return "translate"
	case OpRotate:
		return "rotate"
	case OpScale:
		return "scale"
	}
	return "op?"
}

// TransformOp is one component of a transform chain. Chains compose like
// SVG transform lists: the first op is outermost, the last is applied to
// points first.
type TransformOp struct {
	Op    OpKind
	X, Y  float64
	Angle float64
}

// Translate returns a translation.
func Translate(x, y float64) TransformOp { return TransformOp{Op: OpTranslate, X: x, Y: y} }

// Rotate returns a rotation of deg degrees about (cx, cy).
func Rotate(deg, cx, cy float64) TransformOp {
	return TransformOp{Op: OpRotate, Angle: deg, X: cx, Y: cy}
}

// Scale returns a scale.
func Scale(sx, sy float64) TransformOp { return TransformOp{Op: OpScale, X: sx, Y: sy} }

func (o TransformOp) String() string {
	switch o.Op {
	case OpRotate:
		return fmt.Sprintf("rotate(%g,%g,%g)", o.Angle, o.X, o.Y)
	default:
		return fmt.Sprintf("%s(%g,%g)", o.Op, o.X, o.Y)
	}
}

// Matrix returns the op as an affine matrix.
//
//	Matrix layout (f64.Aff3, row-major):
//	| m0 m1 m2 |
//	| m3 m4 m5 |
//	|  0  0  1 |
func (o TransformOp) Matrix() f64.Aff3 {
	switch o.Op {
	case OpTranslate:
		return f64.Aff3{1, 0, o.X, 0, 1, o.Y}
	case OpScale:
		return f64.Aff3{o.X, 0, 0, 0, o.Y, 0}
	case OpRotate:
		sin, cos := math.Sincos(o.Angle * math.Pi / 180)
		// Translate(c) * Rotate * Translate(-c)
		return f64.Aff3{
			cos, -sin, o.X - cos*o.X + sin*o.Y,
			sin, cos, o.Y - sin*o.X - cos*o.Y,
		}
	}
	return identity
}

// Compose multiplies a transform chain into a single matrix.
func Compose(ops []TransformOp) f64.Aff3 {
	m := identity
	for _, o := range ops {
		m = multiplyAffine(m, o.Matrix())
	}
	return m
}

// multiplyAffine multiplies two affine matrices: result = p * c, so c is
// applied to points first.
func multiplyAffine(p, c f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		p[0]*c[0] + p[1]*c[3],
		p[0]*c[1] + p[1]*c[4],
		p[0]*c[2] + p[1]*c[5] + p[2],
		p[3]*c[0] + p[4]*c[3],
		p[3]*c[1] + p[4]*c[4],
		p[3]*c[2] + p[4]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of an affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m f64.Aff3) f64.Aff3 {
	det := m[0]*m[4] - m[1]*m[3]
	if det > -1e-12 && det < 1e-12 {
		return identity
	}
	inv := 1 / det
	a := m[4] * inv
	b := -m[1] * inv
	d := -m[3] * inv
	e := m[0] * inv
	return f64.Aff3{
		a, b, -(a*m[2] + b*m[5]),
		d, e, -(d*m[2] + e*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m f64.Aff3, p r2.Vec) r2.Vec {
	return r2.Vec{X: m[0]*p.X + m[1]*p.Y + m[2], Y: m[3]*p.X + m[4]*p.Y + m[5]}
}

// LocalToWorld maps a point in the node's local space to world space.
func (n *Node) LocalToWorld(p r2.Vec) r2.Vec {
	return transformPoint(n.world, p)
}

// WorldToLocal maps a world-space point into the node's local space.
func (n *Node) WorldToLocal(p r2.Vec) r2.Vec {
	return transformPoint(invertAffine(n.world), p)
}

// Accumulate records, on every node, the concatenation of its ancestors'
// transform chains with its own, and the world matrix of that chain.
// Hoisting relies on this to place pulled-out subtrees.
func Accumulate(root *Node) {
	accumulate(root, nil, identity)
}

func accumulate(n *Node, parent []TransformOp, parentWorld f64.Aff3) {
	n.accum = make([]TransformOp, 0, len(parent)+len(n.Transform))
	n.accum = append(n.accum, parent...)
	n.accum = append(n.accum, n.Transform...)
	n.world = multiplyAffine(parentWorld, Compose(n.Transform))
	for _, c := range n.Children {
		accumulate(c, n.accum, n.world)
	}
}

// isTranslationChain reports whether every op is a translation.
func isTranslationChain(ops []TransformOp) bool {
	for _, o := range ops {
		if o.Op != OpTranslate {
			return false
		}
	}
	return true
}

// netTranslation sums a translation-only chain.
func netTranslation(ops []TransformOp) TransformOp {
	var t TransformOp
	for _, o := range ops {
		t.X += o.X
		t.Y += o.Y
	}
	return t
}
