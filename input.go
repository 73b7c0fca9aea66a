package dragon

import (
	"math"

	"cogentcore.org/core/paint/ppath"
	"cogentcore.org/core/paint/ppath/intersect"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

// --- Hit shapes ---

// minHitStroke is the smallest hit width for lines and outlines.
const minHitStroke = 6.0

// flattenTolerance is the largest distance, in local units, between a
// flattened path and its curves.
const flattenTolerance = 0.25

// HitShape is a hit region in a node's local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a polygon hit area in local coordinates, tested with the
// even-odd rule so concave outlines work.
type HitPolygon struct {
	Points []r2.Vec
}

// Contains reports whether (x, y) lies inside the polygon.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Points[i], p.Points[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// HitSegment is a thick line segment in local coordinates.
type HitSegment struct {
	A, B  r2.Vec
	Width float64
}

// Contains reports whether (x, y) lies within Width/2 of the segment.
func (s HitSegment) Contains(x, y float64) bool {
	p := r2.Vec{X: x, Y: y}
	ab := r2.Sub(s.B, s.A)
	t := 0.0
	if l := r2.Dot(ab, ab); l > 0 {
		t = math.Max(0, math.Min(1, r2.Dot(r2.Sub(p, s.A), ab)/l))
	}
	q := r2.Add(s.A, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p, q)) <= s.Width/2
}

// hitShape derives a node's hit region from its attributes. Groups and
// holes have none.
func hitShape(n *Node) HitShape {
	num := func(k string) float64 { return n.Attrs[k].Num }
	switch n.Kind {
	case KindRect:
		return HitRect{X: num("x"), Y: num("y"), Width: num("width"), Height: num("height")}
	case KindCircle:
		return HitCircle{CenterX: num("cx"), CenterY: num("cy"), Radius: num("r")}
	case KindLine:
		return HitSegment{
			A:     r2.Vec{X: num("x1"), Y: num("y1")},
			B:     r2.Vec{X: num("x2"), Y: num("y2")},
			Width: math.Max(minHitStroke, num("stroke-width")),
		}
	case KindPolygon:
		return HitPolygon{Points: n.Attrs["points"].Points}
	case KindPath:
		return HitPolygon{Points: FlattenPath(n.Attrs["d"].Str)}
	case KindText:
		// Rough box for a 7x13 glyph cell, anchored at the baseline.
		w := 7 * float64(len(n.Attrs["text"].Str))
		return HitRect{X: num("x"), Y: num("y") - 13, Width: w, Height: 13}
	}
	return nil
}

// FlattenPath approximates path data with a polygon whose edges stay
// within flattenTolerance of the curves. A closed subpath ends on its start
// point again. Invalid data yields nil.
func FlattenPath(d string) []r2.Vec {
	p, err := ppath.ParseSVGPath(d)
	if err != nil {
		return nil
	}
	flat := intersect.Flatten(p, flattenTolerance)
	var out []r2.Vec
	for i := 0; i < len(flat); {
		cmd := flat[i]
		switch cmd {
		case ppath.MoveTo, ppath.LineTo, ppath.Close:
			out = append(out, vec2(flat[i+1], flat[i+2]))
		}
		i += ppath.CmdLen(cmd)
	}
	return out
}

// --- Hit testing ---

// HitTest returns the path of the topmost node under p. Entries are
// tested in reverse draw order, children before their parents.
func (h *Hoisted) HitTest(p r2.Vec) (string, bool) {
	if h == nil {
		return "", false
	}
	keys := h.DrawOrder()
	for i := len(keys) - 1; i >= 0; i-- {
		if path, ok := hitNode(h.Nodes[keys[i]], identity, p); ok {
			return path, true
		}
	}
	return "", false
}

func hitNode(n *Node, parent f64.Aff3, p r2.Vec) (string, bool) {
	if n == nil || n.Kind == KindHole {
		return "", false
	}
	world := multiplyAffine(parent, Compose(n.Transform))
	for i := len(n.Children) - 1; i >= 0; i-- {
		if path, ok := hitNode(n.Children[i], world, p); ok {
			return path, true
		}
	}
	shape := hitShape(n)
	if shape == nil {
		return "", false
	}
	l := transformPoint(invertAffine(world), p)
	if shape.Contains(l.X, l.Y) {
		return n.path, true
	}
	return "", false
}
