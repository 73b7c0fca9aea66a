package dragon

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

// Lerp interpolates two structurally congruent trees. Both trees must have
// the same kind and child count at every position; anything else returns a
// *StructureError. Drag annotations, z indices and path bookkeeping are not
// carried into the result. Inputs are not modified.
func Lerp(a, b *Node, t float64) (*Node, error) {
	return lerpNode(a, b, t, "")
}

func lerpNode(a, b *Node, t float64, at string) (*Node, error) {
	fail := func(format string, args ...any) (*Node, error) {
		return nil, &StructureError{Path: at, Reason: fmt.Sprintf(format, args...), A: a, B: b}
	}
	if a == nil || b == nil {
		if a == b {
			return nil, nil
		}
		return fail("node present on one side only")
	}
	if a.Kind != b.Kind {
		return fail("kind %s vs %s", a.Kind, b.Kind)
	}
	ac := realChildren(a.Children)
	bc := realChildren(b.Children)
	if len(ac) != len(bc) {
		return fail("%d children vs %d", len(ac), len(bc))
	}

	out := &Node{Kind: a.Kind, ID: a.ID, holeOf: a.holeOf, world: identity}
	if out.ID == "" {
		out.ID = b.ID
	}

	tr, err := lerpTransform(a.Transform, b.Transform, t)
	if err != nil {
		return fail("%v", err)
	}
	out.Transform = tr

	out.Attrs = make(map[string]Attr, len(a.Attrs))
	for k, av := range a.Attrs {
		bv, ok := b.Attrs[k]
		if !ok {
			out.Attrs[k] = av.clone()
			continue
		}
		v, err := lerpAttr(av, bv, t)
		if err != nil {
			return fail("attribute %q: %v", k, err)
		}
		out.Attrs[k] = v
	}
	for k, bv := range b.Attrs {
		if _, ok := a.Attrs[k]; !ok {
			out.Attrs[k] = bv.clone()
		}
	}

	lerped := make([]*Node, len(ac))
	for i := range ac {
		c, err := lerpNode(ac[i], bc[i], t, at+strconv.Itoa(i)+"/")
		if err != nil {
			return nil, err
		}
		lerped[i] = c
	}

	// Holes and their positions come from the nearer side.
	side := a.Children
	if t >= 0.5 {
		side = b.Children
	}
	if a.Children != nil || b.Children != nil {
		out.Children = make([]*Node, 0, len(side))
	}
	k := 0
	for _, c := range side {
		if isHole(c) {
			out.Children = append(out.Children, &Node{Kind: KindHole, holeOf: c.holeOf, world: identity})
			continue
		}
		out.Children = append(out.Children, lerped[k])
		k++
	}
	return out, nil
}

func isHole(n *Node) bool { return n != nil && n.Kind == KindHole }

// realChildren drops hoisting placeholders. Holes do not draw, so they take
// no part in congruence: hoisted entries may be reordered, added or removed
// between states.
func realChildren(children []*Node) []*Node {
	var nodes []*Node
	for _, c := range children {
		if !isHole(c) {
			nodes = append(nodes, c)
		}
	}
	return nodes
}

func lerpNum(a, b, t float64) float64 {
	switch {
	case a == b, t == 0:
		return a
	case t == 1:
		return b
	}
	return a*(1-t) + b*t
}

func lerpVec(a, b r2.Vec, t float64) r2.Vec {
	return r2.Vec{X: lerpNum(a.X, b.X, t), Y: lerpNum(a.Y, b.Y, t)}
}

func lerpAttr(a, b Attr, t float64) (Attr, error) {
	if a.Type != b.Type {
		return Attr{}, fmt.Errorf("type mismatch (%s vs %s)", a, b)
	}
	switch a.Type {
	case AttrNumber:
		return Num(lerpNum(a.Num, b.Num, t)), nil
	case AttrString:
		if a.Str != b.Str {
			return Attr{}, fmt.Errorf("strings differ (%q vs %q)", a.Str, b.Str)
		}
		return a, nil
	case AttrColor:
		return Paint(lerpColor(a.Color, b.Color, t)), nil
	case AttrPoints:
		if len(a.Points) != len(b.Points) {
			return Attr{}, fmt.Errorf("%d points vs %d", len(a.Points), len(b.Points))
		}
		pts := make([]r2.Vec, len(a.Points))
		for i := range pts {
			pts[i] = lerpVec(a.Points[i], b.Points[i], t)
		}
		return Attr{Type: AttrPoints, Points: pts}, nil
	case AttrPathData:
		d, err := lerpPathData(a.Str, b.Str, t)
		if err != nil {
			return Attr{}, err
		}
		return PathData(d), nil
	}
	return Attr{}, fmt.Errorf("unknown attribute type %d", a.Type)
}

// lerpTransform matches two chains op by op. Translation-only chains of
// different lengths are first collapsed to their net translation.
func lerpTransform(a, b []TransformOp, t float64) ([]TransformOp, error) {
	if len(a) != len(b) {
		if !isTranslationChain(a) || !isTranslationChain(b) {
			return nil, fmt.Errorf("transform chains differ in shape (%v vs %v)", a, b)
		}
		return []TransformOp{lerpOp(netTranslation(a), netTranslation(b), t)}, nil
	}
	if len(a) == 0 {
		return nil, nil
	}
	out := make([]TransformOp, len(a))
	for i := range a {
		if a[i].Op != b[i].Op {
			return nil, fmt.Errorf("transform %d is %s vs %s", i, a[i].Op, b[i].Op)
		}
		out[i] = lerpOp(a[i], b[i], t)
	}
	return out, nil
}

func lerpOp(a, b TransformOp, t float64) TransformOp {
	out := TransformOp{Op: a.Op, X: lerpNum(a.X, b.X, t), Y: lerpNum(a.Y, b.Y, t)}
	if a.Op == OpRotate {
		out.Angle = lerpAngle(a.Angle, b.Angle, t)
	}
	return out
}

// lerpAngle interpolates degrees along the shorter arc.
func lerpAngle(a, b, t float64) float64 {
	switch {
	case a == b, t == 0:
		return a
	case t == 1:
		return b
	}
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return a + d*t
}

// LerpHoisted interpolates two hoisted trees entry by entry. Entries
// present on one side only pass through, which lets elements appear and
// disappear across a transition.
func LerpHoisted(a, b *Hoisted, t float64) (*Hoisted, error) {
	out := newHoisted()
	for k, an := range a.Nodes {
		bn, ok := b.Nodes[k]
		if !ok {
			out.Nodes[k] = an
			out.zIndex[k] = a.zIndex[k]
			continue
		}
		n, err := Lerp(an, bn, t)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", k, err)
		}
		out.Nodes[k] = n
		out.zIndex[k] = a.zIndex[k]
		if t >= 0.5 {
			out.zIndex[k] = b.zIndex[k]
		}
	}
	for k, bn := range b.Nodes {
		if _, ok := a.Nodes[k]; !ok {
			out.Nodes[k] = bn
			out.zIndex[k] = b.zIndex[k]
		}
	}
	for _, src := range []*Hoisted{a, b} {
		for k, ds := range src.Descendants {
			out.Descendants[k] = unionStrings(out.Descendants[k], ds)
		}
	}
	return out, nil
}

// Lerp3 blends three hoisted trees by barycentric weights, as two 2-way
// lerps: first a toward b, then that result toward c.
func Lerp3(a, b, c *Hoisted, wa, wb, wc float64) (*Hoisted, error) {
	h, _, err := lerp3(a, b, c, wa, wb, wc)
	return h, err
}

// lerp3 is Lerp3 that also reports, on failure, the tree the second lerp
// operand came from: b when a and b disagree, c otherwise.
func lerp3(a, b, c *Hoisted, wa, wb, wc float64) (*Hoisted, *Hoisted, error) {
	s := wa + wb
	if s <= 1e-12 {
		return c, nil, nil
	}
	ab, err := LerpHoisted(a, b, wb/s)
	if err != nil {
		return nil, b, err
	}
	h, err := LerpHoisted(ab, c, wc)
	if err != nil {
		return nil, c, err
	}
	return h, nil, nil
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	out := append([]string(nil), a...)
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
