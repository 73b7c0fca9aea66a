package dragon

import (
	"strings"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

// Node is one element of a drawable tree. A single flat struct is used for
// every kind to keep the passes free of interface dispatch.
//
// Renderers build fresh trees on every call, so the engine's passes record
// their bookkeeping (path, accumulated transform) directly on the nodes they
// are handed. Nodes returned by Lerp and the Hoisted helpers are new values;
// inputs are never modified by those.
type Node struct {
	Kind      Kind
	ID        string
	Attrs     map[string]Attr
	Transform []TransformOp
	Children  []*Node

	z    int
	hasZ bool

	drag *DragAnnotation

	// Bookkeeping written by AssignPaths and Accumulate.
	path  string
	accum []TransformOp
	world f64.Aff3

	holeOf string // KindHole: id of the hoisted node
}

func newNode(kind Kind) *Node {
	return &Node{Kind: kind, Attrs: make(map[string]Attr), world: identity}
}

// Group creates a container node.
func Group(children ...*Node) *Node {
	n := newNode(KindGroup)
	n.Add(children...)
	return n
}

// Rect creates a rectangle with its top-left corner at (x, y).
func Rect(x, y, w, h float64) *Node {
	n := newNode(KindRect)
	n.Attrs["x"] = Num(x)
	n.Attrs["y"] = Num(y)
	n.Attrs["width"] = Num(w)
	n.Attrs["height"] = Num(h)
	return n
}

// Circle creates a circle centered on (cx, cy).
func Circle(cx, cy, r float64) *Node {
	n := newNode(KindCircle)
	n.Attrs["cx"] = Num(cx)
	n.Attrs["cy"] = Num(cy)
	n.Attrs["r"] = Num(r)
	return n
}

// Line creates a line segment.
func Line(x1, y1, x2, y2 float64) *Node {
	n := newNode(KindLine)
	n.Attrs["x1"] = Num(x1)
	n.Attrs["y1"] = Num(y1)
	n.Attrs["x2"] = Num(x2)
	n.Attrs["y2"] = Num(y2)
	return n
}

// Polygon creates a closed polygon.
func Polygon(points ...r2.Vec) *Node {
	n := newNode(KindPolygon)
	n.Attrs["points"] = Pts(points...)
	return n
}

// Path creates a node drawn from SVG path data.
func Path(d string) *Node {
	n := newNode(KindPath)
	n.Attrs["d"] = PathData(d)
	return n
}

// Text creates a text node anchored at (x, y).
func Text(x, y float64, content string) *Node {
	n := newNode(KindText)
	n.Attrs["x"] = Num(x)
	n.Attrs["y"] = Num(y)
	n.Attrs["text"] = Str(content)
	return n
}

// Add appends children. Panics on nil children.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			panic("dragon: cannot add nil child")
		}
		n.Children = append(n.Children, c)
	}
	return n
}

// WithID sets the node's stable identity. IDs must be unique within one
// rendered tree and must not contain a slash; both are checked when the
// tree is hoisted.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// SetZ sets the draw order of a hoisted node. Only legal on nodes with an ID.
func (n *Node) SetZ(z int) *Node {
	n.z = z
	n.hasZ = true
	return n
}

// Z returns the node's z index and whether one was set.
func (n *Node) Z() (int, bool) {
	return n.z, n.hasZ
}

// Set stores an attribute.
func (n *Node) Set(name string, a Attr) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]Attr)
	}
	n.Attrs[name] = a
	return n
}

// Fill sets the fill paint.
func (n *Node) Fill(c Color) *Node { return n.Set("fill", Paint(c)) }

// Stroke sets the stroke paint and width.
func (n *Node) Stroke(c Color, width float64) *Node {
	n.Set("stroke", Paint(c))
	return n.Set("stroke-width", Num(width))
}

// Translate appends a translation to the node's local transform.
func (n *Node) Translate(x, y float64) *Node {
	n.Transform = append(n.Transform, Translate(x, y))
	return n
}

// Rotate appends a rotation of deg degrees about (cx, cy).
func (n *Node) Rotate(deg, cx, cy float64) *Node {
	n.Transform = append(n.Transform, Rotate(deg, cx, cy))
	return n
}

// Scale appends a scale.
func (n *Node) Scale(sx, sy float64) *Node {
	n.Transform = append(n.Transform, Scale(sx, sy))
	return n
}

// Draggable attaches a drag annotation created by RenderContext.Drag.
func (n *Node) Draggable(a *DragAnnotation) *Node {
	n.drag = a
	return n
}

// Annotation returns the node's drag annotation, or nil.
func (n *Node) Annotation() *DragAnnotation {
	return n.drag
}

// NodePath returns the address assigned by AssignPaths.
func (n *Node) NodePath() string {
	return n.path
}

// World returns the accumulated world matrix computed by Accumulate.
func (n *Node) World() f64.Aff3 {
	return n.world
}

// HoleOf returns the id of the hoisted node a KindHole placeholder stands for.
func (n *Node) HoleOf() string {
	return n.holeOf
}

// Clone returns a deep copy of the subtree, bookkeeping included.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Attrs = make(map[string]Attr, len(n.Attrs))
	for k, v := range n.Attrs {
		c.Attrs[k] = v.clone()
	}
	c.Transform = append([]TransformOp(nil), n.Transform...)
	c.accum = append([]TransformOp(nil), n.accum...)
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return &c
}

// Walk calls fn for n and every descendant in depth-first order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// validID reports whether id is usable as a node identity.
func validID(id string) bool {
	return !strings.Contains(id, "/")
}

// treeDepth returns the depth of the deepest node below n (n itself is 1).
func treeDepth(n *Node) int {
	d := 0
	for _, c := range n.Children {
		if cd := treeDepth(c); cd > d {
			d = cd
		}
	}
	return d + 1
}
