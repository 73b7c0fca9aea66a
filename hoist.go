package dragon

import (
	"fmt"
	"sort"

	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"
)

// Hoisted is a drawable tree flattened by id. Every node with an id is
// pulled out of its parent (leaving a KindHole placeholder) together with
// its subtree, and its accumulated transform chain is baked into its own
// Transform, so each entry can be drawn, diffed and interpolated on its
// own. The untagged remainder lives under the key "".
type Hoisted struct {
	Nodes map[string]*Node
	// Descendants maps an id to every id hoisted out of its subtree,
	// transitively, in discovery order.
	Descendants map[string][]string

	zIndex map[string]int
}

func newHoisted() *Hoisted {
	return &Hoisted{
		Nodes:       make(map[string]*Node),
		Descendants: make(map[string][]string),
		zIndex:      make(map[string]int),
	}
}

// Hoist flattens root. Accumulate must have run on root first. The input
// tree is not modified.
func Hoist(root *Node) (*Hoisted, error) {
	h := newHoisted()
	var owners []string

	var visit func(n *Node) (*Node, error)
	visit = func(n *Node) (*Node, error) {
		cp := *n
		cp.Children = nil
		if n.Children != nil {
			cp.Children = make([]*Node, len(n.Children))
		}
		for i, c := range n.Children {
			if c.ID == "" {
				if c.hasZ {
					return nil, fmt.Errorf("%w (node %q, kind %s)", ErrZWithoutID, c.path, c.Kind)
				}
				sub, err := visit(c)
				if err != nil {
					return nil, err
				}
				cp.Children[i] = sub
				continue
			}
			if err := h.pull(c, owners, visit, &owners); err != nil {
				return nil, err
			}
			cp.Children[i] = &Node{Kind: KindHole, holeOf: c.ID, path: c.path, world: c.world}
		}
		return &cp, nil
	}

	if root.hasZ && root.ID == "" {
		return nil, fmt.Errorf("%w (root)", ErrZWithoutID)
	}
	if root.ID != "" {
		if err := h.pull(root, nil, visit, &owners); err != nil {
			return nil, err
		}
		return h, nil
	}
	rest, err := visit(root)
	if err != nil {
		return nil, err
	}
	rest.Transform = append([]TransformOp(nil), root.accum...)
	h.Nodes[""] = rest
	h.zIndex[""] = 0
	return h, nil
}

// pull hoists an id-bearing node and its subtree.
func (h *Hoisted) pull(n *Node, ancestors []string, visit func(*Node) (*Node, error), owners *[]string) error {
	if !validID(n.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, n.ID)
	}
	if _, dup := h.Nodes[n.ID]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
	}
	for _, a := range ancestors {
		h.Descendants[a] = append(h.Descendants[a], n.ID)
	}
	// Reserve the key so a duplicate inside the subtree is caught.
	h.Nodes[n.ID] = nil

	*owners = append(*owners, n.ID)
	sub, err := visit(n)
	*owners = (*owners)[:len(*owners)-1]
	if err != nil {
		return err
	}
	sub.Transform = append([]TransformOp(nil), n.accum...)
	h.Nodes[n.ID] = sub
	h.zIndex[n.ID] = n.z
	return nil
}

// Z returns the draw order of an entry (0 when unset).
func (h *Hoisted) Z(key string) int {
	return h.zIndex[key]
}

// DrawOrder returns the entry keys sorted by z ascending. Ties are broken
// by key so frames are reproducible.
func (h *Hoisted) DrawOrder() []string {
	keys := make([]string, 0, len(h.Nodes))
	for k := range h.Nodes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		zi, zj := h.zIndex[keys[i]], h.zIndex[keys[j]]
		if zi != zj {
			return zi < zj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Clone returns a deep copy.
func (h *Hoisted) Clone() *Hoisted {
	out := newHoisted()
	for k, n := range h.Nodes {
		out.Nodes[k] = n.Clone()
	}
	for k, d := range h.Descendants {
		out.Descendants[k] = append([]string(nil), d...)
	}
	for k, z := range h.zIndex {
		out.zIndex[k] = z
	}
	return out
}

// Subtree returns a new Hoisted holding only id and its hoisted
// descendants.
func (h *Hoisted) Subtree(id string) *Hoisted {
	out := newHoisted()
	for _, k := range append([]string{id}, h.Descendants[id]...) {
		n, ok := h.Nodes[k]
		if !ok {
			continue
		}
		out.Nodes[k] = n
		out.zIndex[k] = h.zIndex[k]
		if d, ok := h.Descendants[k]; ok {
			out.Descendants[k] = d
		}
	}
	return out
}

// Without returns a copy with id and its hoisted descendants removed.
// Entries are shared with h, not cloned.
func (h *Hoisted) Without(id string) *Hoisted {
	drop := map[string]bool{id: true}
	for _, d := range h.Descendants[id] {
		drop[d] = true
	}
	out := newHoisted()
	for k, n := range h.Nodes {
		if drop[k] {
			continue
		}
		out.Nodes[k] = n
		out.zIndex[k] = h.zIndex[k]
	}
	for k, ds := range h.Descendants {
		if drop[k] {
			continue
		}
		for _, d := range ds {
			if !drop[d] {
				out.Descendants[k] = append(out.Descendants[k], d)
			}
		}
	}
	return out
}

// Merge returns the union of h and over; entries of over win.
func (h *Hoisted) Merge(over *Hoisted) *Hoisted {
	out := newHoisted()
	for _, src := range []*Hoisted{h, over} {
		for k, n := range src.Nodes {
			out.Nodes[k] = n
			out.zIndex[k] = src.zIndex[k]
		}
		for k, d := range src.Descendants {
			out.Descendants[k] = d
		}
	}
	return out
}

// Translated returns a copy in which every entry is moved by (dx, dy) in
// world space.
func (h *Hoisted) Translated(dx, dy float64) *Hoisted {
	out := newHoisted()
	for k, n := range h.Nodes {
		cp := *n
		cp.Transform = append([]TransformOp{Translate(dx, dy)}, n.Transform...)
		out.Nodes[k] = &cp
		out.zIndex[k] = h.zIndex[k]
	}
	for k, d := range h.Descendants {
		out.Descendants[k] = d
	}
	return out
}

// Draw visits every visible node in draw order with its world matrix.
// Groups and holes are traversed but not reported.
func (h *Hoisted) Draw(fn func(n *Node, world f64.Aff3)) {
	for _, k := range h.DrawOrder() {
		drawTree(h.Nodes[k], identity, fn)
	}
}

// Draw visits every visible node of an unhoisted tree in tree order.
func Draw(root *Node, fn func(n *Node, world f64.Aff3)) {
	drawTree(root, identity, fn)
}

func drawTree(n *Node, parent f64.Aff3, fn func(*Node, f64.Aff3)) {
	if n == nil {
		return
	}
	world := multiplyAffine(parent, Compose(n.Transform))
	switch n.Kind {
	case KindGroup, KindHole:
	default:
		fn(n, world)
	}
	for _, c := range n.Children {
		drawTree(c, world, fn)
	}
}

// Position returns the world position of a local point on the node stored
// under key, or false when the entry is absent.
func (h *Hoisted) Position(key string, local r2.Vec) (r2.Vec, bool) {
	n, ok := h.Nodes[key]
	if !ok || n == nil {
		return r2.Vec{}, false
	}
	return transformPoint(Compose(n.Transform), local), true
}
