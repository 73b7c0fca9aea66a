package dragon

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Errors reported for author bugs in renderers and drag specifications.
// They are returned (wrapped) rather than recovered; use errors.Is.
var (
	ErrDuplicateID       = errors.New("dragon: duplicate node id")
	ErrZWithoutID        = errors.New("dragon: z index set on a node without an id")
	ErrInvalidID         = errors.New("dragon: node id contains a slash")
	ErrForeignAnnotation = errors.New("dragon: drag annotation was not created by this engine's render context")
	ErrNotCongruent      = errors.New("dragon: trees are not structurally congruent")
	ErrMissingNode       = errors.New("dragon: dragged node missing from render")
	ErrDetachWithoutID   = errors.New("dragon: detach-reattach needs the dragged node to carry an id")
	ErrBadParamPath      = errors.New("dragon: param path does not address a number")
	ErrBusy              = errors.New("dragon: engine is mid-gesture")
	ErrNilRenderer       = errors.New("dragon: nil renderer")
)

// StructureError reports two trees that cannot be interpolated. Error()
// includes both offending subtrees so the author can compare them, and the
// states they were rendered from when the engine knows them.
type StructureError struct {
	Path     string // child-index path from the lerp root, e.g. "0/2/"
	Reason   string
	A, B     *Node
	From, To any // states rendered as A and B; nil for a bare Lerp
}

func (e *StructureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dragon: cannot interpolate at %q: %s", e.Path, e.Reason)
	if e.From != nil || e.To != nil {
		fmt.Fprintf(&b, "\nfrom state: %+v\nto state:   %+v", e.From, e.To)
	}
	b.WriteString("\n--- a ---\n")
	b.WriteString(DumpYAML(e.A))
	b.WriteString("--- b ---\n")
	b.WriteString(DumpYAML(e.B))
	return b.String()
}

func (e *StructureError) Unwrap() error { return ErrNotCongruent }

// withStates records the states behind a failed interpolation on the
// StructureError in err's chain, if it has none yet.
func withStates(err error, from, to any) error {
	var se *StructureError
	if errors.As(err, &se) && se.From == nil && se.To == nil {
		se.From, se.To = from, to
	}
	return err
}

// MissingNodeError reports a drag target state whose render no longer
// contains the dragged node at its path. This almost always means the
// node's ancestry changed shape between the two states.
type MissingNodeError struct {
	Path  string
	From  any // state the gesture started from
	State any // state whose render lacks the node
	Tree  *Node
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("dragon: dragged node %q missing when rendering state %+v (dragged from %+v)\n%s",
		e.Path, e.State, e.From, DumpYAML(e.Tree))
}

func (e *MissingNodeError) Unwrap() error { return ErrMissingNode }

// yamlNode is the diagnostic shape of a Node.
type yamlNode struct {
	Kind      string            `yaml:"kind"`
	ID        string            `yaml:"id,omitempty"`
	Path      string            `yaml:"path,omitempty"`
	Z         *int              `yaml:"z,omitempty"`
	Transform []string          `yaml:"transform,omitempty"`
	Attrs     map[string]string `yaml:"attrs,omitempty"`
	Draggable bool              `yaml:"draggable,omitempty"`
	Hole      string            `yaml:"hole,omitempty"`
	Children  []*Node           `yaml:"children,omitempty"`
}

// MarshalYAML implements yaml.Marshaler for diagnostics.
func (n *Node) MarshalYAML() (any, error) {
	y := yamlNode{
		Kind:      n.Kind.String(),
		ID:        n.ID,
		Path:      n.path,
		Draggable: n.drag != nil,
		Hole:      n.holeOf,
		Children:  n.Children,
	}
	if n.hasZ {
		z := n.z
		y.Z = &z
	}
	for _, o := range n.Transform {
		y.Transform = append(y.Transform, o.String())
	}
	if len(n.Attrs) > 0 {
		y.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			y.Attrs[k] = v.String()
		}
	}
	return y, nil
}

// DumpYAML renders a tree for error messages and the inspect command.
func DumpYAML(n *Node) string {
	if n == nil {
		return "null\n"
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return fmt.Sprintf("<unprintable: %v>\n", err)
	}
	return string(out)
}

// MarshalYAML implements yaml.Marshaler, listing entries in draw order.
func (h *Hoisted) MarshalYAML() (any, error) {
	type entry struct {
		Key         string   `yaml:"key"`
		Z           int      `yaml:"z"`
		Descendants []string `yaml:"descendants,omitempty"`
		Node        *Node    `yaml:"node"`
	}
	keys := h.DrawOrder()
	out := make([]entry, 0, len(keys))
	for _, k := range keys {
		d := append([]string(nil), h.Descendants[k]...)
		sort.Strings(d)
		out = append(out, entry{Key: k, Z: h.zIndex[k], Descendants: d, Node: h.Nodes[k]})
	}
	return out, nil
}
