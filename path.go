package dragon

import "strconv"

// PathIndex maps the addresses assigned by AssignPaths back to nodes.
type PathIndex struct {
	nodes  map[string]*Node
	parent map[string]string
	order  []string
}

// Lookup returns the node at path, or nil.
func (ix *PathIndex) Lookup(path string) *Node {
	if ix == nil {
		return nil
	}
	return ix.nodes[path]
}

// Parent returns the path of the node's parent. ok is false for the root
// and for unknown paths.
func (ix *PathIndex) Parent(path string) (string, bool) {
	if ix == nil {
		return "", false
	}
	p, ok := ix.parent[path]
	return p, ok
}

// Paths returns every assigned path in depth-first order.
func (ix *PathIndex) Paths() []string {
	if ix == nil {
		return nil
	}
	return ix.order
}

// childPath returns the address of a child: its own id when it has one,
// otherwise the parent's path extended by the child's index.
func childPath(parentPath string, index int, c *Node) string {
	if c.ID != "" {
		return c.ID + "/"
	}
	return parentPath + strconv.Itoa(index) + "/"
}

func rootPath(root *Node) string {
	if root.ID != "" {
		return root.ID + "/"
	}
	return ""
}

// AssignPaths gives every node its address, top-down, and returns an index
// over them. Paths let the engine find "the same" node in renders of
// different states; they are only meaningful between trees of the same
// shape.
func AssignPaths(root *Node) *PathIndex {
	ix := &PathIndex{nodes: make(map[string]*Node), parent: make(map[string]string)}
	var visit func(n *Node, path string)
	visit = func(n *Node, path string) {
		n.path = path
		if _, dup := ix.nodes[path]; !dup {
			ix.order = append(ix.order, path)
		}
		ix.nodes[path] = n
		for i, c := range n.Children {
			cp := childPath(path, i, c)
			ix.parent[cp] = path
			visit(c, cp)
		}
	}
	visit(root, rootPath(root))
	return ix
}

// FindByPath walks the tree, computing addresses on the fly, and returns
// the node at path or nil. It does not depend on AssignPaths having run.
func FindByPath(root *Node, path string) *Node {
	var found *Node
	var visit func(n *Node, p string) bool
	visit = func(n *Node, p string) bool {
		if p == path {
			found = n
			return true
		}
		for i, c := range n.Children {
			if visit(c, childPath(p, i, c)) {
				return true
			}
		}
		return false
	}
	visit(root, rootPath(root))
	return found
}
