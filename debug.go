package dragon

import "log/slog"

// Tree-shape thresholds checked in debug mode.
const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// debugCheckTree warns through logger about trees that are unusually deep
// or wide. Renders run on every pointer move, so large trees are the usual
// cause of a sluggish drag.
func debugCheckTree(logger *slog.Logger, root *Node) {
	if d := treeDepth(root); d > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold", "depth", d, "threshold", debugMaxTreeDepth)
	}
	root.Walk(func(n *Node) bool {
		if len(n.Children) > debugMaxChildCount {
			logger.Warn("node has many children",
				"path", n.path, "children", len(n.Children), "threshold", debugMaxChildCount)
		}
		return true
	})
}

// debugCheckAnnotations warns about draggable nodes that can never be hit.
func debugCheckAnnotations(logger *slog.Logger, root *Node) {
	root.Walk(func(n *Node) bool {
		if n.drag != nil && n.Kind == KindGroup && len(n.Children) == 0 {
			logger.Warn("draggable group has no children and cannot be hit", "path", n.path)
		}
		return true
	})
}
