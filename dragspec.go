package dragon

// DragSpec describes the states reachable by dragging a node. It is a
// closed set: ManifoldsSpec, ParamsSpec, ParamPathsSpec and
// DetachReattachSpec are the only implementations.
type DragSpec[T any] interface {
	dragSpec(T)
}

// Target is one reachable state. When HasNext is set, reaching State ends
// the gesture at Next instead.
type Target[T any] struct {
	State   T
	Next    T
	HasNext bool
}

// To returns a plain target.
func To[T any](state T) Target[T] {
	return Target[T]{State: state}
}

// AndThen returns a target that, once reached, substitutes next as the
// resting state.
func AndThen[T any](state, next T) Target[T] {
	return Target[T]{State: state, Next: next, HasNext: true}
}

// ManifoldsSpec is a set of independent manifolds. Each manifold is a group
// of targets assumed to interpolate continuously into each other; the
// drag's starting state joins every manifold implicitly.
type ManifoldsSpec[T any] struct {
	Manifolds [][]Target[T]
}

func (ManifoldsSpec[T]) dragSpec(T) {}

// Along returns a spec with a single manifold over states.
func Along[T any](states ...T) ManifoldsSpec[T] {
	m := make([]Target[T], len(states))
	for i, s := range states {
		m[i] = To(s)
	}
	return ManifoldsSpec[T]{Manifolds: [][]Target[T]{m}}
}

// Manifold groups targets into one manifold for Manifolds.
func Manifold[T any](targets ...Target[T]) []Target[T] {
	return targets
}

// Manifolds returns a spec with one manifold per argument.
func Manifolds[T any](manifolds ...[]Target[T]) ManifoldsSpec[T] {
	return ManifoldsSpec[T]{Manifolds: manifolds}
}

// Union concatenates the manifolds of several specs.
func Union[T any](specs ...ManifoldsSpec[T]) ManifoldsSpec[T] {
	var out ManifoldsSpec[T]
	for _, s := range specs {
		out.Manifolds = append(out.Manifolds, s.Manifolds...)
	}
	return out
}

// ParamsSpec maps a continuous parameter vector to states. During the
// drag the engine searches for the parameters that put the dragged point
// under the pointer.
type ParamsSpec[T any] struct {
	Initial []float64
	Inverse func(params []float64) T
}

func (ParamsSpec[T]) dragSpec(T) {}

// Params returns a parametric spec.
func Params[T any](initial []float64, inverse func(params []float64) T) ParamsSpec[T] {
	return ParamsSpec[T]{Initial: append([]float64(nil), initial...), Inverse: inverse}
}

// ParamPathsSpec is a parametric spec whose parameters are numeric fields
// of the state itself, addressed by dotted paths such as "pos.x" or
// "items.2.angle".
type ParamPathsSpec[T any] struct {
	Paths []string
}

func (ParamPathsSpec[T]) dragSpec(T) {}

// ParamPaths returns a param-paths spec. T usually has to be given
// explicitly; RenderContext.ParamPaths infers it.
func ParamPaths[T any](paths ...string) ParamPathsSpec[T] {
	return ParamPathsSpec[T]{Paths: paths}
}

// DetachReattachSpec lifts the dragged node out of the diagram. Detached
// is the state shown while nothing is captured; Candidates are the states
// the node can be dropped into. The drag's starting state is always a
// candidate.
type DetachReattachSpec[T any] struct {
	Detached   T
	Candidates []T
}

func (DetachReattachSpec[T]) dragSpec(T) {}

// DetachReattach returns a detach-reattach spec.
func DetachReattach[T any](detached T, candidates ...T) DetachReattachSpec[T] {
	return DetachReattachSpec[T]{Detached: detached, Candidates: candidates}
}

// annotator identifies the engine that issued a DragAnnotation. It must
// not be zero-sized, or distinct engines could share an address.
type annotator struct{ _ byte }

// DragAnnotation is an opaque token marking a node as draggable. Only
// RenderContext.Drag creates valid ones.
type DragAnnotation struct {
	owner *annotator
	spec  func() any
}

// Renderer draws a state. It must be deterministic and produce congruent
// trees for states that are meant to interpolate.
type Renderer[T any] func(state T, rc *RenderContext[T]) *Node

// RenderContext is handed to the renderer on every call.
type RenderContext[T any] struct {
	// DraggedID is the id of the node being dragged, or "" when idle.
	DraggedID string

	owner    *annotator
	setState func(T)
}

// Drag returns an annotation that evaluates spec when the node is grabbed.
func (rc *RenderContext[T]) Drag(spec func() DragSpec[T]) *DragAnnotation {
	return &DragAnnotation{owner: rc.owner, spec: func() any { return spec() }}
}

// SetState asks the engine to replace the current state once the render
// completes. It is ignored while a gesture is in progress.
func (rc *RenderContext[T]) SetState(s T) {
	if rc.setState != nil {
		rc.setState(s)
	}
}

// ParamPaths is ParamPaths with T inferred from the context.
func (rc *RenderContext[T]) ParamPaths(paths ...string) DragSpec[T] {
	return ParamPathsSpec[T]{Paths: paths}
}

// resolve checks that a was issued by owner and evaluates its spec.
func (a *DragAnnotation) resolve(owner *annotator) (any, error) {
	if a == nil || a.owner == nil || a.owner != owner || a.spec == nil {
		return nil, ErrForeignAnnotation
	}
	return a.spec(), nil
}
