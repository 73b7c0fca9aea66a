package dragon

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// maxChainDepth bounds how many snaps a single pointer move may chain
	// through before the gesture is ended at the last state.
	maxChainDepth = 8
	// maxPendingStates bounds SetState calls applied after one settle.
	maxPendingStates = 8
)

type options struct {
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
	sink    EventSink
}

// Option configures an Engine.
type Option func(*options)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records engine activity into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithEventSink delivers engine events to sink.
func WithEventSink(sink EventSink) Option {
	return func(o *options) { o.sink = sink }
}

// Engine runs the drag interaction for one diagram. It owns the current
// state and turns pointer and frame events into frames to display.
//
// An Engine is not safe for concurrent use; call every method from the
// goroutine that drives the UI.
type Engine[T any] struct {
	render  Renderer[T]
	cfg     Config
	logger  *slog.Logger
	metrics *Metrics
	sink    EventSink
	owner   *annotator

	mode  mode[T]
	state T // last resting state; failures revert here
	frame *Hoisted
	root  *Node
	index *PathIndex

	err      error
	paused   bool
	debug    bool
	pointer  r2.Vec
	settling bool
	pending  *T
	released *r2.Vec // release that arrived while paused

	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func()
}

// rendered is one pass of render → AssignPaths → Accumulate → Hoist.
type rendered struct {
	root    *Node
	index   *PathIndex
	hoisted *Hoisted
}

// New renders initial and returns an idle engine.
func New[T any](initial T, render Renderer[T], opts ...Option) (*Engine[T], error) {
	if render == nil {
		return nil, ErrNilRenderer
	}
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	e := &Engine[T]{
		render:  render,
		cfg:     o.cfg,
		logger:  o.logger,
		metrics: o.metrics,
		sink:    o.sink,
		owner:   &annotator{},
		mode:    &idleMode[T]{state: initial},
		state:   initial,
	}
	if err := e.settle(initial); err != nil {
		return nil, err
	}
	return e, nil
}

// State returns the resting state: the initial state, or the one the last
// gesture settled on.
func (e *Engine[T]) State() T { return e.state }

// Frame returns the tree to display.
func (e *Engine[T]) Frame() *Hoisted { return e.frame }

// Tree returns the last idle render, with paths and world matrices
// assigned.
func (e *Engine[T]) Tree() *Node { return e.root }

// Mode returns the current interaction mode.
func (e *Engine[T]) Mode() Mode { return modeOf(e.mode) }

// Err returns the last author error caught, or nil. It is cleared when the
// next gesture starts successfully.
func (e *Engine[T]) Err() error { return e.err }

// Config returns the engine's configuration.
func (e *Engine[T]) Config() Config { return e.cfg }

// Paused reports whether the engine is paused.
func (e *Engine[T]) Paused() bool { return e.paused }

// SetPaused freezes pointer handling and time-driven animation. Nothing
// is discarded; unpausing resumes where things stopped. A release that
// arrives while paused is held and applied when the engine is unpaused,
// so a gesture never stays stuck after the button has gone up.
func (e *Engine[T]) SetPaused(p bool) {
	e.paused = p
	if p || e.released == nil {
		return
	}
	pos := *e.released
	e.released = nil
	e.PointerUp(pos)
}

// SetDebugMode enables tree-shape warnings on every render.
func (e *Engine[T]) SetDebugMode(enabled bool) { e.debug = enabled }

// OnChange registers fn to run whenever the displayed frame may have
// changed. Call the returned function to unregister.
func (e *Engine[T]) OnChange(fn func()) (remove func()) {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine[T]) notify() {
	for _, l := range e.listeners {
		l.fn()
	}
}

func (e *Engine[T]) emit(ev Event) {
	if e.sink != nil {
		e.sink.EmitEvent(ev)
	}
}

// SetState replaces the resting state. It returns ErrBusy during a
// gesture or animation.
func (e *Engine[T]) SetState(s T) error {
	if e.Mode() != ModeIdle {
		return ErrBusy
	}
	if err := e.settle(s); err != nil {
		return err
	}
	e.notify()
	return nil
}

// PointerDown starts a gesture on the node at targetPath, or on its nearest
// draggable ancestor. It is ignored when no such node exists, when the
// engine is paused, and while another gesture or animation is running.
func (e *Engine[T]) PointerDown(pos r2.Vec, targetPath string) {
	if e.paused || e.Mode() != ModeIdle {
		return
	}
	e.pointer = pos
	n := e.findDraggable(targetPath)
	if n == nil {
		return
	}
	spec, err := n.drag.resolve(e.owner)
	if err != nil {
		e.fail(fmt.Errorf("%w (node %q)", err, n.path))
		e.notify()
		return
	}
	e.err = nil
	g := grab{path: n.path, id: n.ID, offset: n.WorldToLocal(pos)}
	e.logger.Debug("pointer down", "path", g.path, "x", pos.X, "y", pos.Y)
	e.begin(e.state, g, pos, spec, 0)
	e.notify()
}

// PointerDownAt hit-tests the current frame and starts a gesture on what
// is under pos.
func (e *Engine[T]) PointerDownAt(pos r2.Vec) {
	if path, ok := e.frame.HitTest(pos); ok {
		e.PointerDown(pos, path)
	}
}

// PointerMove feeds a pointer position to the active gesture.
func (e *Engine[T]) PointerMove(pos r2.Vec) {
	if e.paused {
		return
	}
	e.pointer = pos
	active := e.Mode() != ModeIdle
	e.mode.accept(moveVisitor[T]{e: e, pos: pos})
	if active {
		e.notify()
	}
}

// PointerUp ends the active gesture at pos. While paused the release is
// deferred until SetPaused(false).
func (e *Engine[T]) PointerUp(pos r2.Vec) {
	if e.paused {
		if m := e.Mode(); m != ModeIdle && m != ModeAnimating {
			e.released = &pos
		}
		return
	}
	e.pointer = pos
	active := e.Mode() != ModeIdle
	e.mode.accept(upVisitor[T]{e: e})
	if active {
		e.notify()
	}
}

// PointerCancel ends the active gesture as if the pointer were released
// where it was last seen.
func (e *Engine[T]) PointerCancel() {
	e.PointerUp(e.pointer)
}

// Update advances animations by dt seconds of wall-clock time.
func (e *Engine[T]) Update(dt float64) {
	if e.paused || dt <= 0 {
		return
	}
	active := e.Mode() != ModeIdle
	e.mode.accept(updateVisitor[T]{e: e, dt: dt})
	if active {
		e.notify()
	}
}

func (e *Engine[T]) findDraggable(path string) *Node {
	p := path
	for {
		if n := e.index.Lookup(p); n != nil && n.drag != nil {
			return n
		}
		parent, ok := e.index.Parent(p)
		if !ok {
			return nil
		}
		p = parent
	}
}

// prepare renders state and runs the scene-graph passes.
func (e *Engine[T]) prepare(state T, draggedID string) (rendered, error) {
	rc := &RenderContext[T]{DraggedID: draggedID, owner: e.owner}
	if e.settling {
		rc.setState = e.requestState
	}
	root := e.render(state, rc)
	if root == nil {
		return rendered{}, fmt.Errorf("dragon: renderer returned nil for state %+v", state)
	}
	ix := AssignPaths(root)
	Accumulate(root)
	h, err := Hoist(root)
	if err != nil {
		return rendered{}, err
	}
	if e.debug {
		debugCheckTree(e.logger, root)
		debugCheckAnnotations(e.logger, root)
	}
	return rendered{root: root, index: ix, hoisted: h}, nil
}

func (e *Engine[T]) requestState(s T) {
	cp := s
	e.pending = &cp
}

// settle renders state and makes it the idle resting state, then applies
// any SetState requests the renderer made.
func (e *Engine[T]) settle(state T) error {
	for i := 0; ; i++ {
		e.settling = true
		r, err := e.prepare(state, "")
		e.settling = false
		if err != nil {
			e.pending = nil
			return err
		}
		e.show(state, r)
		if e.pending == nil || i >= maxPendingStates {
			e.pending = nil
			return nil
		}
		next := *e.pending
		e.pending = nil
		if reflect.DeepEqual(next, e.state) {
			return nil
		}
		state = next
	}
}

func (e *Engine[T]) show(state T, r rendered) {
	e.state = state
	e.root, e.index, e.frame = r.root, r.index, r.hoisted
	e.mode = &idleMode[T]{state: state}
	e.emit(Event{Kind: EventSettle, Mode: ModeIdle, State: state})
}

// settleOrFail is settle for the end of a gesture.
func (e *Engine[T]) settleOrFail(state T) {
	if err := e.settle(state); err != nil {
		e.fail(err)
		return
	}
	e.logger.Debug("settled", "state", fmt.Sprintf("%+v", state))
}

// fail records an author error and returns to the pre-gesture state, so
// the surface keeps working.
func (e *Engine[T]) fail(err error) {
	tag := e.Mode()
	e.err = err
	e.logger.Warn("drag aborted", "mode", tag.String(), "error", err)
	e.metrics.diagnostic(tag)
	e.mode = &idleMode[T]{state: e.state}
	e.pending = nil
	if r, rerr := e.prepare(e.state, ""); rerr == nil {
		e.root, e.index, e.frame = r.root, r.index, r.hoisted
	}
	e.emit(Event{Kind: EventDiagnostic, Mode: ModeIdle, State: e.state, Err: err})
}

// begin evaluates a drag spec against start and enters the matching mode.
func (e *Engine[T]) begin(start T, g grab, pointer r2.Vec, spec any, depth int) {
	switch s := spec.(type) {
	case nil:
		return
	case ManifoldsSpec[T]:
		e.beginManifolds(start, g, pointer, s, depth)
	case ParamsSpec[T]:
		e.beginParams(start, g, s)
	case ParamPathsSpec[T]:
		ps, err := paramPathsSpec(start, s)
		if err != nil {
			e.fail(err)
			return
		}
		e.beginParams(start, g, ps)
	case DetachReattachSpec[T]:
		e.beginDetach(start, g, pointer, s)
	default:
		e.fail(fmt.Errorf("%w: drag spec %T does not match the engine's state type", ErrForeignAnnotation, spec))
	}
}

// animateTo releases into an eased transition from the current frame to
// the render of next.
func (e *Engine[T]) animateTo(g grab, next T) {
	e.emit(Event{Kind: EventRelease, Mode: ModeAnimating, NodePath: g.path, State: next})
	if e.cfg.AnimationDuration <= 0 {
		e.settleOrFail(next)
		return
	}
	to, err := e.prepare(next, "")
	if err != nil {
		e.fail(err)
		return
	}
	e.mode = &animatingMode[T]{
		tr:   newTransition(e.frame, to.hoisted, e.cfg.AnimationDuration, ease.OutElastic),
		from: e.state,
		next: next,
	}
}

type moveVisitor[T any] struct {
	e   *Engine[T]
	pos r2.Vec
}

func (v moveVisitor[T]) idle(*idleMode[T]) {}
func (v moveVisitor[T]) dragging(m *draggingMode[T]) { v.e.moveDragging(m, v.pos) }
func (v moveVisitor[T]) params(m *paramsMode[T]) { v.e.moveParams(m, v.pos) }
func (v moveVisitor[T]) detach(m *detachMode[T]) { v.e.moveDetach(m, v.pos) }
func (v moveVisitor[T]) animating(*animatingMode[T]) {}

type upVisitor[T any] struct{ e *Engine[T] }

func (v upVisitor[T]) idle(*idleMode[T]) {}
func (v upVisitor[T]) dragging(m *draggingMode[T]) { v.e.animateTo(m.grab, m.target) }
func (v upVisitor[T]) params(m *paramsMode[T]) {
	v.e.emit(Event{Kind: EventRelease, Mode: ModeIdle, NodePath: m.path, State: m.current})
	v.e.settleOrFail(m.current)
}
func (v upVisitor[T]) detach(m *detachMode[T]) { v.e.animateTo(m.grab, m.resolved()) }
func (v upVisitor[T]) animating(*animatingMode[T]) {}

type updateVisitor[T any] struct {
	e  *Engine[T]
	dt float64
}

func (v updateVisitor[T]) idle(*idleMode[T]) {}
func (v updateVisitor[T]) dragging(*draggingMode[T]) {}
func (v updateVisitor[T]) params(*paramsMode[T]) {}
func (v updateVisitor[T]) detach(m *detachMode[T]) { v.e.stepDetach(m, v.dt) }
func (v updateVisitor[T]) animating(m *animatingMode[T]) {
	frame, err := m.tr.Update(v.dt)
	if err != nil {
		v.e.fail(withStates(err, m.from, m.next))
		return
	}
	v.e.frame = frame
	if m.tr.Done {
		v.e.settleOrFail(m.next)
	}
}

// Surface is the state-independent view of an Engine that hosts drive.
type Surface interface {
	Frame() *Hoisted
	Mode() Mode
	Err() error
	PointerDownAt(pos r2.Vec)
	PointerMove(pos r2.Vec)
	PointerUp(pos r2.Vec)
	PointerCancel()
	Update(dt float64)
	SetPaused(paused bool)
	Paused() bool
	SetDebugMode(enabled bool)
	OnChange(fn func()) (remove func())
}

var _ Surface = (*Engine[struct{}])(nil)
