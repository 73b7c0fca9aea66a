package dragon

import "gonum.org/v1/gonum/spatial/r2"

// Mode tags the engine's interaction state, for debug overlays and tests.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeDraggingParams
	ModeDetachReattach
	ModeAnimating
)

var modeNames = [...]string{"idle", "dragging", "dragging-params", "detach-reattach", "animating"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "mode?"
}

// mode is the engine's interaction state. Consumers dispatch through
// modeVisitor, so adding a mode breaks every site that fails to handle it.
type mode[T any] interface {
	accept(v modeVisitor[T])
}

type modeVisitor[T any] interface {
	idle(m *idleMode[T])
	dragging(m *draggingMode[T])
	params(m *paramsMode[T])
	detach(m *detachMode[T])
	animating(m *animatingMode[T])
}

// grab identifies the dragged node and where on it the pointer went down.
type grab struct {
	path   string
	id     string
	offset r2.Vec // pointer position in the node's local space
}

type idleMode[T any] struct {
	state T
}

type draggingMode[T any] struct {
	grab
	start     T
	manifolds []*manifold[T]
	target    T // state the gesture resolves to if released now
	depth     int
}

type paramsMode[T any] struct {
	grab
	start   T
	params  []float64
	inverse func([]float64) T
	current T
}

type detachMode[T any] struct {
	grab
	start        T
	startPointer r2.Vec
	dragged      *Hoisted
	detached     *Hoisted
	candidates   []candidate[T]
	positions    []r2.Vec // candidate grab points, parallel to candidates
	captured     int      // index into candidates, -1 when detached
	bg           *springBackground
}

type animatingMode[T any] struct {
	tr   *transition
	from T // resting state the gesture released from
	next T
}

func (m *idleMode[T]) accept(v modeVisitor[T])      { v.idle(m) }
func (m *draggingMode[T]) accept(v modeVisitor[T])  { v.dragging(m) }
func (m *paramsMode[T]) accept(v modeVisitor[T])    { v.params(m) }
func (m *detachMode[T]) accept(v modeVisitor[T])    { v.detach(m) }
func (m *animatingMode[T]) accept(v modeVisitor[T]) { v.animating(m) }

// tagVisitor reads the Mode tag.
type tagVisitor[T any] struct{ tag *Mode }

func (v tagVisitor[T]) idle(*idleMode[T])           { *v.tag = ModeIdle }
func (v tagVisitor[T]) dragging(*draggingMode[T])   { *v.tag = ModeDragging }
func (v tagVisitor[T]) params(*paramsMode[T])       { *v.tag = ModeDraggingParams }
func (v tagVisitor[T]) detach(*detachMode[T])       { *v.tag = ModeDetachReattach }
func (v tagVisitor[T]) animating(*animatingMode[T]) { *v.tag = ModeAnimating }

func modeOf[T any](m mode[T]) Mode {
	var tag Mode
	m.accept(tagVisitor[T]{tag: &tag})
	return tag
}
