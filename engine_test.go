package dragon

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/gonum/spatial/r2"
)

// --- Fixtures ---

func instantConfig() Config {
	cfg := DefaultConfig()
	cfg.AnimationDuration = 0
	return cfg
}

func noChainConfig() Config {
	cfg := instantConfig()
	cfg.ChainDrags = false
	return cfg
}

// toggle renders a knob at x=0 (off) or x=100 (on). When latch is set the
// knob can only be dragged while off.
func toggle(latch bool) Renderer[bool] {
	return func(on bool, rc *RenderContext[bool]) *Node {
		x := 0.0
		if on {
			x = 100
		}
		knob := Circle(0, 0, 10).Fill(RGB(1, 1, 1)).WithID("knob").Translate(x, 0)
		if !latch || !on {
			knob.Draggable(rc.Drag(func() DragSpec[bool] { return Along(!on) }))
		}
		return Group(Rect(-20, -20, 140, 40).Fill(RGB(0.5, 0.5, 0.5)), knob)
	}
}

type recorder struct {
	events []Event
}

func (r *recorder) EmitEvent(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) last() Event { return r.events[len(r.events)-1] }

func newTestEngine[T any](t *testing.T, initial T, render Renderer[T], cfg Config) (*Engine[T], *recorder) {
	t.Helper()
	rec := &recorder{}
	e, err := New(initial, render, WithConfig(cfg), WithEventSink(rec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, rec
}

func framePos(t *testing.T, e interface{ Frame() *Hoisted }, key string) r2.Vec {
	t.Helper()
	p, ok := e.Frame().Position(key, r2.Vec{})
	if !ok {
		t.Fatalf("entry %q missing from frame", key)
	}
	return p
}

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

func checkMode[T any](t *testing.T, e *Engine[T], want Mode) {
	t.Helper()
	if got := e.Mode(); got != want {
		t.Fatalf("mode = %v, want %v", got, want)
	}
}

func checkState[T comparable](t *testing.T, e *Engine[T], want T) {
	t.Helper()
	if got := e.State(); got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
}

func checkX(t *testing.T, e interface{ Frame() *Hoisted }, key string, want, tol float64) {
	t.Helper()
	if x := framePos(t, e, key).X; math.Abs(x-want) > tol {
		t.Errorf("%s x = %g, want %g", key, x, want)
	}
}

func checkKinds(t *testing.T, rec *recorder, want ...EventKind) {
	t.Helper()
	if got := rec.kinds(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func checkNoErr[T any](t *testing.T, e *Engine[T]) {
	t.Helper()
	if err := e.Err(); err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}
}

// --- Construction ---

func TestNewErrors(t *testing.T) {
	if _, err := New[bool](false, nil); !errors.Is(err, ErrNilRenderer) {
		t.Errorf("nil renderer: err = %v", err)
	}

	bad := DefaultConfig()
	bad.SnapRadius = -1
	if _, err := New(false, toggle(false), WithConfig(bad)); err == nil {
		t.Error("negative snap radius should be rejected")
	}

	if _, err := New(false, func(bool, *RenderContext[bool]) *Node { return nil }); err == nil {
		t.Error("a nil render should be rejected")
	}

	_, err := New(false, func(bool, *RenderContext[bool]) *Node {
		return Group(Rect(0, 0, 1, 1).WithID("x"), Rect(0, 0, 1, 1).WithID("x"))
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate ids: err = %v", err)
	}
}

func TestNewRendersInitialState(t *testing.T) {
	e, rec := newTestEngine(t, true, toggle(false), instantConfig())
	checkMode(t, e, ModeIdle)
	checkState(t, e, true)
	if e.Tree() == nil {
		t.Error("Tree() is nil after New")
	}
	checkX(t, e, "knob", 100, 1e-9)
	checkKinds(t, rec, EventSettle)
}

// --- Manifold drags ---

func TestToggleLatchSettlesInOneStep(t *testing.T) {
	e, rec := newTestEngine(t, false, toggle(true), instantConfig())

	e.PointerDownAt(vec(0, 0))
	checkMode(t, e, ModeDragging)

	e.PointerMove(vec(100, 0))
	// Reaching a state with no continuation ends the gesture.
	checkMode(t, e, ModeIdle)
	checkState(t, e, true)
	checkNoErr(t, e)
	checkKinds(t, rec, EventSettle, EventDragStart, EventSnap, EventSettle)

	// Further moves and the release are no-ops.
	e.PointerMove(vec(0, 0))
	e.PointerUp(vec(0, 0))
	checkState(t, e, true)
	if len(rec.events) != 4 {
		t.Errorf("got %d events after the gesture ended, want 4", len(rec.events))
	}
}

func TestToggleChainsBothWays(t *testing.T) {
	e, rec := newTestEngine(t, false, toggle(false), instantConfig())

	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(100, 0))
	// A snap with a continuation keeps dragging.
	checkMode(t, e, ModeDragging)
	checkState(t, e, true)

	e.PointerMove(vec(0, 0))
	checkMode(t, e, ModeDragging)
	checkState(t, e, false)

	e.PointerUp(vec(0, 0))
	checkMode(t, e, ModeIdle)
	checkState(t, e, false)
	checkKinds(t, rec, EventSettle, EventDragStart, EventChain, EventChain, EventRelease, EventSettle)
	if p := rec.events[1].NodePath; p != "knob/" {
		t.Errorf("drag start path = %q, want knob/", p)
	}
}

func TestChainDepthIsBounded(t *testing.T) {
	e, _ := newTestEngine(t, false, toggle(false), instantConfig())
	e.PointerDownAt(vec(0, 0))
	for i := 1; i <= maxChainDepth; i++ {
		e.PointerMove(vec(float64(i%2)*100, 0))
		if e.Mode() != ModeDragging {
			t.Fatalf("move %d: mode = %v", i, e.Mode())
		}
	}
	e.PointerMove(vec(100, 0))
	// The snap past the chain limit ends the gesture.
	checkMode(t, e, ModeIdle)
	checkState(t, e, true)
}

func TestDragInterpolatesBetweenStates(t *testing.T) {
	e, _ := newTestEngine(t, false, toggle(false), noChainConfig())
	e.PointerDownAt(vec(0, 0))

	e.PointerMove(vec(50, 0))
	checkX(t, e, "knob", 50, 1e-9)

	// Off-manifold pointers project onto it.
	e.PointerMove(vec(25, 40))
	if p := framePos(t, e, "knob"); math.Abs(p.X-25) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Errorf("knob = %v, want (25, 0)", p)
	}

	// Without chaining, reaching the far state does not end the drag.
	e.PointerMove(vec(100, 0))
	checkMode(t, e, ModeDragging)
	checkState(t, e, false)

	e.PointerUp(vec(60, 0))
	checkState(t, e, true) // release resolves to the nearest state
}

func TestReleaseAnimates(t *testing.T) {
	cfg := noChainConfig()
	cfg.AnimationDuration = 0.4
	e, rec := newTestEngine(t, false, toggle(false), cfg)

	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(70, 0))
	e.PointerUp(vec(70, 0))
	checkMode(t, e, ModeAnimating)
	checkState(t, e, false) // state changes when the animation lands
	if err := e.SetState(true); !errors.Is(err, ErrBusy) {
		t.Errorf("SetState while animating: err = %v, want ErrBusy", err)
	}

	// Input is ignored while animating.
	e.PointerDownAt(vec(70, 0))
	checkMode(t, e, ModeAnimating)

	e.Update(0.1)
	checkMode(t, e, ModeAnimating)
	e.Update(0.5)
	checkMode(t, e, ModeIdle)
	checkState(t, e, true)
	checkX(t, e, "knob", 100, 1e-9)
	if k := rec.events[len(rec.events)-2].Kind; k != EventRelease {
		t.Errorf("second to last event = %v, want release", k)
	}
}

func TestRenderContextDraggedID(t *testing.T) {
	var seen []string
	base := toggle(false)
	render := func(on bool, rc *RenderContext[bool]) *Node {
		seen = append(seen, rc.DraggedID)
		return base(on, rc)
	}
	e, _ := newTestEngine(t, false, render, noChainConfig())
	seen = nil
	e.PointerDownAt(vec(0, 0))
	if len(seen) == 0 {
		t.Fatal("starting a drag rendered nothing")
	}
	for _, id := range seen {
		if id != "knob" {
			t.Errorf("DraggedID = %q during a drag of knob", id)
		}
	}
}

func TestAndThenRestsAtNext(t *testing.T) {
	render := func(on bool, rc *RenderContext[bool]) *Node {
		x := 0.0
		if on {
			x = 100
		}
		knob := Circle(0, 0, 10).WithID("knob").Translate(x, 0)
		knob.Draggable(rc.Drag(func() DragSpec[bool] {
			return Manifolds(Manifold(AndThen(true, false)))
		}))
		return Group(knob)
	}
	e, rec := newTestEngine(t, false, render, instantConfig())
	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(100, 0))
	checkMode(t, e, ModeIdle)
	checkState(t, e, false)
	snap := rec.events[len(rec.events)-2]
	if snap.Kind != EventSnap || snap.State != false {
		t.Errorf("snap event = %+v, want a snap to false", snap)
	}
}

// bead renders a dot at 50*s along a line, draggable to every state in
// states.
func bead(states ...int) Renderer[int] {
	return func(s int, rc *RenderContext[int]) *Node {
		dot := Circle(0, 0, 5).WithID("bead").Translate(50*float64(s), 0)
		dot.Draggable(rc.Drag(func() DragSpec[int] { return Along(states...) }))
		return Group(dot)
	}
}

func TestCollinearManifold(t *testing.T) {
	e, _ := newTestEngine(t, 0, bead(0, 1, 2), noChainConfig())
	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(75, 10))
	checkNoErr(t, e)
	checkX(t, e, "bead", 75, 1e-9)

	e.PointerMove(vec(300, 0))
	checkX(t, e, "bead", 100, 1e-9)
	e.PointerUp(vec(300, 0))
	checkState(t, e, 2)
}

func TestSingleStateManifold(t *testing.T) {
	e, _ := newTestEngine(t, 0, bead(), noChainConfig())
	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(40, 40))
	checkNoErr(t, e)
	checkMode(t, e, ModeDragging)
	checkX(t, e, "bead", 0, 1e-9)
	e.PointerUp(vec(40, 40))
	checkState(t, e, 0)
}

type cell struct{ X, Y int }

func TestTwoDimensionalManifold(t *testing.T) {
	render := func(c cell, rc *RenderContext[cell]) *Node {
		dot := Circle(0, 0, 5).WithID("dot").Translate(100*float64(c.X), 100*float64(c.Y))
		dot.Draggable(rc.Drag(func() DragSpec[cell] {
			return Along(cell{0, 0}, cell{1, 0}, cell{0, 1}, cell{1, 1})
		}))
		return Group(dot)
	}
	e, _ := newTestEngine(t, cell{}, render, noChainConfig())
	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(25, 60))
	checkNoErr(t, e)
	if p := framePos(t, e, "dot"); math.Abs(p.X-25) > 1e-6 || math.Abs(p.Y-60) > 1e-6 {
		t.Errorf("dot = %v, want (25, 60)", p)
	}

	e.PointerMove(vec(90, 80))
	e.PointerUp(vec(90, 80))
	checkState(t, e, cell{1, 1})
}

func TestUnionOfManifolds(t *testing.T) {
	// Two separate 1D tracks from the origin: along x and along y.
	render := func(c cell, rc *RenderContext[cell]) *Node {
		dot := Circle(0, 0, 5).WithID("dot").Translate(100*float64(c.X), 100*float64(c.Y))
		dot.Draggable(rc.Drag(func() DragSpec[cell] {
			return Union(Along(cell{1, 0}), Along(cell{0, 1}))
		}))
		return Group(dot)
	}
	e, _ := newTestEngine(t, cell{}, render, noChainConfig())
	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(50, 50))
	p := framePos(t, e, "dot")
	if p.X != 0 && p.Y != 0 {
		t.Errorf("the frame should stay on one track, got %v", p)
	}
	if math.Abs(p.X+p.Y-50) > 1e-9 {
		t.Errorf("dot = %v, want 50 along one track", p)
	}
}

// --- Parametric drags ---

type slider struct {
	X float64 `dragon:"x"`
}

func sliderRender(spec func(s slider, rc *RenderContext[slider]) DragSpec[slider]) Renderer[slider] {
	return func(s slider, rc *RenderContext[slider]) *Node {
		h := Circle(0, 0, 5).WithID("handle").Translate(s.X, 0)
		h.Draggable(rc.Drag(func() DragSpec[slider] { return spec(s, rc) }))
		return Group(h)
	}
}

func TestParamPathsDrag(t *testing.T) {
	render := sliderRender(func(_ slider, rc *RenderContext[slider]) DragSpec[slider] {
		return rc.ParamPaths("x")
	})
	e, rec := newTestEngine(t, slider{}, render, instantConfig())
	e.PointerDownAt(vec(0, 0))
	checkMode(t, e, ModeDraggingParams)

	e.PointerMove(vec(40, 5))
	checkNoErr(t, e)
	checkX(t, e, "handle", 40, 1e-3)

	e.PointerMove(vec(-30, 0))
	checkX(t, e, "handle", -30, 1e-3)

	e.PointerUp(vec(-30, 0))
	checkMode(t, e, ModeIdle)
	if x := e.State().X; math.Abs(x+30) > 1e-3 {
		t.Errorf("state x = %g, want -30", x)
	}
	checkKinds(t, rec, EventSettle, EventDragStart, EventRelease, EventSettle)
}

func TestParamsBestEffort(t *testing.T) {
	clamp := func(p []float64) slider { return slider{X: math.Max(0, math.Min(50, p[0]))} }
	render := sliderRender(func(s slider, _ *RenderContext[slider]) DragSpec[slider] {
		return Params([]float64{s.X}, clamp)
	})
	e, _ := newTestEngine(t, slider{}, render, instantConfig())
	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(100, 0))
	checkNoErr(t, e)
	checkX(t, e, "handle", 50, 1e-9)
	e.PointerUp(vec(100, 0))
	if x := e.State().X; math.Abs(x-50) > 1e-9 {
		t.Errorf("state x = %g, want 50", x)
	}
}

func TestParamPathsUnreachable(t *testing.T) {
	render := sliderRender(func(_ slider, rc *RenderContext[slider]) DragSpec[slider] {
		return rc.ParamPaths("y")
	})
	e, rec := newTestEngine(t, slider{X: 3}, render, instantConfig())
	e.PointerDownAt(vec(3, 0))
	if err := e.Err(); !errors.Is(err, ErrBadParamPath) {
		t.Errorf("err = %v, want ErrBadParamPath", err)
	}
	checkMode(t, e, ModeIdle)
	checkState(t, e, slider{X: 3})
	if k := rec.last().Kind; k != EventDiagnostic {
		t.Errorf("last event = %v, want diagnostic", k)
	}
}

func TestParamsWithoutInverse(t *testing.T) {
	render := sliderRender(func(s slider, _ *RenderContext[slider]) DragSpec[slider] {
		return ParamsSpec[slider]{Initial: []float64{s.X}}
	})
	e, _ := newTestEngine(t, slider{}, render, instantConfig())
	e.PointerDownAt(vec(0, 0))
	if e.Err() == nil {
		t.Error("params without an inverse should be reported")
	}
	checkMode(t, e, ModeIdle)
}

// --- Detach-reattach ---

// slots renders an item at x = 100*slot on a rail. Slot -1 is the lifted
// state.
func slots(withID bool, candidates ...int) Renderer[int] {
	return func(slot int, rc *RenderContext[int]) *Node {
		x := 100 * float64(slot)
		if slot < 0 {
			x = 0
		}
		item := Rect(-5, -5, 10, 10).Fill(RGB(1, 0, 0)).Translate(x, 0)
		if withID {
			item.WithID("item")
		}
		item.Draggable(rc.Drag(func() DragSpec[int] {
			var others []int
			for _, c := range candidates {
				if c != slot {
					others = append(others, c)
				}
			}
			return DetachReattach(-1, others...)
		}))
		return Group(Rect(-10, -20, 230, 10).Fill(RGB(0, 0, 0)), item)
	}
}

func TestDetachReattachMovesItem(t *testing.T) {
	e, rec := newTestEngine(t, 0, slots(true, 0, 1, 2), instantConfig())
	e.PointerDownAt(vec(0, 0))
	checkMode(t, e, ModeDetachReattach)

	e.PointerMove(vec(195, 3))
	if p := framePos(t, e, "item"); math.Abs(p.X-195) > 1e-9 || math.Abs(p.Y-3) > 1e-9 {
		t.Errorf("item = %v, want it to follow the pointer to (195, 3)", p)
	}

	for i := 0; i < 30; i++ {
		e.Update(1.0 / 60)
	}
	checkNoErr(t, e)

	e.PointerUp(vec(195, 3))
	checkMode(t, e, ModeIdle)
	checkState(t, e, 2)
	checkKinds(t, rec, EventSettle, EventDragStart, EventRelease, EventSettle)
}

func TestDetachWithNoCandidatesReturnsToStart(t *testing.T) {
	e, _ := newTestEngine(t, 1, slots(true), instantConfig())
	e.PointerDownAt(vec(100, 0))
	checkMode(t, e, ModeDetachReattach)

	e.PointerMove(vec(500, 500))
	e.Update(1.0 / 60)
	checkNoErr(t, e)

	e.PointerUp(vec(500, 500))
	checkNoErr(t, e)
	checkMode(t, e, ModeIdle)
	checkState(t, e, 1)
}

func TestDetachNeedsID(t *testing.T) {
	e, _ := newTestEngine(t, 0, slots(false, 0, 1), instantConfig())
	e.PointerDownAt(vec(0, 0))
	if err := e.Err(); !errors.Is(err, ErrDetachWithoutID) {
		t.Errorf("err = %v, want ErrDetachWithoutID", err)
	}
	checkMode(t, e, ModeIdle)
}

// --- Diagnostics ---

func TestForeignAnnotation(t *testing.T) {
	var stolen *DragAnnotation
	_, err := New(false, func(on bool, rc *RenderContext[bool]) *Node {
		stolen = rc.Drag(func() DragSpec[bool] { return Along(!on) })
		return Group(Circle(0, 0, 10).WithID("knob").Draggable(stolen))
	})
	if err != nil {
		t.Fatal(err)
	}

	for name, ann := range map[string]*DragAnnotation{"other engine": stolen, "zero value": {}} {
		t.Run(name, func(t *testing.T) {
			e, rec := newTestEngine(t, false, func(bool, *RenderContext[bool]) *Node {
				return Group(Circle(0, 0, 10).WithID("knob").Draggable(ann))
			}, instantConfig())
			e.PointerDownAt(vec(0, 0))
			if err := e.Err(); !errors.Is(err, ErrForeignAnnotation) {
				t.Errorf("err = %v, want ErrForeignAnnotation", err)
			}
			checkMode(t, e, ModeIdle)
			if k := rec.last().Kind; k != EventDiagnostic {
				t.Errorf("last event = %v, want diagnostic", k)
			}
		})
	}
}

func TestMissingNodeInTarget(t *testing.T) {
	var logs bytes.Buffer
	render := func(on bool, rc *RenderContext[bool]) *Node {
		if on {
			return Group(Rect(0, 0, 1, 1))
		}
		knob := Circle(0, 0, 10).WithID("knob")
		knob.Draggable(rc.Drag(func() DragSpec[bool] { return Along(true) }))
		return Group(knob)
	}
	e, err := New(false, render,
		WithConfig(instantConfig()),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	if err != nil {
		t.Fatal(err)
	}

	e.PointerDownAt(vec(0, 0))
	var mn *MissingNodeError
	if !errors.As(e.Err(), &mn) {
		t.Fatalf("err = %v, want a MissingNodeError", e.Err())
	}
	if mn.Path != "knob/" || mn.From != false || mn.State != true {
		t.Errorf("MissingNodeError = {Path: %q, From: %v, State: %v}, want knob/ from false to true",
			mn.Path, mn.From, mn.State)
	}
	if msg := mn.Error(); !strings.Contains(msg, "state true") || !strings.Contains(msg, "dragged from false") {
		t.Errorf("message should name both states:\n%s", msg)
	}
	checkMode(t, e, ModeIdle)
	checkState(t, e, false)
	if !strings.Contains(logs.String(), "drag aborted") {
		t.Errorf("log does not mention the abort:\n%s", logs.String())
	}

	// The engine keeps working after a diagnostic.
	if err := e.SetState(false); err != nil {
		t.Errorf("SetState after a diagnostic: %v", err)
	}
}

func TestIncongruentTargetAbortsDrag(t *testing.T) {
	render := func(on bool, rc *RenderContext[bool]) *Node {
		var knob *Node
		if on {
			knob = Rect(-10, -10, 20, 20).WithID("knob").Translate(100, 0)
		} else {
			knob = Circle(0, 0, 10).WithID("knob")
		}
		knob.Draggable(rc.Drag(func() DragSpec[bool] { return Along(!on) }))
		return Group(knob)
	}
	e, _ := newTestEngine(t, false, render, noChainConfig())
	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(50, 0))
	if err := e.Err(); !errors.Is(err, ErrNotCongruent) {
		t.Fatalf("err = %v, want ErrNotCongruent", err)
	}
	var se *StructureError
	if !errors.As(e.Err(), &se) {
		t.Fatalf("err = %v, want a StructureError", e.Err())
	}
	if se.From != false || se.To != true {
		t.Errorf("StructureError states = %v -> %v, want false -> true", se.From, se.To)
	}
	if msg := se.Error(); !strings.Contains(msg, "from state: false") || !strings.Contains(msg, "to state:   true") {
		t.Errorf("message should dump both states:\n%s", msg)
	}
	checkMode(t, e, ModeIdle)

	// The next gesture clears the error.
	e.PointerDownAt(vec(0, 0))
	checkNoErr(t, e)
}

// --- Surface behavior ---

func TestPauseIgnoresInput(t *testing.T) {
	e, _ := newTestEngine(t, false, toggle(false), noChainConfig())
	e.SetPaused(true)
	if !e.Paused() {
		t.Fatal("Paused() = false after SetPaused(true)")
	}
	e.PointerDownAt(vec(0, 0))
	checkMode(t, e, ModeIdle)

	e.SetPaused(false)
	e.PointerDownAt(vec(0, 0))
	checkMode(t, e, ModeDragging)

	e.SetPaused(true)
	e.PointerMove(vec(80, 0))
	checkX(t, e, "knob", 0, 1e-9) // moves while paused are dropped
}

func TestPauseDefersRelease(t *testing.T) {
	e, rec := newTestEngine(t, false, toggle(false), noChainConfig())
	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(70, 0))

	e.SetPaused(true)
	e.PointerUp(vec(70, 0))
	checkMode(t, e, ModeDragging) // the release waits for the unpause
	checkState(t, e, false)

	e.SetPaused(false)
	checkMode(t, e, ModeIdle)
	checkState(t, e, true)
	checkKinds(t, rec, EventSettle, EventDragStart, EventRelease, EventSettle)

	// A held release is applied once only.
	e.SetPaused(true)
	e.SetPaused(false)
	if len(rec.events) != 4 {
		t.Errorf("got %d events after a second unpause, want 4", len(rec.events))
	}
}

func TestPointerCancelReleasesAtLastPosition(t *testing.T) {
	e, _ := newTestEngine(t, false, toggle(false), noChainConfig())
	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(70, 0))
	e.PointerCancel()
	checkMode(t, e, ModeIdle)
	checkState(t, e, true)
}

func TestPointerDownOffTarget(t *testing.T) {
	e, rec := newTestEngine(t, false, toggle(false), instantConfig())
	e.PointerDownAt(vec(60, 10)) // on the track, which is not draggable
	e.PointerDownAt(vec(500, 500))
	e.PointerDown(vec(0, 0), "no/such/path/")
	checkMode(t, e, ModeIdle)
	if len(rec.events) != 1 {
		t.Errorf("got %d events, want only the initial settle", len(rec.events))
	}
}

func TestOnChange(t *testing.T) {
	e, _ := newTestEngine(t, false, toggle(false), noChainConfig())
	calls := 0
	remove := e.OnChange(func() { calls++ })
	other := 0
	e.OnChange(func() { other++ })

	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(10, 0))
	if calls != 2 {
		t.Errorf("calls = %d after down and move, want 2", calls)
	}

	remove()
	e.PointerUp(vec(10, 0))
	if calls != 2 || other != 3 {
		t.Errorf("after remove: calls = %d, other = %d; want 2 and 3", calls, other)
	}

	// Idle moves do not notify.
	e.PointerMove(vec(20, 0))
	if other != 3 {
		t.Errorf("idle move notified: other = %d", other)
	}
}

func TestSetState(t *testing.T) {
	e, rec := newTestEngine(t, false, toggle(false), instantConfig())
	if err := e.SetState(true); err != nil {
		t.Fatal(err)
	}
	checkState(t, e, true)
	checkX(t, e, "knob", 100, 1e-9)
	if k := rec.last().Kind; k != EventSettle {
		t.Errorf("last event = %v, want settle", k)
	}
}

func TestRendererSetState(t *testing.T) {
	var renders int
	render := func(s int, rc *RenderContext[int]) *Node {
		renders++
		if s > 5 {
			rc.SetState(5)
		}
		dot := Circle(0, 0, 5).WithID("bead").Translate(50*float64(s), 0)
		dot.Draggable(rc.Drag(func() DragSpec[int] { return Along(s + 10) }))
		return Group(dot)
	}
	e, _ := newTestEngine(t, 9, render, noChainConfig())
	checkState(t, e, 5) // a settle render may replace the state

	if err := e.SetState(7); err != nil {
		t.Fatal(err)
	}
	checkState(t, e, 5)

	// Requests made while rendering drag targets are ignored.
	e.PointerDownAt(vec(250, 0))
	checkMode(t, e, ModeDragging)
	checkState(t, e, 5)
	if renders <= 4 {
		t.Errorf("renders = %d, want more than 4", renders)
	}
}

func TestRendererSetStateLoopIsBounded(t *testing.T) {
	render := func(s int, rc *RenderContext[int]) *Node {
		rc.SetState(s + 1)
		return Group(Circle(0, 0, 1))
	}
	e, err := New(0, render)
	if err != nil {
		t.Fatal(err)
	}
	checkState(t, e, maxPendingStates)
}

func TestEngineMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	e, err := New(false, toggle(false), WithConfig(instantConfig()), WithMetrics(m))
	if err != nil {
		t.Fatal(err)
	}

	e.PointerDownAt(vec(0, 0))
	e.PointerMove(vec(100, 0))
	e.PointerUp(vec(100, 0))

	if v := testutil.ToFloat64(m.gestures.WithLabelValues("manifolds")); v != 1 {
		t.Errorf("manifold gestures = %g, want 1", v)
	}
	if v := testutil.ToFloat64(m.chains); v != 1 {
		t.Errorf("chains = %g, want 1", v)
	}
	if v := testutil.ToFloat64(m.snaps); v != 1 {
		t.Errorf("snaps = %g, want 1", v)
	}
}

func TestEventStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{EventDragStart.String(), "drag-start"},
		{EventDiagnostic.String(), "diagnostic"},
		{EventKind(99).String(), "event?"},
		{ModeDraggingParams.String(), "dragging-params"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestEventSinkFunc(t *testing.T) {
	var got []EventKind
	sink := EventSinkFunc(func(e Event) { got = append(got, e.Kind) })
	if _, err := New(false, toggle(false), WithEventSink(sink)); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []EventKind{EventSettle}) {
		t.Errorf("events = %v, want [settle]", got)
	}
}
