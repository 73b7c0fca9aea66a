package dragon

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phanxgames/dragon/internal/geom"
)

// candidate is a state the detached node can be dropped into.
type candidate[T any] struct {
	state      T
	pos        r2.Vec   // where the grab point sits in this state
	background *Hoisted // the state's render without the dragged subtree
}

// resolved is the state a release lands on: the captured candidate, or
// the starting state when nothing is captured.
func (m *detachMode[T]) resolved() T {
	if m.captured >= 0 {
		return m.candidates[m.captured].state
	}
	return m.start
}

func (e *Engine[T]) beginDetach(start T, g grab, pointer r2.Vec, s DetachReattachSpec[T]) {
	if g.id == "" {
		e.fail(fmt.Errorf("%w (node %q)", ErrDetachWithoutID, g.path))
		return
	}
	cur, err := e.prepare(start, g.id)
	if err != nil {
		e.fail(err)
		return
	}
	if _, ok := cur.hoisted.Nodes[g.id]; !ok {
		e.fail(&MissingNodeError{Path: g.path, From: start, State: start, Tree: cur.root})
		return
	}
	det, err := e.prepare(s.Detached, g.id)
	if err != nil {
		e.fail(err)
		return
	}

	states := append([]T{start}, s.Candidates...)
	cands := make([]candidate[T], 0, len(states))
	for _, st := range states {
		r, err := e.prepare(st, g.id)
		if err != nil {
			e.fail(err)
			return
		}
		n := r.index.Lookup(g.path)
		if n == nil {
			e.fail(&MissingNodeError{Path: g.path, From: start, State: st, Tree: r.root})
			return
		}
		cands = append(cands, candidate[T]{
			state:      st,
			pos:        n.LocalToWorld(g.offset),
			background: r.hoisted.Without(g.id),
		})
	}

	positions := make([]r2.Vec, len(cands))
	for i, c := range cands {
		positions[i] = c.pos
	}
	m := &detachMode[T]{
		grab:         g,
		start:        start,
		startPointer: pointer,
		dragged:      cur.hoisted.Subtree(g.id),
		detached:     det.hoisted.Without(g.id),
		candidates:   cands,
		positions:    positions,
		captured:     0,
		bg:           newSpringBackground(cands[0].background, cands[0].state, e.cfg.SpringFrequency, e.cfg.SpringDamping),
	}
	e.mode = m
	e.metrics.gesture("detach")
	e.emit(Event{Kind: EventDragStart, Mode: ModeDetachReattach, NodePath: g.path, State: start})
	e.logger.Debug("drag start", "kind", "detach", "path", g.path, "candidates", len(cands))
	e.moveDetach(m, pointer)
}

// moveDetach picks the background target for pointer and composes the
// frame. The background itself only moves on Update.
func (e *Engine[T]) moveDetach(m *detachMode[T], pointer r2.Vec) {
	best, bestDist := geom.Nearest(m.positions, pointer)
	if bestDist > e.cfg.DetachCaptureRadius {
		best = -1
	}
	if best != m.captured {
		m.captured = best
		target := m.detached
		if best >= 0 {
			target = m.candidates[best].background
		}
		m.bg.retarget(target, m.resolved())
		e.logger.Debug("detach target", "path", m.path, "captured", best)
	}
	e.composeDetach(m, pointer)
}

func (e *Engine[T]) stepDetach(m *detachMode[T], dt float64) {
	if _, err := m.bg.step(dt); err != nil {
		e.fail(err)
		return
	}
	e.composeDetach(m, e.pointer)
}

// composeDetach draws the dragged subtree, following the pointer, over the
// current background.
func (e *Engine[T]) composeDetach(m *detachMode[T], pointer r2.Vec) {
	d := r2.Sub(pointer, m.startPointer)
	e.frame = m.bg.current.Merge(m.dragged.Translated(d.X, d.Y))
}
