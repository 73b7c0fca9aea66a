package dragon

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phanxgames/dragon/internal/geom"
)

// manifoldPoint is one reachable state, rendered with the dragged node
// located in it.
type manifoldPoint[T any] struct {
	state   T
	next    T
	hasNext bool
	frame   *Hoisted
	pos     r2.Vec          // grab point in world space
	cont    *DragAnnotation // dragged node's annotation in this render
}

// resting is the state the gesture ends at when it resolves to p.
func (p *manifoldPoint[T]) resting() T {
	if p.hasNext {
		return p.next
	}
	return p.state
}

type manifold[T any] struct {
	points []manifoldPoint[T]
	mesh   *geom.Mesh
}

func newManifold[T any](points []manifoldPoint[T]) *manifold[T] {
	pos := make([]r2.Vec, len(points))
	for i, p := range points {
		pos[i] = p.pos
	}
	return &manifold[T]{points: points, mesh: geom.NewMesh(pos)}
}

// point renders a target of a drag from start and locates the dragged node
// in it.
func (e *Engine[T]) point(start T, t Target[T], g grab) (manifoldPoint[T], error) {
	r, err := e.prepare(t.State, g.id)
	if err != nil {
		return manifoldPoint[T]{}, err
	}
	n := r.index.Lookup(g.path)
	if n == nil {
		return manifoldPoint[T]{}, &MissingNodeError{Path: g.path, From: start, State: t.State, Tree: r.root}
	}
	return manifoldPoint[T]{
		state:   t.State,
		next:    t.Next,
		hasNext: t.HasNext,
		frame:   r.hoisted,
		pos:     n.LocalToWorld(g.offset),
		cont:    n.drag,
	}, nil
}

// beginManifolds builds every manifold of spec around start and enters
// the dragging mode.
func (e *Engine[T]) beginManifolds(start T, g grab, pointer r2.Vec, spec ManifoldsSpec[T], depth int) {
	origin, err := e.point(start, To(start), g)
	if err != nil {
		e.fail(err)
		return
	}
	ms := make([]*manifold[T], 0, len(spec.Manifolds))
	for _, targets := range spec.Manifolds {
		points := []manifoldPoint[T]{origin}
		for _, t := range targets {
			if !t.HasNext && reflect.DeepEqual(t.State, start) {
				continue
			}
			p, err := e.point(start, t, g)
			if err != nil {
				e.fail(err)
				return
			}
			points = append(points, p)
		}
		e.metrics.manifold(len(points))
		ms = append(ms, newManifold(points))
	}
	if len(ms) == 0 {
		ms = append(ms, newManifold([]manifoldPoint[T]{origin}))
	}

	d := &draggingMode[T]{grab: g, start: start, manifolds: ms, target: start, depth: depth}
	e.mode = d
	if depth == 0 {
		e.metrics.gesture("manifolds")
		e.emit(Event{Kind: EventDragStart, Mode: ModeDragging, NodePath: g.path, State: start})
	}
	e.logger.Debug("drag start", "kind", "manifolds", "path", g.path, "manifolds", len(ms), "depth", depth)
	e.moveDragging(d, pointer)
}

// moveDragging projects the pointer onto the manifolds, then either snaps
// or shows the interpolated frame.
func (e *Engine[T]) moveDragging(d *draggingMode[T], pointer r2.Vec) {
	var (
		best     = geom.Projection{Dist: math.Inf(1)}
		bestM    *manifold[T]
		near     *manifoldPoint[T]
		nearDist = math.Inf(1)
	)
	for _, m := range d.manifolds {
		if pr := m.mesh.Project(pointer); pr.Dist < best.Dist || bestM == nil {
			best, bestM = pr, m
		}
		if i, dd := geom.Nearest(m.mesh.Points, pointer); i >= 0 && dd < nearDist {
			near, nearDist = &m.points[i], dd
		}
	}
	d.target = near.resting()

	if e.cfg.ChainDrags &&
		geom.Dist(best.Point, near.pos) <= e.cfg.SnapRadius &&
		!reflect.DeepEqual(near.state, d.start) {
		e.snap(d, near, pointer)
		return
	}

	frame, err := bestM.interpolate(best)
	if err != nil {
		e.fail(err)
		return
	}
	e.frame = frame
}

// snap commits to p. With a continuation spec the gesture carries on
// from p's state; otherwise it ends there.
func (e *Engine[T]) snap(d *draggingMode[T], p *manifoldPoint[T], pointer r2.Vec) {
	if p.cont != nil && !p.hasNext && d.depth < maxChainDepth {
		spec, err := p.cont.resolve(e.owner)
		if err != nil {
			e.fail(fmt.Errorf("%w (node %q)", err, d.path))
			return
		}
		if spec != nil {
			e.state = p.state
			e.metrics.snap(true)
			e.emit(Event{Kind: EventChain, Mode: ModeDragging, NodePath: d.path, State: p.state})
			e.logger.Debug("chain", "path", d.path, "depth", d.depth+1)
			e.begin(p.state, d.grab, pointer, spec, d.depth+1)
			return
		}
	}
	rest := p.resting()
	e.metrics.snap(false)
	e.emit(Event{Kind: EventSnap, Mode: ModeIdle, NodePath: d.path, State: rest})
	e.settleOrFail(rest)
}

// interpolate turns a projection into a frame.
func (m *manifold[T]) interpolate(pr geom.Projection) (*Hoisted, error) {
	p := m.points
	switch pr.Kind {
	case geom.KindVertex:
		return p[pr.Index[0]].frame, nil
	case geom.KindEdge:
		a, b := &p[pr.Index[0]], &p[pr.Index[1]]
		h, err := LerpHoisted(a.frame, b.frame, pr.Weights[1])
		return h, withStates(err, a.state, b.state)
	case geom.KindFace:
		a, b, c := &p[pr.Index[0]], &p[pr.Index[1]], &p[pr.Index[2]]
		h, bad, err := lerp3(a.frame, b.frame, c.frame, pr.Weights[0], pr.Weights[1], pr.Weights[2])
		if err != nil {
			to := b.state
			if bad == c.frame {
				to = c.state
			}
			return nil, withStates(err, a.state, to)
		}
		return h, nil
	}
	return nil, errors.New("dragon: projection onto an empty manifold")
}
