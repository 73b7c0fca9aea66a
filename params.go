package dragon

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phanxgames/dragon/internal/minimize"
)

// paramPathsSpec resolves a param-paths spec against start: the initial
// parameters are the current values at the paths, and the inverse writes
// parameters back into a copy of start.
func paramPathsSpec[T any](start T, s ParamPathsSpec[T]) (ParamsSpec[T], error) {
	paths := append([]string(nil), s.Paths...)
	initial := make([]float64, len(paths))
	for i, p := range paths {
		v, err := getParam(start, p)
		if err != nil {
			return ParamsSpec[T]{}, err
		}
		initial[i] = v
	}
	if _, err := withParams(start, paths, initial); err != nil {
		return ParamsSpec[T]{}, err
	}
	return ParamsSpec[T]{
		Initial: initial,
		Inverse: func(x []float64) T {
			st, err := withParams(start, paths, x)
			if err != nil {
				return start
			}
			return st
		},
	}, nil
}

func (e *Engine[T]) beginParams(start T, g grab, s ParamsSpec[T]) {
	if s.Inverse == nil {
		e.fail(errors.New("dragon: params drag spec has no inverse function"))
		return
	}
	r, err := e.prepare(start, g.id)
	if err != nil {
		e.fail(err)
		return
	}
	e.frame = r.hoisted
	e.mode = &paramsMode[T]{
		grab:    g,
		start:   start,
		params:  append([]float64(nil), s.Initial...),
		inverse: s.Inverse,
		current: start,
	}
	e.metrics.gesture("params")
	e.emit(Event{Kind: EventDragStart, Mode: ModeDraggingParams, NodePath: g.path, State: start})
	e.logger.Debug("drag start", "kind", "params", "path", g.path, "params", len(s.Initial))
}

// moveParams finds the parameters that put the grab point closest to the
// pointer, starting from the previous solution. Renders that fail count as
// infinitely far; the error is only reported if nothing rendered at all.
func (e *Engine[T]) moveParams(m *paramsMode[T], pointer r2.Vec) {
	var firstErr error
	objective := func(x []float64) float64 {
		r, err := e.prepare(m.inverse(x), m.id)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return math.Inf(1)
		}
		n := r.index.Lookup(m.path)
		if n == nil {
			if firstErr == nil {
				firstErr = &MissingNodeError{Path: m.path, From: m.start, State: m.inverse(x), Tree: r.root}
			}
			return math.Inf(1)
		}
		d := r2.Sub(n.LocalToWorld(m.offset), pointer)
		return r2.Dot(d, d)
	}
	res := minimize.Solve(objective, m.params, minimize.Settings{MaxIterations: e.cfg.SolverIterations})
	e.metrics.solve(res.Evaluations)
	if math.IsInf(res.F, 1) && firstErr != nil {
		e.fail(firstErr)
		return
	}

	m.params = res.X
	m.current = m.inverse(res.X)
	r, err := e.prepare(m.current, m.id)
	if err != nil {
		e.fail(fmt.Errorf("dragon: rendering solved parameters: %w", err))
		return
	}
	e.frame = r.hoisted
}
