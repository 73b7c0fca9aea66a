// Package minimize wraps gonum's BFGS for the small, noisy objectives that
// come out of parametric dragging: a handful of parameters, no analytic
// gradient, and an objective that may turn non-finite far from the seed.
package minimize

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Default budgets, small enough to solve once per pointer move.
const (
	DefaultMaxIterations  = 100
	DefaultMaxEvaluations = 2000
	DefaultTolerance      = 1e-8
)

// Settings bounds a single Solve call. Zero fields take the defaults.
type Settings struct {
	MaxIterations  int
	MaxEvaluations int
	Tolerance      float64
}

func (s Settings) withDefaults() Settings {
	if s.MaxIterations <= 0 {
		s.MaxIterations = DefaultMaxIterations
	}
	if s.MaxEvaluations <= 0 {
		s.MaxEvaluations = DefaultMaxEvaluations
	}
	if s.Tolerance <= 0 {
		s.Tolerance = DefaultTolerance
	}
	return s
}

// Result is the best iterate found. Converged is false when the solver
// stopped on a budget, a failed line search, or non-finite values; X is
// still the best point evaluated.
type Result struct {
	X           []float64
	F           float64
	Iterations  int
	Evaluations int
	Converged   bool
}

// Solve minimizes f starting from x0 (warm start: pass the previous
// solution). It never fails; see Result.Converged.
func Solve(f func([]float64) float64, x0 []float64, s Settings) Result {
	s = s.withDefaults()

	best := Result{X: append([]float64(nil), x0...), F: math.Inf(1)}
	evals := 0
	objective := func(x []float64) float64 {
		evals++
		v := f(x)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.Inf(1)
		}
		if v < best.F {
			best.F = v
			copy(best.X, x)
		}
		return v
	}

	fx0 := objective(best.X)
	if len(x0) == 0 || math.IsInf(fx0, 1) {
		best.Evaluations = evals
		best.Converged = len(x0) == 0
		return best
	}

	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, x []float64) {
			Gradient(grad, objective, x)
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   s.MaxIterations,
		FuncEvaluations:   s.MaxEvaluations,
		GradientThreshold: s.Tolerance,
		Converger: &optimize.FunctionConverge{
			Absolute:   s.Tolerance * s.Tolerance,
			Iterations: 10,
		},
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.BFGS{})
	if result != nil {
		best.Iterations = result.Stats.MajorIterations
		if err == nil && result.Status.Err() == nil && result.F <= best.F {
			best.F = result.F
			copy(best.X, result.X)
		}
	}
	best.Evaluations = evals
	best.Converged = err == nil && result != nil && result.Status.Err() == nil
	return best
}

// Gradient fills grad with central-difference estimates of f's gradient at
// x. Each coordinate starts from a step scaled to its magnitude and halves
// it until two successive estimates agree, so coordinates of very
// different scale are each differentiated sensibly. Non-finite estimates
// are replaced by zero, which lets the caller's convergence test stop at
// the best point instead of walking into a bad region.
func Gradient(grad []float64, f func([]float64) float64, x []float64) {
	xs := append([]float64(nil), x...)
	for i := range xs {
		h := 1e-3 * math.Max(1, math.Abs(x[i]))
		prev := math.NaN()
		est := 0.0
		for k := 0; k < 8; k++ {
			xs[i] = x[i] + h
			fp := f(xs)
			xs[i] = x[i] - h
			fm := f(xs)
			xs[i] = x[i]

			cur := (fp - fm) / (2 * h)
			if math.IsNaN(cur) || math.IsInf(cur, 0) {
				break
			}
			est = cur
			if !math.IsNaN(prev) && math.Abs(cur-prev) <= 1e-3*math.Max(1, math.Abs(cur)) {
				break
			}
			prev = cur
			h /= 2
		}
		grad[i] = est
	}
	if math.IsNaN(floats.Norm(grad, 2)) {
		for i := range grad {
			grad[i] = 0
		}
	}
}
