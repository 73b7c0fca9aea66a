package dragon

import "github.com/charmbracelet/harmonica"

// springBackground animates the detach-reattach background between the two
// most recent targets with a damped harmonic oscillator. x runs from 0
// (prev) to 1 (next); retargeting restarts from whatever is on screen.
type springBackground struct {
	prev, next           *Hoisted
	prevState, nextState any // states prev and next were rendered from
	x, v                 float64
	freq                 float64
	damping              float64
	current              *Hoisted
}

func newSpringBackground(initial *Hoisted, state any, freq, damping float64) *springBackground {
	return &springBackground{
		prev: initial, next: initial,
		prevState: state, nextState: state,
		x: 1, freq: freq, damping: damping,
		current: initial,
	}
}

// retarget starts a transition from the displayed background to target,
// the background of state.
func (s *springBackground) retarget(target *Hoisted, state any) {
	s.prev, s.prevState = s.current, s.nextState
	s.next, s.nextState = target, state
	s.x, s.v = 0, 0
}

// step advances the oscillator by dt seconds and returns the blended
// background. Once the oscillator settles the background snaps onto the
// target and later steps return it unchanged.
func (s *springBackground) step(dt float64) (*Hoisted, error) {
	if dt > 0 {
		sp := harmonica.NewSpring(dt, s.freq, s.damping)
		s.x, s.v = sp.Update(s.x, s.v, 1)
		if s.settled() {
			s.prev, s.prevState = s.next, s.nextState
			s.x, s.v = 1, 0
		}
	}
	if s.prev == s.next {
		s.current = s.next
		return s.current, nil
	}
	h, err := LerpHoisted(s.prev, s.next, s.x)
	if err != nil {
		return nil, withStates(err, s.prevState, s.nextState)
	}
	s.current = h
	return h, nil
}

// settled reports whether the oscillator has come to rest on the target.
func (s *springBackground) settled() bool {
	const eps = 1e-3
	return s.x > 1-eps && s.x < 1+eps && s.v > -eps && s.v < eps
}
