package dragon

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// transition eases one hoisted frame into another. Progress comes from a
// gween tween running 0 → 1; elastic easing overshoots past 1, which Lerp
// extrapolates.
//
// There is no global animation manager; the engine calls Update from its
// own Update.
type transition struct {
	tween    *gween.Tween
	from, to *Hoisted
	Done     bool
}

func newTransition(from, to *Hoisted, duration float64, fn ease.TweenFunc) *transition {
	return &transition{
		tween: gween.New(0, 1, float32(duration), fn),
		from:  from,
		to:    to,
	}
}

// Update advances the tween by dt seconds and returns the frame to show.
// The final frame is exactly the target.
func (tr *transition) Update(dt float64) (*Hoisted, error) {
	if tr.Done {
		return tr.to, nil
	}
	val, finished := tr.tween.Update(float32(dt))
	if finished {
		tr.Done = true
		return tr.to, nil
	}
	return LerpHoisted(tr.from, tr.to, float64(val))
}
