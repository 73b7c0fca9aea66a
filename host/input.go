package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phanxgames/dragon"
)

// pointerState tracks the single pointer the engine listens to. The mouse
// and the first touch share it; a second finger is ignored.
type pointerState struct {
	down  bool
	touch bool
	tid   ebiten.TouchID
	last  r2.Vec
}

// process runs the pointer state machine for one sample and forwards the
// transitions to s.
func (ps *pointerState) process(s dragon.Surface, pos r2.Vec, pressed bool) {
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.last = pos
		s.PointerDownAt(pos)
	case !pressed && ps.down:
		ps.down = false
		ps.touch = false
		ps.last = pos
		s.PointerUp(pos)
	case pressed && ps.down:
		if pos != ps.last {
			ps.last = pos
			s.PointerMove(pos)
		}
	default:
		ps.last = pos
	}
}

// cancel abandons the current press, if any.
func (ps *pointerState) cancel(s dragon.Surface) {
	if ps.down {
		ps.down = false
		ps.touch = false
		s.PointerCancel()
	}
}

// poll reads the mouse and touch state from ebiten. Positions are
// divided by scale to map screen pixels to diagram units.
func (ps *pointerState) poll(s dragon.Surface, scale float64, touchBuf []ebiten.TouchID) []ebiten.TouchID {
	touchBuf = ebiten.AppendTouchIDs(touchBuf[:0])

	if ps.touch {
		for _, tid := range touchBuf {
			if tid == ps.tid {
				x, y := ebiten.TouchPosition(tid)
				ps.process(s, toWorld(x, y, scale), true)
				return touchBuf
			}
		}
		// Finger lifted.
		ps.process(s, ps.last, false)
		return touchBuf
	}
	if !ps.down && len(touchBuf) > 0 {
		ps.touch = true
		ps.tid = touchBuf[0]
		x, y := ebiten.TouchPosition(ps.tid)
		ps.process(s, toWorld(x, y, scale), true)
		return touchBuf
	}

	mx, my := ebiten.CursorPosition()
	ps.process(s, toWorld(mx, my, scale), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
	return touchBuf
}

func toWorld(x, y int, scale float64) r2.Vec {
	if scale <= 0 {
		scale = 1
	}
	return r2.Vec{X: float64(x) / scale, Y: float64(y) / scale}
}
