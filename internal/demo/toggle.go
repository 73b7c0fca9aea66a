package demo

import "github.com/phanxgames/dragon"

// Toggle geometry.
const (
	ToggleX      = 40.0
	ToggleY      = 40.0
	ToggleTravel = 60.0
	toggleRadius = 16.0
)

var (
	toggleOff = dragon.Hex("#9aa0a6")
	toggleOn  = dragon.Hex("#34a853")
)

// ToggleKnob returns the world position of the knob center for a state.
func ToggleKnob(on bool) (float64, float64) {
	x := ToggleX + 20
	if on {
		x += ToggleTravel
	}
	return x, ToggleY + 20
}

// Toggle draws a switch whose knob slides between off and on.
func Toggle(on bool, rc *dragon.RenderContext[bool]) *dragon.Node {
	x, fill := 0.0, toggleOff
	if on {
		x, fill = ToggleTravel, toggleOn
	}
	track := dragon.Rect(0, 0, 100, 40).Fill(fill)
	knob := dragon.Circle(20, 20, toggleRadius).
		Fill(dragon.RGB(1, 1, 1)).
		Stroke(dragon.RGB(0.2, 0.2, 0.2), 1).
		WithID("knob").
		SetZ(1).
		Translate(x, 0)
	knob.Draggable(rc.Drag(func() dragon.DragSpec[bool] {
		return dragon.Along(!on)
	}))
	return dragon.Group(track, knob).Translate(ToggleX, ToggleY)
}
