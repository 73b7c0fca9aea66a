package demo

import "github.com/phanxgames/dragon"

// Knob geometry.
const (
	KnobCenter = 120.0
	KnobRadius = 70.0
)

// Dial is the knob's state; Angle is in degrees, clockwise from +x.
type Dial struct {
	Angle float64 `dragon:"angle"`
}

// Knob draws a dial whose handle is dragged around its rim.
func Knob(d Dial, rc *dragon.RenderContext[Dial]) *dragon.Node {
	face := dragon.Circle(0, 0, KnobRadius).
		Fill(dragon.Hex("#f1f3f4")).
		Stroke(dragon.Hex("#5f6368"), 2)
	arm := dragon.Line(0, 0, KnobRadius, 0).
		Stroke(dragon.Hex("#5f6368"), 3).
		Rotate(d.Angle, 0, 0)
	handle := dragon.Circle(KnobRadius, 0, 12).
		Fill(dragon.Hex("#ea4335")).
		WithID("handle").
		SetZ(1).
		Rotate(d.Angle, 0, 0)
	handle.Draggable(rc.Drag(func() dragon.DragSpec[Dial] {
		return rc.ParamPaths("angle")
	}))
	return dragon.Group(face, arm, handle).Translate(KnobCenter, KnobCenter)
}
