// Package dragon turns a pure render function into a direct-manipulation
// diagram.
//
// A diagram is a value of some state type T and a [Renderer] that draws a
// [Node] tree for any T. Dragging a shape does not move the shape: the engine
// renders candidate states, finds the one whose rendering best follows the
// pointer, and shows an interpolation between renderings while the gesture
// is in flight. The renderer never sees the pointer.
//
// # Quick start
//
// Mark draggable nodes with an annotation from the [RenderContext], then
// hand the renderer to [New]:
//
//	render := func(on bool, rc *dragon.RenderContext[bool]) *dragon.Node {
//		x := 0.0
//		if on {
//			x = 60
//		}
//		knob := dragon.Circle(20, 20, 16).WithID("knob").Translate(x, 0)
//		knob.Draggable(rc.Drag(func() dragon.DragSpec[bool] {
//			return dragon.Along(!on)
//		}))
//		return dragon.Group(dragon.Rect(0, 0, 100, 40), knob)
//	}
//	e, err := dragon.New(false, render)
//
// Feed pointer input with [Engine.PointerDownAt], [Engine.PointerMove] and
// [Engine.PointerUp], advance animations with [Engine.Update], and paint
// [Engine.Frame]. The dragon/host package does all of this on Ebitengine:
//
//	host.Run(e, host.RunConfig{Title: "Toggle", Width: 240, Height: 140})
//
// # Drag specifications
//
// A [DragSpec] says which states a drag may reach:
//
//   - [Along], [Manifolds] and [Union] list discrete states. The engine
//     triangulates where the dragged point sits in each and interpolates
//     across the resulting mesh. Reaching a state snaps to it, and the
//     gesture chains into that state's own drag when it has one.
//   - [Params] and [RenderContext.ParamPaths] describe a continuous family
//     of states. The engine minimizes the distance between pointer and
//     dragged point over the parameters.
//   - [DetachReattach] lifts the dragged node out of the diagram and lets
//     the rest spring between candidate drop states.
//
// # Scene graph
//
// Nodes carry an SVG-like shape, attributes, and a list of transforms.
// Nodes with an id are hoisted into a flat, z-ordered [Hoisted] frame so
// they can be drawn above their ancestors and interpolated by key. Two
// renders interpolate only when they are structurally congruent; otherwise
// the gesture aborts with [ErrNotCongruent] and the engine stays usable.
//
// Author mistakes are reported through [Engine.Err], an [EventSink], and
// the [slog] logger, never by panicking.
package dragon
