package dragon

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// lerpColor blends two paints in CIE L*a*b*. A "none" side takes the
// other side's hue with zero alpha, so fills fade in and out instead of
// flashing through black. Alpha is blended linearly and clamped, since
// elastic easing drives t past 1.
func lerpColor(a, b Color, t float64) Color {
	if a == b {
		return a
	}
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	switch {
	case a.None && b.None:
		return ColorNone
	case a.None:
		a = Color{R: b.R, G: b.G, B: b.B}
	case b.None:
		b = Color{R: a.R, G: a.G, B: a.B}
	}
	ca := colorful.Color{R: a.R, G: a.G, B: a.B}
	cb := colorful.Color{R: b.R, G: b.G, B: b.B}
	c := ca.BlendLab(cb, t).Clamped()
	alpha := math.Min(1, math.Max(0, a.A*(1-t)+b.A*t))
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

// Hex parses a "#rrggbb" color. Invalid input yields opaque black.
func Hex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB(0, 0, 0)
	}
	return RGB(c.R, c.G, c.B)
}
