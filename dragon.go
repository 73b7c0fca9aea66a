package dragon

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// None marks the SVG "none" paint, which lerps as a transparent version of
// whatever it is interpolated against.
type Color struct {
	R, G, B, A float64
	None       bool
}

// ColorNone is the "none" paint.
var ColorNone = Color{None: true}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA returns a color with the given alpha.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func (c Color) String() string {
	if c.None {
		return "none"
	}
	return fmt.Sprintf("rgba(%.3g,%.3g,%.3g,%.3g)", c.R, c.G, c.B, c.A)
}

// Kind distinguishes how a Node is drawn and which attributes it reads.
type Kind uint8

const (
	KindGroup   Kind = iota // container with no visual output
	KindRect                // x, y, width, height
	KindCircle              // cx, cy, r
	KindLine                // x1, y1, x2, y2
	KindPolygon             // points
	KindPath                // d (path data)
	KindText                // x, y, text
	KindHole                // placeholder left behind by hoisting
)

var kindNames = [...]string{"group", "rect", "circle", "line", "polygon", "path", "text", "hole"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// AttrType identifies the value held by an Attr.
type AttrType uint8

const (
	AttrNumber   AttrType = iota // Num
	AttrString                   // Str
	AttrColor                    // Color
	AttrPoints                   // Points
	AttrPathData                 // Str, in SVG path syntax
)

// Attr is a single typed node attribute. Only the field matching Type is
// meaningful.
type Attr struct {
	Type   AttrType
	Num    float64
	Str    string
	Color  Color
	Points []r2.Vec
}

// Num returns a numeric attribute.
func Num(v float64) Attr { return Attr{Type: AttrNumber, Num: v} }

// Str returns a string attribute. Strings never interpolate; differing
// values on the two sides of a lerp are an error.
func Str(s string) Attr { return Attr{Type: AttrString, Str: s} }

// Paint returns a color attribute.
func Paint(c Color) Attr { return Attr{Type: AttrColor, Color: c} }

// Pts returns a point-list attribute.
func Pts(points ...r2.Vec) Attr {
	return Attr{Type: AttrPoints, Points: append([]r2.Vec(nil), points...)}
}

// PathData returns an SVG path-data attribute.
func PathData(d string) Attr { return Attr{Type: AttrPathData, Str: d} }

func (a Attr) clone() Attr {
	if a.Points != nil {
		a.Points = append([]r2.Vec(nil), a.Points...)
	}
	return a
}

func (a Attr) String() string {
	switch a.Type {
	case AttrNumber:
		return strconv.FormatFloat(a.Num, 'g', -1, 64)
	case AttrString:
		return strconv.Quote(a.Str)
	case AttrColor:
		return a.Color.String()
	case AttrPoints:
		s := ""
		for i, p := range a.Points {
			if i > 0 {
				s += " "
			}
			s += strconv.FormatFloat(p.X, 'g', -1, 64) + "," + strconv.FormatFloat(p.Y, 'g', -1, 64)
		}
		return s
	case AttrPathData:
		return a.Str
	}
	return "?"
}
