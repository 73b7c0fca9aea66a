package host

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phanxgames/dragon"
)

// circleSegments is the number of edges used to approximate a circle.
const circleSegments = 32

// --- White pixel singleton (hosts draw from one goroutine) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Every shape is drawn as vertex-colored triangles sampling it.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// batch accumulates colored triangles in world space.
type batch struct {
	verts []ebiten.Vertex
	inds  []uint32
	texts []label
}

type label struct {
	text string
	x, y int
}

func (b *batch) reset() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
	b.texts = b.texts[:0]
}

func apply(m f64.Aff3, p r2.Vec) r2.Vec {
	return r2.Vec{X: m[0]*p.X + m[1]*p.Y + m[2], Y: m[3]*p.X + m[4]*p.Y + m[5]}
}

func (b *batch) vertex(p r2.Vec, c dragon.Color) {
	b.verts = append(b.verts, ebiten.Vertex{
		DstX: float32(p.X), DstY: float32(p.Y),
		SrcX: 0.5, SrcY: 0.5,
		ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: float32(c.A),
	})
}

// fillPolygon appends a triangle fan. Concave outlines draw with overlap
// artifacts, which is acceptable for a reference host.
func (b *batch) fillPolygon(pts []r2.Vec, m f64.Aff3, c dragon.Color) {
	if len(pts) < 3 || c.None || c.A <= 0 {
		return
	}
	base := uint32(len(b.verts))
	for _, p := range pts {
		b.vertex(apply(m, p), c)
	}
	for i := 1; i+1 < len(pts); i++ {
		b.inds = append(b.inds, base, base+uint32(i), base+uint32(i+1))
	}
}

// strokePolyline appends one quad per segment, width measured in local
// units.
func (b *batch) strokePolyline(pts []r2.Vec, closed bool, width float64, m f64.Aff3, c dragon.Color) {
	if len(pts) < 2 || width <= 0 || c.None || c.A <= 0 {
		return
	}
	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, z := pts[i], pts[(i+1)%n]
		d := r2.Sub(z, a)
		l := r2.Norm(d)
		if l == 0 {
			continue
		}
		off := r2.Scale(width/2/l, r2.Vec{X: -d.Y, Y: d.X})
		base := uint32(len(b.verts))
		b.vertex(apply(m, r2.Add(a, off)), c)
		b.vertex(apply(m, r2.Add(z, off)), c)
		b.vertex(apply(m, r2.Sub(z, off)), c)
		b.vertex(apply(m, r2.Sub(a, off)), c)
		b.inds = append(b.inds, base, base+1, base+2, base, base+2, base+3)
	}
}

func attrColor(n *dragon.Node, key string, def dragon.Color) dragon.Color {
	if a, ok := n.Attrs[key]; ok && a.Type == dragon.AttrColor {
		return a.Color
	}
	return def
}

func attrNum(n *dragon.Node, key string, def float64) float64 {
	if a, ok := n.Attrs[key]; ok && a.Type == dragon.AttrNumber {
		return a.Num
	}
	return def
}

// outline returns a node's shape in local coordinates.
func outline(n *dragon.Node) (pts []r2.Vec, closed bool) {
	num := func(k string) float64 { return attrNum(n, k, 0) }
	switch n.Kind {
	case dragon.KindRect:
		x, y, w, h := num("x"), num("y"), num("width"), num("height")
		return []r2.Vec{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, true
	case dragon.KindCircle:
		cx, cy, r := num("cx"), num("cy"), num("r")
		pts = make([]r2.Vec, circleSegments)
		for i := range pts {
			s, c := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
			pts[i] = r2.Vec{X: cx + r*c, Y: cy + r*s}
		}
		return pts, true
	case dragon.KindLine:
		return []r2.Vec{{X: num("x1"), Y: num("y1")}, {X: num("x2"), Y: num("y2")}}, false
	case dragon.KindPolygon:
		return n.Attrs["points"].Points, true
	case dragon.KindPath:
		return dragon.FlattenPath(n.Attrs["d"].Str), false
	}
	return nil, false
}

// add tessellates one visible node.
func (b *batch) add(n *dragon.Node, world f64.Aff3) {
	if n.Kind == dragon.KindText {
		p := apply(world, r2.Vec{X: attrNum(n, "x", 0), Y: attrNum(n, "y", 0)})
		b.texts = append(b.texts, label{text: n.Attrs["text"].Str, x: int(p.X), y: int(p.Y) - 13})
		return
	}
	pts, closed := outline(n)
	if n.Kind != dragon.KindLine {
		b.fillPolygon(pts, world, attrColor(n, "fill", dragon.RGB(0, 0, 0)))
	}
	b.strokePolyline(pts, closed, attrNum(n, "stroke-width", 1), world, attrColor(n, "stroke", dragon.ColorNone))
}

// drawFrame paints a hoisted frame onto dst.
func (b *batch) drawFrame(dst *ebiten.Image, frame *dragon.Hoisted) {
	b.reset()
	if frame == nil {
		return
	}
	frame.Draw(b.add)
	if len(b.inds) > 0 {
		var triOp ebiten.DrawTrianglesOptions
		triOp.AntiAlias = true
		dst.DrawTriangles32(b.verts, b.inds, ensureWhitePixel(), &triOp)
	}
	for _, l := range b.texts {
		ebitenutil.DebugPrintAt(dst, l.text, l.x, l.y)
	}
}
