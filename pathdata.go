package dragon

import (
	"fmt"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/paint/ppath"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phanxgames/dragon/internal/geom"
)

// cubic is one Bézier segment; its start is the previous segment's end.
type cubic struct {
	c1, c2, end r2.Vec
}

type subpath struct {
	start  r2.Vec
	segs   []cubic
	closed bool
}

// parsePathData converts SVG path data into absolute cubic subpaths. Lines
// and quadratics are raised to cubics and arcs are replaced by their cubic
// approximation.
func parsePathData(d string) ([]subpath, error) {
	p, err := ppath.ParseSVGPath(d)
	if err != nil {
		return nil, fmt.Errorf("dragon: path data %q: %w", d, err)
	}
	b := &pathBuilder{}
	b.add(p)
	return b.out, nil
}

type pathBuilder struct {
	out []subpath
	pos r2.Vec
}

func (b *pathBuilder) cur() *subpath {
	if len(b.out) == 0 {
		b.out = append(b.out, subpath{start: b.pos})
	}
	return &b.out[len(b.out)-1]
}

func (b *pathBuilder) add(p ppath.Path) {
	for i := 0; i < len(p); {
		cmd := p[i]
		switch cmd {
		case ppath.MoveTo:
			b.pos = vec2(p[i+1], p[i+2])
			b.out = append(b.out, subpath{start: b.pos})
		case ppath.LineTo:
			end := vec2(p[i+1], p[i+2])
			sp := b.cur()
			sp.segs = append(sp.segs, lineCubic(b.pos, end))
			b.pos = end
		case ppath.QuadTo:
			q, end := vec2(p[i+1], p[i+2]), vec2(p[i+3], p[i+4])
			sp := b.cur()
			sp.segs = append(sp.segs, quadCubic(b.pos, q, end))
			b.pos = end
		case ppath.CubeTo:
			c := cubic{vec2(p[i+1], p[i+2]), vec2(p[i+3], p[i+4]), vec2(p[i+5], p[i+6])}
			sp := b.cur()
			sp.segs = append(sp.segs, c)
			b.pos = c.end
		case ppath.ArcTo:
			rx, ry, phi, large, sweep, end := p.ArcToPoints(i)
			start := math32.Vec2(float32(b.pos.X), float32(b.pos.Y))
			arc := ppath.ArcToCube(start, rx, ry, phi, large, sweep, end)
			if len(arc) > 0 && arc[0] == ppath.MoveTo {
				arc = arc[ppath.CmdLen(ppath.MoveTo):]
			}
			b.add(arc)
			b.pos = vec2(end.X, end.Y)
		case ppath.Close:
			sp := b.cur()
			if b.pos != sp.start {
				sp.segs = append(sp.segs, lineCubic(b.pos, sp.start))
			}
			sp.closed = true
			b.pos = sp.start
		}
		i += ppath.CmdLen(cmd)
	}
}

func vec2(x, y float32) r2.Vec { return r2.Vec{X: float64(x), Y: float64(y)} }

func lineCubic(a, b r2.Vec) cubic {
	return cubic{geom.Lerp(a, b, 1.0/3), geom.Lerp(a, b, 2.0/3), b}
}

func quadCubic(a, q, b r2.Vec) cubic {
	return cubic{
		r2.Add(a, r2.Scale(2.0/3, r2.Sub(q, a))),
		r2.Add(b, r2.Scale(2.0/3, r2.Sub(q, b))),
		b,
	}
}

// split divides c (starting at from) at t using de Casteljau.
func (c cubic) split(from r2.Vec, t float64) (cubic, cubic) {
	p01 := geom.Lerp(from, c.c1, t)
	p12 := geom.Lerp(c.c1, c.c2, t)
	p23 := geom.Lerp(c.c2, c.end, t)
	p012 := geom.Lerp(p01, p12, t)
	p123 := geom.Lerp(p12, p23, t)
	mid := geom.Lerp(p012, p123, t)
	return cubic{p01, p012, mid}, cubic{p123, p23, c.end}
}

// subdivide splits the longest segments of sp until it has n segments.
func (sp subpath) subdivide(n int) subpath {
	segs := append([]cubic(nil), sp.segs...)
	if len(segs) == 0 {
		// A lone moveto grows degenerate segments at its start point.
		for len(segs) < n {
			segs = append(segs, cubic{sp.start, sp.start, sp.start})
		}
		return subpath{start: sp.start, segs: segs, closed: sp.closed}
	}
	for len(segs) < n {
		longest, best := 0, -1.0
		from := sp.start
		var longestFrom r2.Vec
		for i, s := range segs {
			if l := r2.Norm(r2.Sub(s.end, from)) + r2.Norm(r2.Sub(s.c1, from)); l > best {
				longest, best, longestFrom = i, l, from
			}
			from = s.end
		}
		a, b := segs[longest].split(longestFrom, 0.5)
		segs = append(segs[:longest], append([]cubic{a, b}, segs[longest+1:]...)...)
	}
	return subpath{start: sp.start, segs: segs, closed: sp.closed}
}

// formatPathData serializes subpaths as absolute M/C/Z commands.
func formatPathData(sps []subpath) string {
	var b strings.Builder
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	pt := func(p r2.Vec) {
		b.WriteString(f(p.X))
		b.WriteByte(' ')
		b.WriteString(f(p.Y))
	}
	for i, sp := range sps {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("M ")
		pt(sp.start)
		for _, s := range sp.segs {
			b.WriteString(" C ")
			pt(s.c1)
			b.WriteByte(' ')
			pt(s.c2)
			b.WriteByte(' ')
			pt(s.end)
		}
		if sp.closed {
			b.WriteString(" Z")
		}
	}
	return b.String()
}

// lerpPathData morphs two path strings. Subpath counts must match; within
// each subpath the one with fewer segments is subdivided to match.
func lerpPathData(a, b string, t float64) (string, error) {
	if a == b || t == 0 {
		return a, nil
	}
	if t == 1 {
		return b, nil
	}
	pa, err := parsePathData(a)
	if err != nil {
		return "", err
	}
	pb, err := parsePathData(b)
	if err != nil {
		return "", err
	}
	if len(pa) != len(pb) {
		return "", fmt.Errorf("path data has %d subpaths on one side and %d on the other", len(pa), len(pb))
	}
	out := make([]subpath, len(pa))
	for i := range pa {
		sa, sb := pa[i], pb[i]
		if n := max(len(sa.segs), len(sb.segs)); n > 0 {
			sa, sb = sa.subdivide(n), sb.subdivide(n)
		}
		r := subpath{start: geom.Lerp(sa.start, sb.start, t), closed: sa.closed}
		if t >= 0.5 {
			r.closed = sb.closed
		}
		r.segs = make([]cubic, len(sa.segs))
		for j := range sa.segs {
			r.segs[j] = cubic{
				geom.Lerp(sa.segs[j].c1, sb.segs[j].c1, t),
				geom.Lerp(sa.segs[j].c2, sb.segs[j].c2, t),
				geom.Lerp(sa.segs[j].end, sb.segs[j].end, t),
			}
		}
		out[i] = r
	}
	return formatPathData(out), nil
}
