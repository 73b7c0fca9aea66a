package geom

import (
	"sort"

	"github.com/fogleman/delaunay"
	"gonum.org/v1/gonum/spatial/r2"
)

type edge struct{ a, b int }

func (e edge) key() edge {
	if e.a > e.b {
		return edge{e.b, e.a}
	}
	return e
}

// Triangulate returns the Delaunay triangulation of pts as index triples in
// counter-clockwise order, sorted. Fewer than three points, or a collinear
// set, yield no triangles. pts must not contain duplicates.
func Triangulate(pts []r2.Vec) [][3]int {
	if len(pts) < 3 {
		return nil
	}
	in := make([]delaunay.Point, len(pts))
	for i, p := range pts {
		in[i] = delaunay.Point{X: p.X, Y: p.Y}
	}
	tri, err := delaunay.Triangulate(in)
	if err != nil {
		return nil
	}

	out := make([][3]int, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		a, b, c := tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]
		o := orient(pts[a], pts[b], pts[c])
		if o == 0 {
			continue
		}
		if o < 0 {
			b, c = c, b
		}
		out = append(out, [3]int{a, b, c})
	}
	sort.Slice(out, func(i, j int) bool {
		for k := 0; k < 3; k++ {
			if out[i][k] != out[j][k] {
				return out[i][k] < out[j][k]
			}
		}
		return false
	})
	return out
}
