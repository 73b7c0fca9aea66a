package geom

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind classifies where a projection landed.
type Kind uint8

const (
	KindNone   Kind = iota // empty mesh
	KindVertex             // exactly on one input point
	KindEdge               // on a segment between two input points
	KindFace               // inside a triangle
)

func (k Kind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	case KindFace:
		return "face"
	default:
		return "none"
	}
}

// Projection is the result of projecting a query point onto a Mesh.
//
// Index holds the contributing point indices (1, 2 or 3 of them, by Kind)
// and Weights their interpolation weights, which sum to 1. For KindEdge,
// Weights[1] is the segment parameter t.
type Projection struct {
	Kind    Kind
	Index   [3]int
	Weights [3]float64
	Point   r2.Vec
	Dist    float64
}

// Mesh is a triangulated point set ready for repeated projection queries.
// Duplicate positions are collapsed onto their first occurrence; all
// indices reported by Project refer to the original slice.
type Mesh struct {
	Points    []r2.Vec
	Triangles [][3]int

	distinct []int    // indices of first occurrences
	chain    []int    // ordered polyline for degenerate sets
	edges    [][2]int // all triangle edges, deduplicated
}

// NewMesh triangulates pts. Sets with fewer than three distinct points, or
// collinear sets, fall back to a polyline ordered along the set's principal
// direction.
func NewMesh(pts []r2.Vec) *Mesh {
	m := &Mesh{Points: pts}
	seen := make(map[r2.Vec]bool, len(pts))
	for i, p := range pts {
		if seen[p] {
			continue
		}
		seen[p] = true
		m.distinct = append(m.distinct, i)
	}

	sub := make([]r2.Vec, len(m.distinct))
	for k, i := range m.distinct {
		sub[k] = pts[i]
	}
	for _, t := range Triangulate(sub) {
		m.Triangles = append(m.Triangles, [3]int{m.distinct[t[0]], m.distinct[t[1]], m.distinct[t[2]]})
	}

	if len(m.Triangles) == 0 {
		m.chain = m.orderAlongAxis()
		return m
	}
	set := make(map[edge]bool)
	for _, t := range m.Triangles {
		for k := 0; k < 3; k++ {
			e := edge{t[k], t[(k+1)%3]}.key()
			if !set[e] {
				set[e] = true
				m.edges = append(m.edges, [2]int{e.a, e.b})
			}
		}
	}
	return m
}

// orderAlongAxis sorts the distinct points by their projection onto the
// direction from the first point to the point farthest from it.
func (m *Mesh) orderAlongAxis() []int {
	chain := append([]int(nil), m.distinct...)
	if len(chain) < 2 {
		return chain
	}
	origin := m.Points[chain[0]]
	far, farDist := origin, 0.0
	for _, i := range chain {
		if d := Dist(origin, m.Points[i]); d > farDist {
			far, farDist = m.Points[i], d
		}
	}
	axis := r2.Sub(far, origin)
	sort.SliceStable(chain, func(a, b int) bool {
		return r2.Dot(r2.Sub(m.Points[chain[a]], origin), axis) < r2.Dot(r2.Sub(m.Points[chain[b]], origin), axis)
	})
	return chain
}

// Project returns the nearest point of the mesh to p: the containing
// triangle with barycentric weights when p is inside the triangulation,
// otherwise the nearest vertex or edge. The triangulation covers a convex
// region, so the nearest point over all edges lies on its boundary.
func (m *Mesh) Project(p r2.Vec) Projection {
	switch len(m.distinct) {
	case 0:
		return Projection{Kind: KindNone, Dist: math.Inf(1)}
	case 1:
		return vertex(m.distinct[0], m.Points[m.distinct[0]], p)
	}

	if len(m.Triangles) == 0 {
		return m.projectChain(p, m.chain)
	}

	for _, t := range m.Triangles {
		u, v, w, ok := Barycentric(p, m.Points[t[0]], m.Points[t[1]], m.Points[t[2]])
		if !ok || u < -Epsilon || v < -Epsilon || w < -Epsilon {
			continue
		}
		return Projection{
			Kind:    KindFace,
			Index:   t,
			Weights: [3]float64{u, v, w},
			Point:   p,
		}
	}

	return m.projectEdges(p, m.edges)
}

func (m *Mesh) projectChain(p r2.Vec, chain []int) Projection {
	segs := make([][2]int, 0, len(chain))
	for i := 0; i+1 < len(chain); i++ {
		segs = append(segs, [2]int{chain[i], chain[i+1]})
	}
	return m.projectEdges(p, segs)
}

func (m *Mesh) projectEdges(p r2.Vec, segs [][2]int) Projection {
	best := Projection{Kind: KindNone, Dist: math.Inf(1)}
	for _, s := range segs {
		a, b := m.Points[s[0]], m.Points[s[1]]
		q, t := ClosestOnSegment(p, a, b)
		d := Dist(p, q)
		if d >= best.Dist {
			continue
		}
		switch t {
		case 0:
			best = vertex(s[0], a, p)
		case 1:
			best = vertex(s[1], b, p)
		default:
			best = Projection{
				Kind:    KindEdge,
				Index:   [3]int{s[0], s[1], -1},
				Weights: [3]float64{1 - t, t, 0},
				Point:   q,
				Dist:    d,
			}
		}
	}
	return best
}

func vertex(i int, q, p r2.Vec) Projection {
	return Projection{
		Kind:    KindVertex,
		Index:   [3]int{i, -1, -1},
		Weights: [3]float64{1, 0, 0},
		Point:   q,
		Dist:    Dist(p, q),
	}
}
