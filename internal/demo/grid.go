package demo

import "github.com/phanxgames/dragon"

// Grid geometry.
const (
	GridSize    = 4
	GridSpacing = 60.0
	GridOrigin  = 70.0
)

// Cell is a lattice position.
type Cell struct {
	X, Y int
}

// Center returns the world position of the cell's dot.
func (c Cell) Center() (float64, float64) {
	return GridOrigin + float64(c.X)*GridSpacing, GridOrigin + float64(c.Y)*GridSpacing
}

// neighbors returns the in-bounds cells around c, diagonals included.
func (c Cell) neighbors() []Cell {
	var out []Cell
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			n := Cell{c.X + dx, c.Y + dy}
			if (dx == 0 && dy == 0) || n.X < 0 || n.Y < 0 || n.X >= GridSize || n.Y >= GridSize {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

// Grid draws a lattice with one draggable dot.
func Grid(c Cell, rc *dragon.RenderContext[Cell]) *dragon.Node {
	root := dragon.Group()
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			cx, cy := Cell{x, y}.Center()
			root.Add(dragon.Circle(cx, cy, 3).Fill(dragon.RGB(0.7, 0.7, 0.7)))
		}
	}
	cx, cy := c.Center()
	dot := dragon.Circle(0, 0, 14).
		Fill(dragon.Hex("#4285f4")).
		WithID("dot").
		SetZ(1).
		Translate(cx, cy)
	dot.Draggable(rc.Drag(func() dragon.DragSpec[Cell] {
		return dragon.Along(c.neighbors()...)
	}))
	return root.Add(dot)
}
