package demo

import (
	"slices"

	"github.com/phanxgames/dragon"
)

// Shelf geometry.
const (
	ShelfX     = 20.0
	ShelfY     = 50.0
	ShelfPitch = 90.0
	shelfSize  = 70.0
)

// Shelf is an ordered row of named items.
type Shelf struct {
	Items []string
}

// Slot returns the world position of the top-left corner of slot i.
func Slot(i int) (float64, float64) {
	return ShelfX + float64(i)*ShelfPitch, ShelfY
}

func (s Shelf) without(i int) Shelf {
	out := slices.Clone(s.Items)
	return Shelf{Items: slices.Delete(out, i, i+1)}
}

// placements returns every shelf with the item at i moved to a different
// slot.
func (s Shelf) placements(i int) []Shelf {
	rest := s.without(i)
	var out []Shelf
	for j := 0; j < len(s.Items); j++ {
		if j == i {
			continue
		}
		items := slices.Insert(slices.Clone(rest.Items), j, s.Items[i])
		out = append(out, Shelf{Items: items})
	}
	return out
}

// ShelfView draws the shelf. Items are lifted out and dropped into any
// slot; dropping away from the shelf puts the item back.
func ShelfView(s Shelf, rc *dragon.RenderContext[Shelf]) *dragon.Node {
	board := dragon.Rect(ShelfX-10, ShelfY+shelfSize+4, float64(len(s.Items))*ShelfPitch, 8).
		Fill(dragon.Hex("#795548"))
	root := dragon.Group(board)
	for i, name := range s.Items {
		x, y := Slot(i)
		item := dragon.Rect(0, 0, shelfSize, shelfSize).
			Fill(dragon.Hex(itemColor(name))).
			WithID(name).
			Translate(x, y)
		if rc.DraggedID == name {
			item.SetZ(1)
		}
		i := i
		item.Draggable(rc.Drag(func() dragon.DragSpec[Shelf] {
			return dragon.DetachReattach(s.without(i), s.placements(i)...)
		}))
		root.Add(item)
	}
	return root
}

func itemColor(name string) string {
	switch name {
	case "red":
		return "#ea4335"
	case "green":
		return "#34a853"
	case "blue":
		return "#4285f4"
	case "gold":
		return "#fbbc05"
	}
	return "#9e9e9e"
}
