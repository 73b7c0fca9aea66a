// Package demo holds the reference diagrams shipped with the dragon CLI.
// Each one exercises a different kind of drag specification.
package demo

import (
	"sort"

	"github.com/phanxgames/dragon"
)

// Demo is a named diagram that can be started on a fresh engine.
type Demo struct {
	Name        string
	Description string
	Width       int
	Height      int
	New         func(opts ...dragon.Option) (dragon.Surface, error)
}

var registry = map[string]Demo{}

func register(d Demo) {
	if _, dup := registry[d.Name]; dup {
		panic("demo: duplicate demo " + d.Name)
	}
	registry[d.Name] = d
}

func init() {
	register(Demo{
		Name:        "toggle",
		Description: "two-state switch; drag the knob across",
		Width:       240,
		Height:      140,
		New: func(opts ...dragon.Option) (dragon.Surface, error) {
			return dragon.New(false, Toggle, opts...)
		},
	})
	register(Demo{
		Name:        "grid",
		Description: "dot on a 4x4 lattice; 2D manifold with chained drags",
		Width:       320,
		Height:      320,
		New: func(opts ...dragon.Option) (dragon.Surface, error) {
			return dragon.New(Cell{}, Grid, opts...)
		},
	})
	register(Demo{
		Name:        "knob",
		Description: "rotary dial driven by a param path",
		Width:       240,
		Height:      240,
		New: func(opts ...dragon.Option) (dragon.Surface, error) {
			return dragon.New(Dial{Angle: 0}, Knob, opts...)
		},
	})
	register(Demo{
		Name:        "shelf",
		Description: "reorder items by lifting them out and dropping them back",
		Width:       400,
		Height:      160,
		New: func(opts ...dragon.Option) (dragon.Surface, error) {
			return dragon.New(Shelf{Items: []string{"red", "green", "blue", "gold"}}, ShelfView, opts...)
		},
	})
}

// All returns every demo sorted by name.
func All() []Demo {
	out := make([]Demo, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the demo called name.
func Lookup(name string) (Demo, bool) {
	d, ok := registry[name]
	return d, ok
}
