package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/phanxgames/dragon"
)

func instant() dragon.Option {
	cfg := dragon.DefaultConfig()
	cfg.AnimationDuration = 0
	return dragon.WithConfig(cfg)
}

func TestRegistry(t *testing.T) {
	all := All()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"grid", "knob", "shelf", "toggle"}, names)

	d, ok := Lookup("knob")
	require.True(t, ok)
	assert.Equal(t, "knob", d.Name)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestEveryDemoStarts(t *testing.T) {
	for _, d := range All() {
		t.Run(d.Name, func(t *testing.T) {
			s, err := d.New(instant())
			require.NoError(t, err)
			assert.Equal(t, dragon.ModeIdle, s.Mode())
			require.NotNil(t, s.Frame())
			assert.NotEmpty(t, s.Frame().DrawOrder())
			assert.Positive(t, d.Width)
			assert.Positive(t, d.Height)
		})
	}
}

func TestToggleDemo(t *testing.T) {
	e, err := dragon.New(false, Toggle, instant())
	require.NoError(t, err)

	x, y := ToggleKnob(false)
	e.PointerDownAt(r2.Vec{X: x, Y: y})
	require.Equal(t, dragon.ModeDragging, e.Mode())

	x, y = ToggleKnob(true)
	e.PointerMove(r2.Vec{X: x, Y: y})
	assert.True(t, e.State())
	e.PointerUp(r2.Vec{X: x, Y: y})
	assert.Equal(t, dragon.ModeIdle, e.Mode())
	assert.True(t, e.State())
	assert.NoError(t, e.Err())
}

func TestGridDemoChains(t *testing.T) {
	e, err := dragon.New(Cell{}, Grid, instant())
	require.NoError(t, err)

	at := func(c Cell) r2.Vec {
		x, y := c.Center()
		return r2.Vec{X: x, Y: y}
	}
	e.PointerDownAt(at(Cell{}))
	e.PointerMove(at(Cell{1, 1}))
	assert.Equal(t, Cell{1, 1}, e.State())
	e.PointerMove(at(Cell{2, 1}))
	assert.Equal(t, Cell{2, 1}, e.State())
	e.PointerUp(at(Cell{2, 1}))
	assert.Equal(t, dragon.ModeIdle, e.Mode())
	assert.Equal(t, Cell{2, 1}, e.State())
	assert.NoError(t, e.Err())
}

func TestCellNeighbors(t *testing.T) {
	assert.Len(t, Cell{}.neighbors(), 3)
	assert.Len(t, Cell{1, 0}.neighbors(), 5)
	assert.Len(t, Cell{1, 1}.neighbors(), 8)
}

func TestKnobDemoFollowsPointer(t *testing.T) {
	e, err := dragon.New(Dial{}, Knob, instant())
	require.NoError(t, err)

	e.PointerDownAt(r2.Vec{X: KnobCenter + KnobRadius, Y: KnobCenter})
	require.Equal(t, dragon.ModeDraggingParams, e.Mode())
	e.PointerMove(r2.Vec{X: KnobCenter, Y: KnobCenter + KnobRadius})
	e.PointerUp(r2.Vec{X: KnobCenter, Y: KnobCenter + KnobRadius})
	require.NoError(t, e.Err())
	assert.InDelta(t, 90, e.State().Angle, 1)
}

func TestShelfPlacements(t *testing.T) {
	s := Shelf{Items: []string{"a", "b", "c"}}
	assert.Equal(t, Shelf{Items: []string{"a", "c"}}, s.without(1))
	assert.Equal(t, []Shelf{
		{Items: []string{"b", "a", "c"}},
		{Items: []string{"b", "c", "a"}},
	}, s.placements(0))
	assert.Equal(t, []string{"a", "b", "c"}, s.Items, "source is not modified")
}

func TestShelfDemoReorders(t *testing.T) {
	e, err := dragon.New(Shelf{Items: []string{"red", "green", "blue", "gold"}}, ShelfView, instant())
	require.NoError(t, err)

	grab := func(i int) r2.Vec {
		x, y := Slot(i)
		return r2.Vec{X: x + shelfSize/2, Y: y + shelfSize/2}
	}
	e.PointerDownAt(grab(0))
	require.Equal(t, dragon.ModeDetachReattach, e.Mode())
	e.PointerMove(grab(2))
	for i := 0; i < 10; i++ {
		e.Update(1.0 / 60)
	}
	e.PointerUp(grab(2))
	require.NoError(t, e.Err())
	assert.Equal(t, []string{"green", "blue", "red", "gold"}, e.State().Items)
}
