package dragon

import (
	"errors"
	"testing"
)

type point struct {
	X, Y float64
}

type scene struct {
	Angle  float64 `dragon:"angle"`
	Count  int
	Pos    point
	Pts    []point
	Named  map[string]point
	ByID   map[int]float64
	Ptr    *point
	Any    any
	Label  string
	hidden float64
}

func newScene() scene {
	return scene{
		Angle: 10,
		Count: 3,
		Pos:   point{1, 2},
		Pts:   []point{{3, 4}, {5, 6}},
		Named: map[string]point{"a": {7, 8}},
		ByID:  map[int]float64{2: 9},
		Ptr:   &point{11, 12},
		Any:   13.0,
	}
}

func TestGetParam(t *testing.T) {
	s := newScene()
	tests := []struct {
		path string
		want float64
	}{
		{"angle", 10},
		{"Angle", 10},
		{"count", 3},
		{"pos.y", 2},
		{"Pts.1.X", 5},
		{"named.a.Y", 8},
		{"byid.2", 9},
		{"ptr.x", 11},
		{"any", 13},
	}
	for _, tt := range tests {
		got, err := getParam(s, tt.path)
		if err != nil {
			t.Errorf("getParam(%q): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("getParam(%q) = %g, want %g", tt.path, got, tt.want)
		}
	}
}

func TestGetParamErrors(t *testing.T) {
	s := newScene()
	for _, p := range []string{"nope", "label", "pts.9.x", "named.zz.x", "pos.x.y", "byid.x"} {
		if _, err := getParam(s, p); !errors.Is(err, ErrBadParamPath) {
			t.Errorf("getParam(%q) err = %v, want ErrBadParamPath", p, err)
		}
	}
}

func TestWithParams(t *testing.T) {
	s := newScene()
	paths := []string{"angle", "count", "pos.x", "pts.0.y", "named.a.x", "byid.2", "ptr.y", "any"}
	vals := []float64{90, 4.6, -1, -2, -3, -4, -5, -6}
	got, err := withParams(s, paths, vals)
	if err != nil {
		t.Fatal(err)
	}
	if got.Angle != 90 || got.Count != 5 || got.Pos.X != -1 || got.Pts[0].Y != -2 ||
		got.Named["a"].X != -3 || got.ByID[2] != -4 || got.Ptr.Y != -5 || got.Any != -6.0 {
		t.Errorf("withParams = %+v", got)
	}

	// The source state is never modified.
	if s.Angle != 10 || s.Pts[0].Y != 4 || s.Named["a"].X != 7 || s.ByID[2] != 9 || s.Ptr.Y != 12 || s.Any != 13.0 {
		t.Errorf("source mutated: %+v", s)
	}
}

func TestWithParamsPointerState(t *testing.T) {
	s := &point{1, 2}
	got, err := withParams(s, []string{"x"}, []float64{5})
	if err != nil {
		t.Fatal(err)
	}
	if got == s || got.X != 5 || s.X != 1 {
		t.Errorf("got %+v (same=%v), source %+v", got, got == s, s)
	}
}

func TestWithParamsErrors(t *testing.T) {
	s := newScene()
	for _, p := range []string{"label", "missing", "hidden"} {
		if _, err := withParams(s, []string{p}, []float64{1}); !errors.Is(err, ErrBadParamPath) {
			t.Errorf("withParams(%q) err = %v, want ErrBadParamPath", p, err)
		}
	}
}
