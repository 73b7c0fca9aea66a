// Package host runs a dragon Surface in an Ebitengine window. It owns the
// window, polls the pointer, ticks the engine with wall-clock deltas and
// paints each frame as vertex-colored triangles.
package host

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/dragon"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Scale      float64 // diagram units to screen pixels; 0 means 1
	Background color.Color
	ShowMode   bool // overlay the interaction mode and last error
	Logger     *slog.Logger
}

// Game adapts a Surface to ebiten.Game. Keys: P pauses, D toggles debug
// mode, Escape cancels the current gesture.
type Game struct {
	surface dragon.Surface
	cfg     RunConfig
	pointer pointerState
	touches []ebiten.TouchID
	batch   batch
	debug   bool
	scratch *ebiten.Image
}

// NewGame wraps s.
func NewGame(s dragon.Surface, cfg RunConfig) *Game {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Background == nil {
		cfg.Background = color.White
	}
	return &Game{surface: s, cfg: cfg}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.surface.SetPaused(!g.surface.Paused())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
		g.surface.SetDebugMode(g.debug)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.pointer.cancel(g.surface)
	}
	before := g.surface.Err()
	g.touches = g.pointer.poll(g.surface, g.cfg.Scale, g.touches)
	g.surface.Update(1 / float64(ebiten.TPS()))
	if err := g.surface.Err(); err != nil && err != before && g.cfg.Logger != nil {
		g.cfg.Logger.Error("diagram error", "error", err)
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.cfg.Background)
	if g.cfg.Scale == 1 {
		g.batch.drawFrame(screen, g.surface.Frame())
	} else {
		w, h := int(float64(g.cfg.Width)/g.cfg.Scale), int(float64(g.cfg.Height)/g.cfg.Scale)
		if g.scratch == nil || g.scratch.Bounds().Dx() != w || g.scratch.Bounds().Dy() != h {
			g.scratch = ebiten.NewImage(w, h)
		}
		g.scratch.Clear()
		g.batch.drawFrame(g.scratch, g.surface.Frame())
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(g.cfg.Scale, g.cfg.Scale)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(g.scratch, &op)
	}
	if g.cfg.ShowMode {
		msg := fmt.Sprintf("mode: %s", g.surface.Mode())
		if g.surface.Paused() {
			msg += " (paused)"
		}
		if err := g.surface.Err(); err != nil {
			msg += "\nerror: " + firstLine(err.Error())
		}
		ebitenutil.DebugPrint(screen, msg)
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and drives s until it is closed.
func Run(s dragon.Surface, cfg RunConfig) error {
	g := NewGame(s, cfg)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(g)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
