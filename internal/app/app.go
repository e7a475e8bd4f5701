//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"cyclario/internal/core"
	"cyclario/internal/render"
	"cyclario/internal/sims/cyclario"
	"cyclario/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// HUDWidth is the width of the panel right of the lattice.
	HUDWidth = 300

	generatedDensity = 0.4
	delayStep        = 10 * time.Millisecond
)

var (
	trailColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	patternKeys = []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7}
)

// Game adapts a cyclario session to the ebiten.Game interface.
type Game struct {
	sess    *cyclario.Session
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.FixedStep
	logger  *slog.Logger

	scale    int
	layer    int
	preset   int
	running  bool
	tickOnce bool
}

// New constructs a Game for sess drawn at scale pixels per cell.
func New(sess *cyclario.Session, scale int, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		sess:    sess,
		painter: render.NewGridPainter(cyclario.Size, cyclario.Size),
		overlay: ui.NewOverlay(sess, scale),
		hud:     ui.NewHUD(sess, HUDWidth, cyclario.Size*scale),
		pacer:   core.NewFixedStep(sess.Delay()),
		logger:  logger.With(slog.String("component", "gui")),
		scale:   scale,
	}
}

// Update handles input and advances the session when the pacer allows.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleKeys()
	g.handleMouse()
	g.hud.Update(cyclario.Size * g.scale)

	g.pacer.SetDelay(g.sess.Delay())
	if (g.running && g.pacer.ShouldStep()) || g.tickOnce {
		g.sess.Step()
		g.tickOnce = false
	}
	return nil
}

func (g *Game) handleKeys() {
	cur := &g.overlay.Cursor
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.running = !g.running
		g.pacer.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.running = false
		g.tickOnce = true
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.running = false
		g.sess.Reset(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.sess.Clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		*cur = core.WrapCoord(core.Coord{Row: cur.Row - 1, Col: cur.Col}, cyclario.Size)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		*cur = core.WrapCoord(core.Coord{Row: cur.Row + 1, Col: cur.Col}, cyclario.Size)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		*cur = core.WrapCoord(core.Coord{Row: cur.Row, Col: cur.Col - 1}, cyclario.Size)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		*cur = core.WrapCoord(core.Coord{Row: cur.Row, Col: cur.Col + 1}, cyclario.Size)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.toggle(*cur)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.layer = core.Wrap(g.layer-1, cyclario.Depth)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.layer = core.Wrap(g.layer+1, cyclario.Depth)
	case inpututil.IsKeyJustPressed(ebiten.KeyK):
		reverse := ebiten.IsKeyPressed(ebiten.KeyShift)
		if _, err := g.sess.CycleKernelCell(cur.Row%cyclario.KernelSize, cur.Col%cyclario.KernelSize, reverse); err != nil {
			g.logger.Warn("kernel edit", slog.Any("error", err))
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		presets := g.sess.Presets()
		g.preset = (g.preset + 1) % len(presets)
		if err := g.sess.LoadPreset(presets[g.preset].Name); err != nil {
			g.logger.Warn("preset", slog.String("preset", presets[g.preset].Name), slog.Any("error", err))
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.running = false
		g.sess.ApplyGenerated(generatedDensity)
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		g.toggleChannel(cyclario.AxisRows, cur.Row)
	case inpututil.IsKeyJustPressed(ebiten.KeyY):
		g.toggleChannel(cyclario.AxisCols, cur.Col)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.hud.NextMetric()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.overlay.ShowBuses = !g.overlay.ShowBuses
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.sess.SetDelay(g.sess.Delay() + delayStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		g.sess.SetDelay(max(g.sess.Delay()-delayStep, delayStep))
	}

	for i, k := range patternKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.running = false
			if err := g.sess.LoadPattern(fmt.Sprintf("default-%d", i)); err != nil {
				g.logger.Warn("pattern", slog.Any("error", err))
			}
		}
	}
}

func (g *Game) handleMouse() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	c := core.Coord{Row: my / g.scale, Col: mx / g.scale}
	if !core.InBounds(c, cyclario.Size) {
		return
	}
	g.overlay.Cursor = c
	g.toggle(c)
}

func (g *Game) toggle(c core.Coord) {
	if _, err := g.sess.ToggleCell(c.Row, c.Col, g.layer); err != nil {
		g.logger.Warn("toggle cell", slog.Any("error", err))
	}
}

func (g *Game) toggleChannel(axis cyclario.Axis, index int) {
	pos, ok := cyclario.ChannelPosition(index)
	if !ok {
		return
	}
	if err := g.sess.ToggleInterconnect(axis, pos); err != nil {
		g.logger.Warn("interconnect", slog.Any("error", err))
	}
}

// Draw renders the lattice layer, overlay and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	l := g.sess.Lattice()
	glow := make([]float64, cyclario.Size*cyclario.Size)
	if g.layer == 0 {
		for i := 0; i < cyclario.Size; i++ {
			for j := 0; j < cyclario.Size; j++ {
				glow[i*cyclario.Size+j] = 0.5 * l.Activity(i, j) / cyclario.Depth
			}
		}
	}
	g.painter.Blit(screen, g.sess.LayerCells(g.layer), glow, g.sess.Palette(), trailColor, g.scale)
	g.overlay.Draw(screen, g.layer)
	g.hud.Draw(screen, cyclario.Size*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cyclario.Size*g.scale + HUDWidth, cyclario.Size * g.scale
}
