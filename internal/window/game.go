// Package window presents the flappy scene in an Ebitengine window. The same
// Game backs the desktop binary and the mobile bindings.
package window

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tomz197/flappy/internal/audio"
	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/object"
	"github.com/tomz197/flappy/internal/scene"
	"github.com/tomz197/flappy/internal/score"
)

// DefaultScale is the number of screen pixels per logical unit.
const DefaultScale = 6

// Options configures the window game. Zero values are usable.
type Options struct {
	Config *config.Config
	Store  score.Store
	Sound  audio.Player
	Logger *log.Logger
	Seed   int64
	Scale  float64
}

// Game implements ebiten.Game around a GameScene.
type Game struct {
	scene     *scene.GameScene
	sound     audio.Player
	scale     float64
	muted     bool
	touches   []ebiten.TouchID
	drawables []object.Drawable
}

// New builds the scene and presents it right away.
func New(ctx context.Context, opts Options) *Game {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if opts.Sound == nil {
		opts.Sound = audio.Silent{}
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}

	s := scene.New(cfg, scene.Options{
		Store:  opts.Store,
		Sound:  opts.Sound,
		Logger: opts.Logger,
		Seed:   opts.Seed,
	})
	s.DidMove(ctx)

	return &Game{
		scene: s,
		sound: opts.Sound,
		scale: opts.Scale,
	}
}

// ScreenSize returns the window size in pixels.
func (g *Game) ScreenSize() (int, int) {
	return int(g.scene.Width() * g.scale), int(g.scene.Height() * g.scale)
}

// Update reads taps and advances the scene by one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.muted = g.sound.ToggleMute()
	}

	taps := 0
	for _, k := range []ebiten.Key{ebiten.KeySpace, ebiten.KeyEnter, ebiten.KeyW, ebiten.KeyArrowUp} {
		if inpututil.IsKeyJustPressed(k) {
			taps++
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		taps++
	}
	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	taps += len(g.touches)

	for i := 0; i < taps; i++ {
		g.scene.TouchesBegan()
	}
	g.scene.Update(1 / float64(ebiten.TPS()))
	return nil
}

// Draw renders the scene. Scene coordinates are y-up, the screen is y-down.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.scene.Background())

	height := g.scene.Height()
	g.drawables = g.scene.Scene().Drawables(g.drawables)
	for _, d := range g.drawables {
		x, y := d.X*g.scale, (height-d.Y)*g.scale
		switch {
		case d.Node.Texture != nil:
			tex := d.Node.Texture
			drawSprite(screen, tex.Name, x, y, tex.Width*g.scale, tex.Height*g.scale, d.Rotation)
		case d.Node.Label != nil:
			ebitenutil.DebugPrintAt(screen, d.Node.Label.Text, int(x), int(y)-8)
		}
	}

	w, h := g.ScreenSize()
	if g.scene.CanRestart() {
		msg := fmt.Sprintf("GAME OVER  score %d  coins %d\n   tap to restart", g.scene.Score(), g.scene.ItemScore())
		ebitenutil.DebugPrintAt(screen, msg, w/2-80, h/2-16)
	}
	if g.muted {
		ebitenutil.DebugPrintAt(screen, "muted", 4, h-20)
	}
}

// Layout keeps the logical frame at a fixed pixel scale.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenSize()
}
