//go:build android || ios

// Package mobile is the ebitenmobile binding:
//
//	ebitenmobile bind -target android -javapkg com.tomz197.flappy -o flappy.aar ./mobile
package mobile

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/tomz197/flappy/internal/audio"
	"github.com/tomz197/flappy/internal/score"
	"github.com/tomz197/flappy/internal/window"
)

var (
	mu           sync.Mutex
	highScoreDir string
)

// SetHighScoreDir sets where the best score file lives. The host app calls it
// before the first frame, usually with its files directory.
func SetHighScoreDir(path string) {
	mu.Lock()
	defer mu.Unlock()
	highScoreDir = path
}

// lazyGame builds the window game on the first frame so the host app has a
// chance to call SetHighScoreDir first.
type lazyGame struct {
	once sync.Once
	game *window.Game
}

func (g *lazyGame) init() {
	g.once.Do(func() {
		logger := log.Default()
		var store score.Store
		mu.Lock()
		if highScoreDir != "" {
			store = score.NewFileStore(filepath.Join(highScoreDir, "best.yaml"))
		}
		mu.Unlock()

		sm := audio.NewSoundManager(logger)
		var sound audio.Player = audio.Silent{}
		if err := sm.Initialize(); err == nil {
			sound = sm
		}
		g.game = window.New(context.Background(), window.Options{
			Store:  store,
			Sound:  sound,
			Logger: logger,
		})
	})
}

func (g *lazyGame) Update() error {
	g.init()
	return g.game.Update()
}

func (g *lazyGame) Draw(screen *ebiten.Image) {
	g.init()
	g.game.Draw(screen)
}

func (g *lazyGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.init()
	return g.game.Layout(outsideWidth, outsideHeight)
}

func init() {
	mobile.SetGame(&lazyGame{})
}

// Dummy is a dummy exported function.
//
// gomobile doesn't compile a package that doesn't include any exported function.
// Dummy forces gomobile to compile this package.
func Dummy() {}
