// Package scene is the flappy game scene: it builds the node tree, spawns
// walls and coins, dispatches contacts and keeps score.
package scene

import (
	"context"
	"image/color"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/flappy/internal/config"
	"github.com/tomz197/flappy/internal/object"
	"github.com/tomz197/flappy/internal/physics"
	"github.com/tomz197/flappy/internal/score"
)

// Contact categories, allocated in this order so they take bits 0 to 4.
var (
	BirdCategory   = physics.NewCategory("bird")
	GroundCategory = physics.NewCategory("ground")
	WallCategory   = physics.NewCategory("wall")
	ScoreCategory  = physics.NewCategory("score")
	ItemCategory   = physics.NewCategory("item")
)

// Node names, used by frontends and tests to find parts of the tree.
const (
	NameScroll    = "scroll"
	NameWalls     = "walls"
	NameItems     = "items"
	NameBird      = "bird"
	NameGround    = "ground"
	NameCloud     = "cloud"
	NameWall      = "wall"
	NameWallUpper = "wall_upper"
	NameWallLower = "wall_lower"
	NameGate      = "score_gate"
	NameItem      = "item"
	NameCoin      = "coin"
)

// Sound plays the scene's music and effects.
type Sound interface {
	PlayBackground()
	PlayCoin()
}

type silent struct{}

func (silent) PlayBackground() {}
func (silent) PlayCoin()       {}

// Options are the scene's collaborators. Zero values are usable: scores are
// kept in memory, nothing plays, logs go to the default logger and the
// random seed comes from the clock.
type Options struct {
	Store  score.Store
	Sound  Sound
	Logger *log.Logger
	Seed   int64
}

// GameScene is the flappy scene controller.
type GameScene struct {
	cfg    config.Config
	scene  *object.Scene
	board  *score.Board
	sound  Sound
	logger *log.Logger
	rng    *rand.Rand
	ctx    context.Context

	scrollNode *object.Node
	wallNode   *object.Node
	itemNode   *object.Node
	bird       *object.Node

	scoreLabel     *object.Node
	itemScoreLabel *object.Node
	bestScoreLabel *object.Node

	started bool
}

// New creates a scene for cfg. Nothing is built until DidMove.
func New(cfg config.Config, opts Options) *GameScene {
	if opts.Sound == nil {
		opts.Sound = silent{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GameScene{
		cfg:    cfg,
		scene:  object.NewScene(cfg.Frame.Width, cfg.Frame.Height),
		board:  score.NewBoard(opts.Store, cfg.BestKey, opts.Logger),
		sound:  opts.Sound,
		logger: opts.Logger,
		rng:    rand.New(rand.NewSource(seed)),
		ctx:    context.Background(),
	}
}

// DidMove builds the scene when it is presented. Calling it again does nothing.
// ctx bounds best-score reads and writes for the life of the scene.
func (s *GameScene) DidMove(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true
	s.ctx = ctx

	s.scene.World.SetGravity(0, s.cfg.Physics.Gravity)
	s.scene.World.SetContactDelegate(s)
	s.scene.Background = color.RGBA{R: 38, G: 191, B: 230, A: 255}

	s.scrollNode = object.NewNode(NameScroll)
	s.scene.Root.AddChild(s.scrollNode)
	s.wallNode = object.NewNode(NameWalls)
	s.scrollNode.AddChild(s.wallNode)
	s.itemNode = object.NewNode(NameItems)
	s.scrollNode.AddChild(s.itemNode)

	s.setupGround()
	s.setupCloud()
	s.setupWall()
	s.setupItem()
	s.setupBird()
	s.setupScoreLabel()

	s.sound.PlayBackground()
	s.logger.Info("scene ready", "width", s.cfg.Frame.Width, "height", s.cfg.Frame.Height, "best", s.board.Best())
}

// Update advances the scene by dt seconds.
func (s *GameScene) Update(dt float64) {
	if !s.started {
		return
	}
	s.scene.Step(dt)
}

func (s *GameScene) Score() int     { return s.board.Score() }
func (s *GameScene) ItemScore() int { return s.board.ItemScore() }
func (s *GameScene) BestScore() int { return s.board.Best() }

// IsGameOver reports whether the world has stopped scrolling.
func (s *GameScene) IsGameOver() bool {
	return s.started && s.scrollNode.Speed <= 0
}

// CanRestart reports whether the death roll has finished and a tap restarts.
func (s *GameScene) CanRestart() bool {
	return s.started && s.bird.Speed == 0
}

// Scene returns the node tree and physics world.
func (s *GameScene) Scene() *object.Scene { return s.scene }

// Root returns the root node.
func (s *GameScene) Root() *object.Node { return s.scene.Root }

// Bird returns the player node, nil before DidMove.
func (s *GameScene) Bird() *object.Node { return s.bird }

func (s *GameScene) Width() float64  { return s.cfg.Frame.Width }
func (s *GameScene) Height() float64 { return s.cfg.Frame.Height }

// Background returns the sky colour.
func (s *GameScene) Background() color.RGBA { return s.scene.Background }

// Config returns the configuration the scene was built with.
func (s *GameScene) Config() config.Config { return s.cfg }
