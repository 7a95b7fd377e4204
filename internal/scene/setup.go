package scene

import (
	"fmt"

	"github.com/tomz197/flappy/internal/object"
	"github.com/tomz197/flappy/internal/physics"
)

// Draw order
const (
	zCloud = -100
	zWall  = -50
	zLabel = 100
)

// setupGround tiles the ground along the bottom edge and scrolls it left
// one tile at a time.
func (s *GameScene) setupGround() {
	size := s.cfg.Textures.Ground
	tex := object.Texture{Name: object.TexGround, Width: size.Width, Height: size.Height}
	loop := object.RepeatForever(object.Sequence(
		object.MoveBy(-size.Width, 0, s.cfg.Scroll.GroundSeconds),
		object.MoveBy(size.Width, 0, 0),
	))

	n := int(s.cfg.Frame.Width/size.Width) + 2
	for i := 0; i < n; i++ {
		tile := object.NewSprite(NameGround, tex)
		tile.SetPosition(size.Width/2+size.Width*float64(i), size.Height/2)
		tile.Run(loop)

		body := physics.NewRectBody(size.Width, size.Height)
		body.Dynamic = false
		body.AffectedByGravity = false
		body.Category = GroundCategory
		tile.AttachBody(body)

		s.scrollNode.AddChild(tile)
	}
}

// setupCloud tiles the clouds along the top edge, behind everything else.
func (s *GameScene) setupCloud() {
	size := s.cfg.Textures.Cloud
	tex := object.Texture{Name: object.TexCloud, Width: size.Width, Height: size.Height}
	loop := object.RepeatForever(object.Sequence(
		object.MoveBy(-size.Width, 0, s.cfg.Scroll.CloudSeconds),
		object.MoveBy(size.Width, 0, 0),
	))

	n := int(s.cfg.Frame.Width/size.Width) + 2
	for i := 0; i < n; i++ {
		tile := object.NewSprite(NameCloud, tex)
		tile.ZPosition = zCloud
		tile.SetPosition(size.Width/2+size.Width*float64(i), s.cfg.Frame.Height-size.Height/2)
		tile.Run(loop)
		s.scrollNode.AddChild(tile)
	}
}

func (s *GameScene) setupWall() {
	s.wallNode.Run(object.RepeatForever(object.Sequence(
		object.Run(s.createWall),
		object.Wait(s.cfg.Spawn.WallInterval),
	)))
}

// createWall spawns a wall pair just off the right edge with the gap moved
// up or down at random, plus the invisible gate that scores a pass.
func (s *GameScene) createWall() {
	wall := s.cfg.Textures.Wall
	bird := s.cfg.Textures.Bird
	width, height := s.cfg.Frame.Width, s.cfg.Frame.Height

	container := object.NewNode(NameWall)
	container.SetPosition(width+wall.Width/2, 0)
	container.ZPosition = zWall

	slit := s.cfg.Slit()
	underCenter := s.cfg.SkyCenterY() - slit/2 - wall.Height/2
	underY := underCenter + s.jitter(s.cfg.Spawn.WallJitter)

	tex := object.Texture{Name: object.TexWall, Width: wall.Width, Height: wall.Height}
	lower := object.NewSprite(NameWallLower, tex)
	lower.SetPosition(0, underY)
	lower.AttachBody(s.staticRect(wall.Width, wall.Height, WallCategory))
	container.AddChild(lower)

	upper := object.NewSprite(NameWallUpper, tex)
	upper.SetPosition(0, underY+wall.Height+slit)
	upper.AttachBody(s.staticRect(wall.Width, wall.Height, WallCategory))
	container.AddChild(upper)

	gate := object.NewNode(NameGate)
	gate.SetPosition(wall.Width+bird.Width/2, height/2)
	gate.AttachBody(s.staticRect(wall.Width, height, ScoreCategory))
	container.AddChild(gate)

	container.Run(object.Sequence(
		object.MoveBy(-(width+wall.Width), 0, s.cfg.Scroll.WallSeconds),
		object.RemoveFromParent(),
	))
	s.wallNode.AddChild(container)
}

func (s *GameScene) setupItem() {
	s.itemNode.Run(object.RepeatForever(object.Sequence(
		object.Run(s.createItem),
		object.Wait(s.cfg.Spawn.ItemInterval),
	)))
}

// createItem spawns a coin ahead of the next wall gap. Its container crosses
// the frame in ItemSeconds and is then removed, coin or not.
func (s *GameScene) createItem() {
	coin := s.cfg.Textures.Coin
	width := s.cfg.Frame.Width

	container := object.NewNode(NameItem)
	container.SetPosition(width+coin.Width/2, 0)
	container.ZPosition = zWall

	item := object.NewSprite(NameCoin, object.Texture{Name: object.TexCoin, Width: coin.Width, Height: coin.Height})
	item.SetPosition(s.cfg.Spawn.ItemOffsetX, s.cfg.SkyCenterY()-coin.Height/2+s.jitter(s.cfg.Spawn.ItemJitter))

	body := physics.NewCircleBody(coin.Height / 2)
	body.Dynamic = false
	body.AffectedByGravity = false
	body.Category = ItemCategory
	item.AttachBody(body)
	container.AddChild(item)

	container.Run(object.Sequence(
		object.MoveBy(-(width+coin.Width), 0, s.cfg.Scroll.ItemSeconds),
		object.RemoveFromParent(),
	))
	s.itemNode.AddChild(container)
}

// setupBird places the flapping player sprite and its physics body.
func (s *GameScene) setupBird() {
	size := s.cfg.Textures.Bird
	frames := []object.Texture{
		{Name: object.TexBirdA, Width: size.Width, Height: size.Height},
		{Name: object.TexBirdB, Width: size.Width, Height: size.Height},
	}

	s.bird = object.NewSprite(NameBird, frames[0])
	s.bird.SetPosition(s.birdStart())
	s.bird.Run(object.RepeatForever(object.Animate(frames, s.cfg.Bird.FrameTime)))

	body := physics.NewCircleBody(size.Height / 2)
	body.AllowsRotation = false
	body.Mass = s.cfg.Physics.BirdMass
	body.Category = BirdCategory
	// Coins stay in the collision mask: the bird is nudged by a coin for the
	// frame before DidBegin removes it.
	body.CollisionMask = GroundCategory | WallCategory | ItemCategory
	body.ContactTestMask = GroundCategory | WallCategory | ScoreCategory | ItemCategory
	s.bird.AttachBody(body)

	s.scene.Root.AddChild(s.bird)
}

// setupScoreLabel zeroes the run, loads the stored best and lays out the
// three score labels in the top-left corner.
func (s *GameScene) setupScoreLabel() {
	s.board.Reset()
	if err := s.board.Load(s.ctx); err != nil {
		s.logger.Warn("load best score", "err", err)
	}

	top := s.cfg.Frame.Height
	s.scoreLabel = s.newLabel("score_label", top-4)
	s.itemScoreLabel = s.newLabel("item_score_label", top-8)
	s.bestScoreLabel = s.newLabel("best_score_label", top-12)
	s.updateLabels()
}

func (s *GameScene) newLabel(name string, y float64) *object.Node {
	l := object.NewLabel(name, "")
	l.SetPosition(2, y)
	l.ZPosition = zLabel
	s.scene.Root.AddChild(l)
	return l
}

func (s *GameScene) updateLabels() {
	s.scoreLabel.SetText(fmt.Sprintf("Score:%d", s.board.Score()))
	s.itemScoreLabel.SetText(fmt.Sprintf("ItemScore:%d", s.board.ItemScore()))
	s.bestScoreLabel.SetText(fmt.Sprintf("Best Score:%d", s.board.Best()))
}

func (s *GameScene) staticRect(w, h float64, cat physics.Category) *physics.Body {
	body := physics.NewRectBody(w, h)
	body.Dynamic = false
	body.AffectedByGravity = false
	body.Category = cat
	return body
}

func (s *GameScene) birdStart() (x, y float64) {
	return s.cfg.Frame.Width * s.cfg.Bird.StartX, s.cfg.Frame.Height * s.cfg.Bird.StartY
}

// jitter returns a uniform offset in [-max, max].
func (s *GameScene) jitter(max float64) float64 {
	if max <= 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * max
}
