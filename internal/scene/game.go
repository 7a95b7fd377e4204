package scene

import (
	"math"

	"github.com/tomz197/flappy/internal/object"
	"github.com/tomz197/flappy/internal/physics"
)

const sparkleCount = 6

// DidBegin dispatches a new contact by category: a gate pass scores, a coin
// is collected, anything else ends the run.
func (s *GameScene) DidBegin(contact physics.Contact) {
	if s.scrollNode.Speed <= 0 {
		return
	}

	switch {
	case contact.Involves(ScoreCategory):
		s.board.Pass(s.ctx)
		s.updateLabels()
		s.logger.Debug("passed wall", "score", s.board.Score(), "best", s.board.Best())

	case contact.Involves(ItemCategory):
		s.collect(contact)
		s.board.Collect(s.ctx)
		s.updateLabels()
		s.sound.PlayCoin()
		s.logger.Debug("collected coin", "items", s.board.ItemScore(), "best", s.board.Best())

	default:
		s.gameOver()
	}
}

// collect removes the coin of the contact and leaves a sparkle where it was.
func (s *GameScene) collect(contact physics.Contact) {
	coin := contact.BodyA
	if coin.Category&ItemCategory == 0 {
		coin = contact.BodyB
	}
	n, ok := coin.Owner.(*object.Node)
	if !ok {
		return
	}
	x, y := n.WorldPosition()
	n.RemoveFromParent()
	object.SpawnSparkle(s.itemNode, x, y, sparkleCount, s.rng)
}

func (s *GameScene) gameOver() {
	s.scrollNode.Speed = 0
	s.bird.Body.CollisionMask = GroundCategory

	roll := object.RotateBy(math.Pi*s.bird.Y*s.cfg.Bird.RollFactor, s.cfg.Bird.RollSeconds)
	s.bird.Run(roll, func() {
		s.bird.Speed = 0
	})
	s.logger.Info("game over", "score", s.board.Score(), "items", s.board.ItemScore(), "best", s.board.Best())
}

// TouchesBegan handles a tap: flap while the world scrolls, restart once the
// death roll has finished.
func (s *GameScene) TouchesBegan() {
	if !s.started {
		return
	}
	if s.scrollNode.Speed > 0 {
		s.bird.Body.SetVelocity(0, 0)
		s.bird.Body.ApplyImpulse(0, s.cfg.Physics.FlapImpulse)
	} else if s.bird.Speed == 0 {
		s.Restart()
	}
}

// Restart clears the scores and spawned content and puts the bird back at
// its start position.
func (s *GameScene) Restart() {
	if !s.started {
		return
	}
	s.board.Reset()
	s.updateLabels()

	s.bird.SetPosition(s.birdStart())
	s.bird.Body.SetVelocity(0, 0)
	s.bird.Body.CollisionMask = GroundCategory | WallCategory
	s.bird.Rotation = 0

	s.wallNode.RemoveAllChildren()
	s.itemNode.RemoveAllChildren()

	s.bird.Speed = 1
	s.scrollNode.Speed = 1
	s.logger.Info("restart", "best", s.board.Best())
}
