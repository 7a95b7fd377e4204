package object

import (
	"math"
	"math/rand"
)

// Sparkle tuning
const (
	sparkleSpeed    = 18.0
	sparkleLifetime = 0.35
	sparkleSize     = 1.0
)

// SpawnSparkle adds a burst of count short-lived particles at (x, y) in
// parent's coordinates. Each particle flies outward and removes itself.
func SpawnSparkle(parent *Node, x, y float64, count int, rng *rand.Rand) {
	if parent == nil {
		return
	}

	for i := 0; i < count; i++ {
		// Random direction
		angle := rng.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := sparkleSpeed * (0.5 + rng.Float64())
		// Random lifetime variation (50% to 100%)
		life := sparkleLifetime * (0.5 + rng.Float64()*0.5)

		p := NewSprite("sparkle", Texture{Name: TexSparkle, Width: sparkleSize, Height: sparkleSize})
		p.SetPosition(x, y)
		p.ZPosition = 10
		p.Run(Sequence(
			MoveBy(math.Cos(angle)*spd*life, math.Sin(angle)*spd*life, life),
			RemoveFromParent(),
		))
		parent.AddChild(p)
	}
}
