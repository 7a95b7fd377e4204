package object

import (
	"image/color"
	"slices"

	"github.com/tomz197/flappy/internal/physics"
)

// Scene is the root of a node tree plus the physics world simulating it.
type Scene struct {
	Root       *Node
	World      *physics.World
	Width      float64
	Height     float64
	Background color.RGBA

	bodies []*physics.Body
}

// NewScene creates an empty scene of the given logical size.
func NewScene(width, height float64) *Scene {
	root := NewNode("root")
	root.isRoot = true
	return &Scene{
		Root:   root,
		World:  physics.NewWorld(width, height),
		Width:  width,
		Height: height,
	}
}

// Step advances the scene by dt seconds: actions first, then physics, then
// contact callbacks.
func (s *Scene) Step(dt float64) {
	if dt <= 0 {
		return
	}
	s.Root.Update(dt)
	s.bodies = s.Root.collectBodies(s.bodies[:0])
	s.World.Sync(s.bodies)
	s.World.Step(dt)
}

// Drawable is a visible node resolved to scene coordinates.
type Drawable struct {
	Node     *Node
	X, Y     float64
	Z        float64
	Rotation float64
}

// Drawables appends every visible sprite and label to dst, ordered back to
// front. Z positions accumulate down the tree; ties keep tree order.
func (s *Scene) Drawables(dst []Drawable) []Drawable {
	dst = appendDrawables(dst[:0], s.Root, 0, 0, 0)
	slices.SortStableFunc(dst, func(a, b Drawable) int {
		switch {
		case a.Z < b.Z:
			return -1
		case a.Z > b.Z:
			return 1
		default:
			return 0
		}
	})
	return dst
}

func appendDrawables(dst []Drawable, n *Node, px, py, pz float64) []Drawable {
	if n.Hidden {
		return dst
	}
	x, y, z := px+n.X, py+n.Y, pz+n.ZPosition
	if n.Texture != nil || n.Label != nil {
		dst = append(dst, Drawable{Node: n, X: x, Y: y, Z: z, Rotation: n.Rotation})
	}
	for _, c := range n.children {
		dst = appendDrawables(dst, c, x, y, z)
	}
	return dst
}
