package physics

import "github.com/solarlune/resolv"

// Category is a contact category bitmask. Bodies carry one category and two
// masks; the kind of a contact pair is found by AND-ing them.
type Category = resolv.Tags

// NewCategory allocates the next free category bit.
func NewCategory(name string) Category {
	return resolv.NewTag(name)
}

// ShapeKind selects the collision shape of a body.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// Owner is the node a body is attached to. Positions are in world
// coordinates, y up.
type Owner interface {
	Attached() bool
	WorldPosition() (x, y float64)
	SetWorldPosition(x, y float64)
}

// Body is a physics body. Static bodies follow their owner; dynamic bodies
// are integrated by the world and write their position back to the owner.
type Body struct {
	Kind   ShapeKind
	Width  float64 // Rect only
	Height float64 // Rect only
	Radius float64 // Circle only

	Category        Category
	CollisionMask   Category // Categories this body is pushed out of
	ContactTestMask Category // Categories that raise a contact

	Dynamic           bool
	AffectedByGravity bool
	AllowsRotation    bool
	Mass              float64

	X, Y   float64 // Center, world coordinates
	VX, VY float64

	Owner Owner

	id      uint64
	shape   resolv.IShape
	anchorX float64 // resolv position minus the shape's reference point
	anchorY float64
}

// NewCircleBody returns a dynamic, gravity affected circle of unit mass.
func NewCircleBody(radius float64) *Body {
	return &Body{
		Kind:              ShapeCircle,
		Radius:            radius,
		Dynamic:           true,
		AffectedByGravity: true,
		AllowsRotation:    true,
		Mass:              1,
	}
}

// NewRectBody returns a dynamic, gravity affected box of unit mass.
func NewRectBody(width, height float64) *Body {
	return &Body{
		Kind:              ShapeRect,
		Width:             width,
		Height:            height,
		Dynamic:           true,
		AffectedByGravity: true,
		AllowsRotation:    true,
		Mass:              1,
	}
}

// ApplyImpulse changes the velocity by impulse / mass.
func (b *Body) ApplyImpulse(dx, dy float64) {
	mass := b.Mass
	if mass <= 0 {
		mass = 1
	}
	b.VX += dx / mass
	b.VY += dy / mass
}

// SetVelocity replaces the velocity.
func (b *Body) SetVelocity(vx, vy float64) {
	b.VX = vx
	b.VY = vy
}

// Bounds returns the axis-aligned box around the body.
func (b *Body) Bounds() Rect {
	if b.Kind == ShapeCircle {
		return RectAround(b.X, b.Y, b.Radius*2, b.Radius*2)
	}
	return RectAround(b.X, b.Y, b.Width, b.Height)
}

// Overlaps reports whether the two bodies' shapes overlap.
func (b *Body) Overlaps(o *Body) bool {
	switch {
	case b.Kind == ShapeCircle && o.Kind == ShapeCircle:
		return CirclesOverlap(b.X, b.Y, b.Radius, o.X, o.Y, o.Radius)
	case b.Kind == ShapeCircle:
		return CircleRectOverlap(b.X, b.Y, b.Radius, o.Bounds())
	case o.Kind == ShapeCircle:
		return CircleRectOverlap(o.X, o.Y, o.Radius, b.Bounds())
	default:
		return RectsOverlap(b.Bounds(), o.Bounds())
	}
}

// pushOut returns the translation that separates b from a static body o.
func (b *Body) pushOut(o *Body) (dx, dy float64, ok bool) {
	switch {
	case b.Kind == ShapeCircle && o.Kind == ShapeRect:
		return CircleRectPushOut(b.X, b.Y, b.Radius, o.Bounds())
	case b.Kind == ShapeCircle && o.Kind == ShapeCircle:
		dist := Distance(o.X, o.Y, b.X, b.Y)
		overlap := b.Radius + o.Radius - dist
		if overlap <= 0 {
			return 0, 0, false
		}
		if dist == 0 {
			return 0, overlap, true
		}
		return (b.X - o.X) / dist * overlap, (b.Y - o.Y) / dist * overlap, true
	default:
		return RectPushOut(b.Bounds(), o.Bounds())
	}
}
