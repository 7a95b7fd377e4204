package physics

import (
	"math"

	"github.com/solarlune/resolv"
)

// spaceCellSize is the resolv broad-phase cell size in logical units.
const spaceCellSize = 8

// broadSkin inflates every resolv shape so the broad phase reports a superset
// of the pairs the exact geometry below accepts.
const broadSkin = 0.5

// Contact is a pair of bodies that started touching.
type Contact struct {
	BodyA *Body
	BodyB *Body
}

// Involves reports whether either body carries every bit of cat.
func (c Contact) Involves(cat Category) bool {
	return c.BodyA.Category&cat == cat || c.BodyB.Category&cat == cat
}

// Other returns the body of the pair that is not b.
func (c Contact) Other(b *Body) *Body {
	if c.BodyA == b {
		return c.BodyB
	}
	return c.BodyA
}

// ContactDelegate receives contact notifications after each step.
type ContactDelegate interface {
	DidBegin(contact Contact)
}

type pairKey struct {
	lo, hi uint64
}

func keyOf(a, b *Body) pairKey {
	if a.id < b.id {
		return pairKey{a.id, b.id}
	}
	return pairKey{b.id, a.id}
}

// World simulates bodies on a resolv space. The space is padded by a margin
// on every side so off-screen spawns still get broad-phase cells.
type World struct {
	GravityX float64
	GravityY float64

	space    *resolv.Space
	margin   float64
	delegate ContactDelegate

	nextID   uint64
	bodies   []*Body
	byShape  map[resolv.IShape]*Body
	touching map[pairKey]struct{}

	// Reused per step
	seen    map[*Body]struct{}
	current map[pairKey]struct{}
	hits    []*Body
	began   []Contact
}

// NewWorld creates a world covering a width x height frame.
func NewWorld(width, height float64) *World {
	margin := math.Max(width, height)
	spaceW := int(math.Ceil(width + 2*margin))
	spaceH := int(math.Ceil(height + 2*margin))
	return &World{
		space:    resolv.NewSpace(spaceW, spaceH, spaceCellSize, spaceCellSize),
		margin:   margin,
		byShape:  make(map[resolv.IShape]*Body),
		touching: make(map[pairKey]struct{}),
		seen:     make(map[*Body]struct{}),
		current:  make(map[pairKey]struct{}),
	}
}

// SetGravity sets the constant acceleration applied to gravity-affected bodies.
func (w *World) SetGravity(x, y float64) {
	w.GravityX = x
	w.GravityY = y
}

// SetContactDelegate sets the receiver of DidBegin notifications.
func (w *World) SetContactDelegate(d ContactDelegate) {
	w.delegate = d
}

// Bodies returns the bodies currently in the world.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Add puts a body into the world. Adding a body twice is a no-op.
func (w *World) Add(b *Body) {
	if b.shape != nil {
		return
	}
	w.nextID++
	b.id = w.nextID

	switch b.Kind {
	case ShapeCircle:
		cx, cy := b.X+w.margin, b.Y+w.margin
		shape := resolv.NewCircle(cx, cy, b.Radius+broadSkin)
		p := shape.Position()
		b.anchorX, b.anchorY = p.X-cx, p.Y-cy
		b.shape = shape
	default:
		minX, minY := b.X-b.Width/2-broadSkin+w.margin, b.Y-b.Height/2-broadSkin+w.margin
		shape := resolv.NewRectangleTopLeft(minX, minY, b.Width+2*broadSkin, b.Height+2*broadSkin)
		p := shape.Position()
		b.anchorX, b.anchorY = p.X-minX, p.Y-minY
		b.shape = shape
	}
	*b.shape.Tags() = b.Category

	w.space.Add(b.shape)
	w.byShape[b.shape] = b
	w.bodies = append(w.bodies, b)
}

// Remove takes a body out of the world and forgets its contacts.
func (w *World) Remove(b *Body) {
	if b.shape == nil {
		return
	}
	w.space.Remove(b.shape)
	delete(w.byShape, b.shape)
	b.shape = nil

	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	for key := range w.touching {
		if key.lo == b.id || key.hi == b.id {
			delete(w.touching, key)
		}
	}
}

// Sync makes the world hold exactly the given bodies whose owners are
// attached, and copies owner positions into every body.
func (w *World) Sync(bodies []*Body) {
	clear(w.seen)
	for _, b := range bodies {
		if b.Owner != nil && !b.Owner.Attached() {
			continue
		}
		w.seen[b] = struct{}{}
		if b.Owner != nil {
			b.X, b.Y = b.Owner.WorldPosition()
		}
		if b.shape == nil {
			w.Add(b)
		}
	}

	for i := len(w.bodies) - 1; i >= 0; i-- {
		b := w.bodies[i]
		if _, ok := w.seen[b]; !ok {
			w.Remove(b)
		}
	}

	for _, b := range w.bodies {
		w.place(b)
	}
}

// place moves the resolv shape to the body's position.
func (w *World) place(b *Body) {
	*b.shape.Tags() = b.Category
	if b.Kind == ShapeCircle {
		b.shape.SetPosition(b.X+w.margin+b.anchorX, b.Y+w.margin+b.anchorY)
		return
	}
	b.shape.SetPosition(b.X-b.Width/2-broadSkin+w.margin+b.anchorX, b.Y-b.Height/2-broadSkin+w.margin+b.anchorY)
}

// Step advances the simulation by dt seconds. Dynamic bodies are integrated,
// pushed out of static bodies in their collision mask, and every pair that
// starts touching is reported once to the delegate.
func (w *World) Step(dt float64) {
	for _, b := range w.bodies {
		if !b.Dynamic {
			continue
		}
		if b.AffectedByGravity {
			b.VX += w.GravityX * dt
			b.VY += w.GravityY * dt
		}
		b.X += b.VX * dt
		b.Y += b.VY * dt
		w.place(b)
	}

	clear(w.current)
	w.began = w.began[:0]

	for _, a := range w.bodies {
		if !a.Dynamic {
			continue
		}
		mask := a.CollisionMask | a.ContactTestMask
		if mask == 0 {
			continue
		}

		// Cells only pick candidates; resolv's edge tests miss a shape that
		// lies wholly inside another, so Overlaps decides.
		w.hits = w.hits[:0]
		a.shape.SelectTouchingCells(1).FilterShapes().ByTags(mask).ForEach(func(shape resolv.IShape) bool {
			if other, ok := w.byShape[shape]; ok && other != a {
				w.hits = append(w.hits, other)
			}
			return true
		})

		for _, o := range w.hits {
			if !a.Overlaps(o) {
				continue
			}
			if a.ContactTestMask&o.Category != 0 || o.ContactTestMask&a.Category != 0 {
				key := keyOf(a, o)
				if _, dup := w.current[key]; !dup {
					w.current[key] = struct{}{}
					if _, was := w.touching[key]; !was {
						w.began = append(w.began, Contact{BodyA: a, BodyB: o})
					}
				}
			}
			if a.CollisionMask&o.Category != 0 && !o.Dynamic {
				w.resolve(a, o)
			}
		}
	}

	w.touching, w.current = w.current, w.touching

	for _, b := range w.bodies {
		if b.Dynamic && b.Owner != nil {
			b.Owner.SetWorldPosition(b.X, b.Y)
		}
	}

	if w.delegate == nil {
		return
	}
	for _, c := range w.began {
		w.delegate.DidBegin(c)
	}
}

// resolve pushes the dynamic body a out of static body o and cancels the
// velocity component pointing into o.
func (w *World) resolve(a, o *Body) {
	dx, dy, ok := a.pushOut(o)
	if !ok {
		return
	}
	a.X += dx
	a.Y += dy
	if dx != 0 && a.VX*dx < 0 {
		a.VX = 0
	}
	if dy != 0 && a.VY*dy < 0 {
		a.VY = 0
	}
	w.place(a)
}
