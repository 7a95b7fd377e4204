package physics

import (
	"math"
	"testing"
)

var (
	testBird   = NewCategory("test-bird")
	testGround = NewCategory("test-ground")
	testGate   = NewCategory("test-gate")
)

type recorder struct {
	contacts []Contact
}

func (r *recorder) DidBegin(c Contact) {
	r.contacts = append(r.contacts, c)
}

func newBird(x, y float64) *Body {
	b := NewCircleBody(2)
	b.X, b.Y = x, y
	b.Category = testBird
	b.CollisionMask = testGround
	b.ContactTestMask = testGround | testGate
	return b
}

func newStatic(cat Category, x, y, w, h float64) *Body {
	b := NewRectBody(w, h)
	b.X, b.Y = x, y
	b.Dynamic = false
	b.AffectedByGravity = false
	b.Category = cat
	return b
}

func TestCategoriesAreDistinctBits(t *testing.T) {
	cats := []Category{testBird, testGround, testGate}
	for i, a := range cats {
		if a == 0 || a&(a-1) != 0 {
			t.Errorf("category %d = %b, want a single bit", i, a)
		}
		for j, b := range cats {
			if i != j && a&b != 0 {
				t.Errorf("categories %d and %d share bits", i, j)
			}
		}
	}
}

func TestApplyImpulse(t *testing.T) {
	b := NewCircleBody(1)
	b.Mass = 0.5
	b.ApplyImpulse(0, 10)
	if b.VY != 20 {
		t.Errorf("VY = %v, want 20", b.VY)
	}
	b.SetVelocity(0, 0)
	b.Mass = 0
	b.ApplyImpulse(3, 0)
	if b.VX != 3 {
		t.Errorf("zero mass should act as unit mass, VX = %v", b.VX)
	}
}

func TestGravityIntegration(t *testing.T) {
	w := NewWorld(120, 80)
	w.SetGravity(0, -10)
	b := newBird(50, 50)
	w.Add(b)

	w.Step(1)
	if b.VY != -10 || b.Y != 40 {
		t.Errorf("after 1s: VY=%v Y=%v, want -10 and 40", b.VY, b.Y)
	}

	b.AffectedByGravity = false
	b.SetVelocity(0, 0)
	w.Step(1)
	if b.Y != 40 {
		t.Errorf("body without gravity moved to %v", b.Y)
	}
}

func TestContactBeginsOnce(t *testing.T) {
	w := NewWorld(120, 80)
	rec := &recorder{}
	w.SetContactDelegate(rec)

	gate := newStatic(testGate, 50, 40, 8, 80)
	bird := newBird(20, 40)
	bird.AffectedByGravity = false
	w.Add(gate)
	w.Add(bird)

	bird.VX = 30
	for i := 0; i < 90; i++ {
		w.Step(1.0 / 60)
	}
	if len(rec.contacts) != 1 {
		t.Fatalf("contacts = %d, want exactly 1 while crossing the gate", len(rec.contacts))
	}
	if !rec.contacts[0].Involves(testGate) || !rec.contacts[0].Involves(testBird) {
		t.Errorf("contact does not involve bird and gate")
	}
	if rec.contacts[0].Other(bird) != gate {
		t.Errorf("Other(bird) should be the gate")
	}
	if bird.X < 60 {
		t.Errorf("bird should pass through a contact-only body, X = %v", bird.X)
	}

	// Leave and come back: a second contact begins.
	bird.VX = -60
	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60)
	}
	if len(rec.contacts) != 2 {
		t.Errorf("re-entering the gate should begin one new contact, got %d", len(rec.contacts))
	}
}

func TestContainedBodyBeginsOnce(t *testing.T) {
	w := NewWorld(120, 80)
	rec := &recorder{}
	w.SetContactDelegate(rec)

	gate := newStatic(testGate, 60, 40, 20, 40)
	bird := newBird(60, 40)
	bird.AffectedByGravity = false
	w.Add(gate)
	w.Add(bird)

	// Wholly inside the gate for many frames, drifting slowly.
	bird.VX = 3
	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60)
	}
	if len(rec.contacts) != 1 {
		t.Fatalf("contacts = %d while the bird stays inside the gate, want 1", len(rec.contacts))
	}

	bird.SetVelocity(0, 0)
	bird.X = 100
	w.Step(1.0 / 60)
	if len(rec.contacts) != 1 {
		t.Fatalf("separating must not begin a contact, got %d", len(rec.contacts))
	}

	bird.X = 60
	w.Step(1.0 / 60)
	if len(rec.contacts) != 2 {
		t.Errorf("returning inside should begin a second contact, got %d", len(rec.contacts))
	}
}

func TestCollisionPushesOut(t *testing.T) {
	w := NewWorld(120, 80)
	w.SetGravity(0, -100)
	rec := &recorder{}
	w.SetContactDelegate(rec)

	ground := newStatic(testGround, 60, 5, 120, 10)
	bird := newBird(60, 20)
	w.Add(ground)
	w.Add(bird)

	for i := 0; i < 180; i++ {
		w.Step(1.0 / 60)
	}
	if math.Abs(bird.Y-12) > 0.5 {
		t.Errorf("bird should rest on the ground at y~12, got %v", bird.Y)
	}
	if bird.VY < -2 {
		t.Errorf("resting bird keeps falling velocity %v", bird.VY)
	}
	if len(rec.contacts) != 1 {
		t.Errorf("resting on the ground should begin one contact, got %d", len(rec.contacts))
	}
}

func TestCollisionMaskLetsBodiesThrough(t *testing.T) {
	w := NewWorld(120, 80)
	w.SetGravity(0, -100)

	ground := newStatic(testGround, 60, 5, 120, 10)
	bird := newBird(60, 20)
	bird.CollisionMask = 0
	w.Add(ground)
	w.Add(bird)

	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60)
	}
	if bird.Y > 0 {
		t.Errorf("bird without collision mask should fall through, Y = %v", bird.Y)
	}
}

type fakeOwner struct {
	x, y     float64
	attached bool
}

func (o *fakeOwner) Attached() bool                    { return o.attached }
func (o *fakeOwner) WorldPosition() (float64, float64) { return o.x, o.y }
func (o *fakeOwner) SetWorldPosition(x, y float64)     { o.x, o.y = x, y }

func TestSyncFollowsOwners(t *testing.T) {
	w := NewWorld(120, 80)
	owner := &fakeOwner{x: 10, y: 10, attached: true}
	b := newStatic(testGround, 0, 0, 4, 4)
	b.Owner = owner

	w.Sync([]*Body{b})
	if len(w.Bodies()) != 1 || b.X != 10 || b.Y != 10 {
		t.Fatalf("sync did not add body at owner position: %+v", b)
	}

	owner.attached = false
	w.Sync([]*Body{b})
	if len(w.Bodies()) != 0 {
		t.Errorf("detached owner should remove its body")
	}

	owner.attached = true
	w.Sync(nil)
	if len(w.Bodies()) != 0 {
		t.Errorf("bodies missing from sync should be removed")
	}
}

func TestDynamicWriteBack(t *testing.T) {
	w := NewWorld(120, 80)
	w.SetGravity(0, -10)
	owner := &fakeOwner{x: 30, y: 60, attached: true}
	b := newBird(0, 0)
	b.Owner = owner

	w.Sync([]*Body{b})
	w.Step(0.5)
	if owner.y >= 60 {
		t.Errorf("owner should have fallen, y = %v", owner.y)
	}
}

func TestGeometry(t *testing.T) {
	if d := Distance(0, 0, 3, 4); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if !PointInCircle(1, 1, 0, 0, 2) {
		t.Error("point should be in circle")
	}
	if CirclesOverlap(0, 0, 1, 2, 0, 1) {
		t.Error("touching circles should not overlap")
	}

	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	if !CircleRectOverlap(11, 5, 2, r) {
		t.Error("circle should overlap box edge")
	}
	if CircleRectOverlap(13, 5, 2, r) {
		t.Error("circle should not overlap box")
	}

	dx, dy, ok := CircleRectPushOut(11, 5, 2, r)
	if !ok || math.Abs(dx-1) > 1e-9 || dy != 0 {
		t.Errorf("push out = (%v, %v, %v), want (1, 0, true)", dx, dy, ok)
	}
	dx, dy, ok = CircleRectPushOut(5, 9, 1, r)
	if !ok || dx != 0 || dy != 2 {
		t.Errorf("inside push out = (%v, %v, %v), want (0, 2, true)", dx, dy, ok)
	}

	dx, dy, ok = RectPushOut(Rect{MinX: 8, MinY: 2, MaxX: 12, MaxY: 4}, r)
	if !ok || dx != 2 || dy != 0 {
		t.Errorf("rect push out = (%v, %v, %v), want (2, 0, true)", dx, dy, ok)
	}
}
