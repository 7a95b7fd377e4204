package object

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/flappy/internal/physics"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestMoveByAndSequenceCarryTime(t *testing.T) {
	n := NewNode("n")
	n.Run(Sequence(MoveBy(-10, 0, 1), MoveBy(10, 0, 0), MoveBy(0, 4, 1)))

	n.Update(0.5)
	if !near(n.X, -5) {
		t.Fatalf("X after 0.5s = %v, want -5", n.X)
	}

	// 0.5s finishes the first move; the reset is instant and the leftover
	// 0.25s goes into the third step.
	n.Update(0.75)
	if !near(n.X, 0) || !near(n.Y, 1) {
		t.Fatalf("position = (%v, %v), want (0, 1)", n.X, n.Y)
	}

	n.Update(10)
	if !near(n.Y, 4) {
		t.Errorf("Y = %v, want exactly the full move of 4", n.Y)
	}
	if n.HasActions() {
		t.Errorf("finished sequence should be removed")
	}
}

func TestRepeatForeverScrollLoop(t *testing.T) {
	n := NewNode("tile")
	n.SetPosition(12, 5)
	n.Run(RepeatForever(Sequence(MoveBy(-24, 0, 5), MoveBy(24, 0, 0))))

	for i := 0; i < 40; i++ {
		n.Update(0.25)
	}
	// 10 seconds is exactly two full loops.
	if !near(n.X, 12) {
		t.Errorf("X = %v, want back at 12", n.X)
	}

	n.Update(2.5)
	if !near(n.X, 0) {
		t.Errorf("X = %v, want 0 half way through a loop", n.X)
	}
	if !n.HasActions() {
		t.Errorf("repeat forever should keep running")
	}
}

func TestRepeatForeverSpawner(t *testing.T) {
	n := NewNode("spawner")
	spawned := 0
	n.Run(RepeatForever(Sequence(Run(func() { spawned++ }), Wait(2))))

	n.Update(0.01)
	if spawned != 1 {
		t.Fatalf("first spawn should happen immediately, got %d", spawned)
	}
	for i := 0; i < 100; i++ {
		n.Update(0.05)
	}
	// 5.01 seconds: spawns at 0, 2, 4.
	if spawned != 3 {
		t.Errorf("spawned = %d, want 3", spawned)
	}
}

func TestRepeatForeverZeroLengthDoesNotSpin(t *testing.T) {
	n := NewNode("spin")
	calls := 0
	n.Run(RepeatForever(Run(func() { calls++ })))
	n.Update(1)
	n.Update(1)
	if calls != 2 {
		t.Errorf("zero-length repeat should run once per update, got %d", calls)
	}
}

func TestSpeedScalesSubtree(t *testing.T) {
	parent := NewNode("scroll")
	child := NewNode("wall")
	parent.AddChild(child)
	child.Run(MoveBy(-10, 0, 1))

	parent.Speed = 0
	parent.Update(0.5)
	if child.X != 0 {
		t.Fatalf("paused subtree moved to %v", child.X)
	}

	parent.Speed = 1
	child.Speed = 2
	parent.Update(0.25)
	if !near(child.X, -5) {
		t.Errorf("X = %v, want -5 at double speed", child.X)
	}
}

func TestRemoveFromParentAction(t *testing.T) {
	parent := NewNode("items")
	item := NewNode("item")
	parent.AddChild(item)
	item.Run(Sequence(MoveBy(-5, 0, 1), RemoveFromParent()))

	parent.Update(0.5)
	if item.Parent() != parent {
		t.Fatalf("removed too early")
	}
	parent.Update(0.6)
	if item.Parent() != nil || len(parent.Children()) != 0 {
		t.Errorf("item should have removed itself")
	}
}

func TestRunCompletion(t *testing.T) {
	n := NewNode("bird")
	done := false
	n.Run(RotateBy(math.Pi, 1), func() { done = true })
	n.Update(0.5)
	if done || !near(n.Rotation, math.Pi/2) {
		t.Fatalf("rotation = %v, done = %v", n.Rotation, done)
	}
	n.Update(0.5)
	if !done || !near(n.Rotation, math.Pi) {
		t.Errorf("rotation = %v, done = %v", n.Rotation, done)
	}

	done = false
	n.Run(Wait(1), func() { done = true })
	n.RemoveAllActions()
	n.Update(2)
	if done {
		t.Errorf("removed actions must not complete")
	}
}

func TestAnimateCyclesTextures(t *testing.T) {
	a := Texture{Name: TexBirdA, Width: 6, Height: 4}
	b := Texture{Name: TexBirdB, Width: 6, Height: 4}
	n := NewSprite("bird", a)
	n.Run(RepeatForever(Animate([]Texture{a, b}, 0.2)))

	n.Update(0.1)
	if n.Texture.Name != TexBirdA {
		t.Errorf("frame 0 = %s", n.Texture.Name)
	}
	n.Update(0.2)
	if n.Texture.Name != TexBirdB {
		t.Errorf("frame 1 = %s", n.Texture.Name)
	}
	n.Update(0.2)
	if n.Texture.Name != TexBirdA {
		t.Errorf("animation should loop, got %s", n.Texture.Name)
	}
}

func TestWorldPositionAndAttachment(t *testing.T) {
	scene := NewScene(120, 80)
	container := NewNode("wall")
	container.SetPosition(100, 0)
	lower := NewNode("lower")
	lower.SetPosition(0, 20)
	container.AddChild(lower)

	if lower.Attached() {
		t.Fatal("node outside the tree reports attached")
	}
	scene.Root.AddChild(container)
	if !lower.Attached() {
		t.Fatal("node in the tree reports detached")
	}

	x, y := lower.WorldPosition()
	if x != 100 || y != 20 {
		t.Errorf("world position = (%v, %v), want (100, 20)", x, y)
	}
	lower.SetWorldPosition(90, 30)
	if lower.X != -10 || lower.Y != 30 {
		t.Errorf("local position = (%v, %v), want (-10, 30)", lower.X, lower.Y)
	}

	if scene.Root.Find("lower") != lower {
		t.Errorf("Find did not locate the node")
	}

	container.RemoveAllChildren()
	if lower.Attached() || lower.Parent() != nil {
		t.Errorf("RemoveAllChildren should detach")
	}
}

func TestAddChildReparents(t *testing.T) {
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	a.AddChild(c)
	b.AddChild(c)
	if len(a.Children()) != 0 || c.Parent() != b {
		t.Errorf("AddChild should move the node to its new parent")
	}
	b.RemoveChildren(c, a)
	if len(b.Children()) != 0 {
		t.Errorf("RemoveChildren left %d children", len(b.Children()))
	}
}

func TestDrawablesOrderedByZ(t *testing.T) {
	scene := NewScene(120, 80)
	cloud := NewSprite("cloud", Texture{Name: TexCloud, Width: 30, Height: 8})
	cloud.ZPosition = -100
	walls := NewNode("walls")
	walls.ZPosition = -50
	wall := NewSprite("wall", Texture{Name: TexWall, Width: 8, Height: 60})
	walls.AddChild(wall)
	label := NewLabel("score", "Score:0")
	label.ZPosition = 100
	hidden := NewSprite("hidden", Texture{Name: TexCoin})
	hidden.Hidden = true

	scene.Root.AddChild(label)
	scene.Root.AddChild(walls)
	scene.Root.AddChild(hidden)
	scene.Root.AddChild(cloud)

	got := scene.Drawables(nil)
	if len(got) != 3 {
		t.Fatalf("drawables = %d, want 3", len(got))
	}
	want := []*Node{cloud, wall, label}
	for i, d := range got {
		if d.Node != want[i] {
			t.Errorf("drawable %d = %s, want %s", i, d.Node.Name, want[i].Name)
		}
	}
	if got[1].Z != -50 {
		t.Errorf("child z should accumulate, got %v", got[1].Z)
	}
}

func TestSceneStepRemovesDetachedBodies(t *testing.T) {
	scene := NewScene(120, 80)
	coin := NewNode("coin")
	body := physics.NewCircleBody(2)
	body.Dynamic = false
	coin.AttachBody(body)
	scene.Root.AddChild(coin)

	scene.Step(1.0 / 60)
	if len(scene.World.Bodies()) != 1 {
		t.Fatalf("bodies = %d, want 1", len(scene.World.Bodies()))
	}
	coin.RemoveFromParent()
	scene.Step(1.0 / 60)
	if len(scene.World.Bodies()) != 0 {
		t.Errorf("detached node's body should leave the world")
	}
}

func TestSpawnSparkle(t *testing.T) {
	parent := NewNode("fx")
	SpawnSparkle(parent, 10, 10, 6, rand.New(rand.NewSource(1)))
	if len(parent.Children()) != 6 {
		t.Fatalf("sparkles = %d, want 6", len(parent.Children()))
	}
	parent.Update(1)
	if len(parent.Children()) != 0 {
		t.Errorf("sparkles should expire, %d left", len(parent.Children()))
	}
	SpawnSparkle(nil, 0, 0, 3, rand.New(rand.NewSource(1)))
}

func TestLabelSetText(t *testing.T) {
	l := NewLabel("score", "Score:0")
	l.SetText("Score:3")
	if l.Label.Text != "Score:3" {
		t.Errorf("text = %q", l.Label.Text)
	}
	NewNode("plain").SetText("ignored")
}
