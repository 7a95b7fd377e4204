// Package object is the scene graph: nodes positioned relative to their
// parent, timed actions that animate them, and the Scene that steps actions
// and physics together.
package object

import (
	"slices"

	"github.com/tomz197/flappy/internal/physics"
)

// Node is an element of the scene tree. Positions are relative to the parent
// with y pointing up. Speed scales the time seen by the node's actions and by
// its whole subtree, so a container with Speed 0 freezes everything under it.
type Node struct {
	Name      string
	X, Y      float64
	ZPosition float64
	Rotation  float64 // Radians, counter-clockwise
	Speed     float64
	Hidden    bool

	Texture *Texture      // Sprite image, nil for plain containers
	Label   *Label        // Text, nil for non-label nodes
	Body    *physics.Body // Optional physics body

	parent   *Node
	children []*Node
	actions  []*runningAction
	isRoot   bool
}

type runningAction struct {
	r          runner
	completion func()
	removed    bool
}

// NewNode creates an empty container node.
func NewNode(name string) *Node {
	return &Node{Name: name, Speed: 1}
}

// NewSprite creates a node that draws the given texture.
func NewSprite(name string, tex Texture) *Node {
	n := NewNode(name)
	n.Texture = &tex
	return n
}

// NewLabel creates a left-aligned text node.
func NewLabel(name, text string) *Node {
	n := NewNode(name)
	n.Label = &Label{Text: text}
	return n
}

// SetPosition sets the position relative to the parent.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
}

// AttachBody sets the node's physics body and makes the node its owner.
func (n *Node) AttachBody(b *physics.Body) {
	b.Owner = n
	n.Body = b
}

// Parent returns the node's parent, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild appends child to n, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.RemoveFromParent()
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveFromParent detaches the node. It keeps its own children and actions.
func (n *Node) RemoveFromParent() {
	p := n.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = nil
}

// RemoveAllChildren detaches every child of n.
func (n *Node) RemoveAllChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// RemoveChildren detaches the given nodes if they are children of n.
func (n *Node) RemoveChildren(nodes ...*Node) {
	for _, c := range nodes {
		if c.parent == n {
			c.RemoveFromParent()
		}
	}
}

// Attached reports whether the node is part of a scene tree.
func (n *Node) Attached() bool {
	for p := n; p != nil; p = p.parent {
		if p.isRoot {
			return true
		}
	}
	return false
}

// WorldPosition returns the node's position in scene coordinates.
func (n *Node) WorldPosition() (x, y float64) {
	for p := n; p != nil; p = p.parent {
		x += p.X
		y += p.Y
	}
	return x, y
}

// SetWorldPosition moves the node so its scene position is (x, y).
func (n *Node) SetWorldPosition(x, y float64) {
	var px, py float64
	if n.parent != nil {
		px, py = n.parent.WorldPosition()
	}
	n.X = x - px
	n.Y = y - py
}

// Run starts an action on the node. The optional completion runs once the
// action finishes; it never runs for actions that repeat forever.
func (n *Node) Run(a Action, completion ...func()) {
	ra := &runningAction{r: a.newRunner()}
	if len(completion) > 0 {
		ra.completion = completion[0]
	}
	n.actions = append(n.actions, ra)
}

// HasActions reports whether any action is running on the node.
func (n *Node) HasActions() bool {
	return len(n.actions) > 0
}

// RemoveAllActions stops every action on the node without completing them.
func (n *Node) RemoveAllActions() {
	for _, a := range n.actions {
		a.removed = true
	}
	n.actions = nil
}

// Update advances the node's actions and its subtree by dt seconds of
// parent time.
func (n *Node) Update(dt float64) {
	local := dt * n.Speed
	if local <= 0 {
		return
	}

	if len(n.actions) > 0 {
		for _, a := range slices.Clone(n.actions) {
			if a.removed {
				continue
			}
			if _, done := a.r.step(n, local); done {
				a.removed = true
				if i := slices.Index(n.actions, a); i >= 0 {
					n.actions = slices.Delete(n.actions, i, i+1)
				}
				if a.completion != nil {
					a.completion()
				}
			}
		}
	}

	if len(n.children) > 0 {
		for _, c := range slices.Clone(n.children) {
			if c.parent == n {
				c.Update(local)
			}
		}
	}
}

// collectBodies appends the bodies of n's subtree to dst.
func (n *Node) collectBodies(dst []*physics.Body) []*physics.Body {
	if n.Body != nil {
		dst = append(dst, n.Body)
	}
	for _, c := range n.children {
		dst = c.collectBodies(dst)
	}
	return dst
}

// Find returns the first node in n's subtree with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

var _ physics.Owner = (*Node)(nil)
