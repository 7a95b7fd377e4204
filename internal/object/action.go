package object

// Action describes a timed change to a node. An Action value is a template:
// every Node.Run starts a fresh copy, so one action can drive many nodes.
type Action interface {
	newRunner() runner
}

// runner is one running instance of an action. step consumes up to dt
// seconds and returns the unused remainder once the action is done.
type runner interface {
	step(n *Node, dt float64) (rest float64, done bool)
}

type actionFunc func() runner

func (f actionFunc) newRunner() runner { return f() }

// MoveBy moves the node by (dx, dy) over duration seconds. A zero duration
// moves it at once.
func MoveBy(dx, dy, duration float64) Action {
	return actionFunc(func() runner {
		return &tween{duration: duration, apply: func(n *Node, f float64) {
			n.X += dx * f
			n.Y += dy * f
		}}
	})
}

// RotateBy turns the node by angle radians over duration seconds.
func RotateBy(angle, duration float64) Action {
	return actionFunc(func() runner {
		return &tween{duration: duration, apply: func(n *Node, f float64) {
			n.Rotation += angle * f
		}}
	})
}

// Wait does nothing for duration seconds.
func Wait(duration float64) Action {
	return actionFunc(func() runner {
		return &tween{duration: duration, apply: func(*Node, float64) {}}
	})
}

// tween applies a linear change, handing out the fraction of the total
// completed in each step.
type tween struct {
	duration float64
	elapsed  float64
	applied  float64
	apply    func(n *Node, fraction float64)
}

func (t *tween) step(n *Node, dt float64) (float64, bool) {
	if t.duration <= 0 {
		t.apply(n, 1-t.applied)
		t.applied = 1
		return dt, true
	}

	remaining := t.duration - t.elapsed
	if dt < remaining {
		t.elapsed += dt
		f := t.elapsed / t.duration
		t.apply(n, f-t.applied)
		t.applied = f
		return 0, false
	}

	t.elapsed = t.duration
	t.apply(n, 1-t.applied)
	t.applied = 1
	return dt - remaining, true
}

// Run calls fn once.
func Run(fn func()) Action {
	return actionFunc(func() runner { return instant(func(*Node) { fn() }) })
}

// RemoveFromParent detaches the node running it.
func RemoveFromParent() Action {
	return actionFunc(func() runner { return instant((*Node).RemoveFromParent) })
}

type instant func(n *Node)

func (f instant) step(n *Node, dt float64) (float64, bool) {
	f(n)
	return dt, true
}

// Animate shows each texture for timePerFrame seconds, once.
func Animate(textures []Texture, timePerFrame float64) Action {
	return actionFunc(func() runner {
		return &animation{textures: textures, perFrame: timePerFrame}
	})
}

type animation struct {
	textures []Texture
	perFrame float64
	elapsed  float64
}

func (a *animation) step(n *Node, dt float64) (float64, bool) {
	if len(a.textures) == 0 {
		return dt, true
	}
	total := a.perFrame * float64(len(a.textures))
	if a.perFrame <= 0 {
		a.show(n, len(a.textures)-1)
		return dt, true
	}

	remaining := total - a.elapsed
	if dt < remaining {
		a.elapsed += dt
		a.show(n, int(a.elapsed/a.perFrame))
		return 0, false
	}
	a.elapsed = total
	a.show(n, len(a.textures)-1)
	return dt - remaining, true
}

func (a *animation) show(n *Node, i int) {
	if i >= len(a.textures) {
		i = len(a.textures) - 1
	}
	tex := a.textures[i]
	n.Texture = &tex
}

// Sequence runs actions one after another. Time left over by a finished
// step flows into the next one within the same update.
func Sequence(actions ...Action) Action {
	return actionFunc(func() runner { return &sequence{actions: actions} })
}

type sequence struct {
	actions []Action
	index   int
	current runner
}

func (s *sequence) step(n *Node, dt float64) (float64, bool) {
	for s.index < len(s.actions) {
		if s.current == nil {
			s.current = s.actions[s.index].newRunner()
		}
		rest, done := s.current.step(n, dt)
		if !done {
			return 0, false
		}
		s.index++
		s.current = nil
		dt = rest
	}
	return dt, true
}

// RepeatForever restarts the action every time it finishes.
func RepeatForever(a Action) Action {
	return actionFunc(func() runner { return &repeat{action: a} })
}

type repeat struct {
	action   Action
	current  runner
	consumed float64 // Time used by the current iteration
}

func (r *repeat) step(n *Node, dt float64) (float64, bool) {
	for {
		if r.current == nil {
			r.current = r.action.newRunner()
			r.consumed = 0
		}
		rest, done := r.current.step(n, dt)
		r.consumed += dt - rest
		if !done {
			return 0, false
		}
		r.current = nil
		if r.consumed <= 0 {
			// A zero-length iteration would spin; resume next update.
			return 0, false
		}
		dt = rest
	}
}
