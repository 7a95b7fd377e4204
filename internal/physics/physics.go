// Package physics provides the minimal rigid body layer the scene needs:
// gravity integration, impulses, push-out against static bodies and
// category-filtered contact detection.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// Rect is an axis-aligned box given by its min and max corners.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectAround returns the box of size w x h centered on (cx, cy).
func RectAround(cx, cy, w, h float64) Rect {
	return Rect{MinX: cx - w/2, MinY: cy - h/2, MaxX: cx + w/2, MaxY: cy + h/2}
}

// RectsOverlap checks if two boxes overlap. Touching edges do not count.
func RectsOverlap(a, b Rect) bool {
	return a.MinX < b.MaxX && b.MinX < a.MaxX && a.MinY < b.MaxY && b.MinY < a.MaxY
}

// closestPoint clamps (px, py) into r.
func closestPoint(px, py float64, r Rect) (float64, float64) {
	return math.Max(r.MinX, math.Min(px, r.MaxX)), math.Max(r.MinY, math.Min(py, r.MaxY))
}

// CircleRectOverlap checks if a circle overlaps a box.
func CircleRectOverlap(cx, cy, radius float64, r Rect) bool {
	qx, qy := closestPoint(cx, cy, r)
	return DistanceSquared(cx, cy, qx, qy) < radius*radius
}

// CircleRectPushOut returns the smallest translation that moves the circle
// out of the box. ok is false when they do not overlap.
func CircleRectPushOut(cx, cy, radius float64, r Rect) (dx, dy float64, ok bool) {
	qx, qy := closestPoint(cx, cy, r)
	distSq := DistanceSquared(cx, cy, qx, qy)
	if distSq >= radius*radius {
		return 0, 0, false
	}

	if distSq > 0 {
		dist := math.Sqrt(distSq)
		push := radius - dist
		return (cx - qx) / dist * push, (cy - qy) / dist * push, true
	}

	// Center is inside the box: leave through the nearest edge.
	left := cx - r.MinX
	right := r.MaxX - cx
	down := cy - r.MinY
	up := r.MaxY - cy
	switch math.Min(math.Min(left, right), math.Min(down, up)) {
	case up:
		return 0, up + radius, true
	case down:
		return 0, -(down + radius), true
	case left:
		return -(left + radius), 0, true
	default:
		return right + radius, 0, true
	}
}

// RectPushOut returns the smallest axis-aligned translation that moves a out
// of b. ok is false when they do not overlap.
func RectPushOut(a, b Rect) (dx, dy float64, ok bool) {
	if !RectsOverlap(a, b) {
		return 0, 0, false
	}
	pushLeft := b.MinX - a.MaxX
	pushRight := b.MaxX - a.MinX
	pushDown := b.MinY - a.MaxY
	pushUp := b.MaxY - a.MinY

	dx = pushRight
	if -pushLeft < pushRight {
		dx = pushLeft
	}
	dy = pushUp
	if -pushDown < pushUp {
		dy = pushDown
	}
	if math.Abs(dx) < math.Abs(dy) {
		return dx, 0, true
	}
	return 0, dy, true
}
