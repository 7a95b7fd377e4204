package draw

import (
	"math"

	"github.com/tomz197/flappy/internal/object"
)

// DrawSprite draws a texture centred on the logical point (cx, cy). rotation
// is counter-clockwise as seen on screen.
func (c *Canvas) DrawSprite(name string, cx, cy, w, h, rotation float64) {
	style := StyleFor(name)
	left, top := cx-w/2, cy-h/2

	switch name {
	case object.TexGround:
		c.FillRect(left, top, w, h, style.Fill)
		c.FillRect(left, top, w, h*0.25, style.Accent)

	case object.TexCloud:
		c.FillEllipse(cx-w/4, cy+h/6, w/4, h/3, style.Fill)
		c.FillEllipse(cx, cy-h/6, w/3, h/2.5, style.Fill)
		c.FillEllipse(cx+w/4, cy+h/6, w/4, h/3, style.Fill)

	case object.TexWall:
		c.FillRect(left, top, w, h, style.Fill)
		edge := w * 0.15
		c.FillRect(left, top, edge, h, style.Accent)
		c.FillRect(left+w-edge, top, edge, h, style.Accent)

	case object.TexCoin:
		c.FillEllipse(cx, cy, w/2, h/2, style.Fill)
		c.FillEllipse(cx-w/8, cy-h/8, w/5, h/5, style.Accent)

	case object.TexBirdA, object.TexBirdB:
		c.drawBird(name == object.TexBirdA, cx, cy, w, h, rotation, style)

	default:
		if style.Shape == ShapeEllipse {
			c.FillEllipse(cx, cy, w/2, h/2, style.Fill)
		} else {
			c.FillRect(left, top, w, h, style.Fill)
		}
	}
}

// drawBird draws the body, then the wing (up or down by frame), eye and beak
// turned by rotation around the body centre.
func (c *Canvas) drawBird(wingUp bool, cx, cy, w, h, rotation float64, style Style) {
	sin, cos := math.Sincos(rotation)
	// at maps a body-relative offset (x right, y up) to canvas coordinates.
	at := func(dx, dy float64) (float64, float64) {
		return cx + dx*cos - dy*sin, cy - (dx*sin + dy*cos)
	}

	c.FillEllipse(cx, cy, w/2, h/2, style.Fill)

	wingY := -h / 8
	if wingUp {
		wingY = h / 6
	}
	x, y := at(-w/8, wingY)
	c.FillEllipse(x, y, w/4, h/6, CloudFill)

	x, y = at(w/5, h/6)
	c.FillEllipse(x, y, w/10, h/10, TextShade)

	x, y = at(w/2, -h/10)
	c.FillEllipse(x, y, w/6, h/8, style.Accent)
}
