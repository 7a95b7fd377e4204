package window

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/tomz197/flappy/internal/draw"
	"github.com/tomz197/flappy/internal/object"
)

const ellipseSegments = 24

var whiteImg *ebiten.Image

func init() {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	whiteImg = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// drawSprite draws a texture centred on (cx, cy) in screen pixels with the
// same shapes and colours as the terminal renderer.
func drawSprite(dst *ebiten.Image, name string, cx, cy, w, h, rotation float64) {
	style := draw.StyleFor(name)
	left, top := cx-w/2, cy-h/2

	switch name {
	case object.TexGround:
		fillRect(dst, left, top, w, h, style.Fill)
		fillRect(dst, left, top, w, h*0.25, style.Accent)

	case object.TexCloud:
		fillEllipse(dst, cx-w/4, cy+h/6, w/4, h/3, 0, style.Fill)
		fillEllipse(dst, cx, cy-h/6, w/3, h/2.5, 0, style.Fill)
		fillEllipse(dst, cx+w/4, cy+h/6, w/4, h/3, 0, style.Fill)

	case object.TexWall:
		fillRect(dst, left, top, w, h, style.Fill)
		edge := w * 0.15
		fillRect(dst, left, top, edge, h, style.Accent)
		fillRect(dst, left+w-edge, top, edge, h, style.Accent)

	case object.TexCoin:
		fillEllipse(dst, cx, cy, w/2, h/2, 0, style.Fill)
		fillEllipse(dst, cx-w/8, cy-h/8, w/5, h/5, 0, style.Accent)

	case object.TexBirdA, object.TexBirdB:
		drawBird(dst, name == object.TexBirdA, cx, cy, w, h, rotation, style)

	default:
		if style.Shape == draw.ShapeEllipse {
			fillEllipse(dst, cx, cy, w/2, h/2, rotation, style.Fill)
		} else {
			fillRect(dst, left, top, w, h, style.Fill)
		}
	}
}

func drawBird(dst *ebiten.Image, wingUp bool, cx, cy, w, h, rotation float64, style draw.Style) {
	sin, cos := math.Sincos(rotation)
	at := func(dx, dy float64) (float64, float64) {
		return cx + dx*cos - dy*sin, cy - (dx*sin + dy*cos)
	}

	fillEllipse(dst, cx, cy, w/2, h/2, rotation, style.Fill)

	wingY := -h / 8
	if wingUp {
		wingY = h / 6
	}
	x, y := at(-w/8, wingY)
	fillEllipse(dst, x, y, w/4, h/6, rotation, draw.CloudFill)

	x, y = at(w/5, h/6)
	vector.DrawFilledCircle(dst, float32(x), float32(y), float32(h/10), draw.TextShade.RGBA(), true)

	x, y = at(w/2, -h/10)
	fillEllipse(dst, x, y, w/6, h/8, rotation, style.Accent)
}

func fillRect(dst *ebiten.Image, x, y, w, h float64, col draw.Color) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), col.RGBA(), false)
}

// fillEllipse fills an ellipse with radii rx, ry turned counter-clockwise by
// rotation.
func fillEllipse(dst *ebiten.Image, cx, cy, rx, ry, rotation float64, col draw.Color) {
	sin, cos := math.Sincos(rotation)
	var path vector.Path
	for i := 0; i < ellipseSegments; i++ {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		ex, ey := rx*math.Cos(a), ry*math.Sin(a)
		x := float32(cx + ex*cos - ey*sin)
		y := float32(cy - (ex*sin + ey*cos))
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b := float32(col.R)/255, float32(col.G)/255, float32(col.B)/255
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = 1
	}
	dst.DrawTriangles(vs, is, whiteImg, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}
