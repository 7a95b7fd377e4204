package draw

import (
	"image/color"
	"strconv"

	"github.com/tomz197/flappy/internal/object"
)

// ANSI text attributes for overlays.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorBrightCyan = "\033[96m"
)

// Color is a 24-bit terminal colour.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// FromRGBA drops the alpha channel of c.
func FromRGBA(c color.RGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B}
}

// RGBA returns c as an opaque image colour.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// appendSGR appends the truecolor escape selecting c as foreground (38) or
// background (48).
func (c Color) appendSGR(dst []byte, layer int) []byte {
	dst = append(dst, "\033["...)
	dst = strconv.AppendInt(dst, int64(layer), 10)
	dst = append(dst, ";2;"...)
	dst = strconv.AppendInt(dst, int64(c.R), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(c.G), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(c.B), 10)
	return append(dst, 'm')
}

// Shape is the outline a texture is drawn with.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeEllipse
)

// Style is how a texture is drawn without image assets.
type Style struct {
	Fill   Color
	Accent Color
	Shape  Shape
}

// Palette
var (
	Sky       = RGB(38, 191, 230)
	Text      = RGB(255, 255, 255)
	TextShade = RGB(20, 40, 60)
	Dirt      = RGB(196, 140, 72)
	Grass     = RGB(96, 190, 60)
	CloudFill = RGB(245, 250, 255)
	Pipe      = RGB(84, 170, 50)
	PipeDark  = RGB(48, 110, 30)
	Gold      = RGB(250, 200, 40)
	GoldLight = RGB(255, 240, 150)
	Feather   = RGB(250, 220, 60)
	Beak      = RGB(240, 120, 40)
	Missing   = RGB(255, 0, 255)
)

var styles = map[string]Style{
	object.TexBirdA:   {Fill: Feather, Accent: Beak, Shape: ShapeEllipse},
	object.TexBirdB:   {Fill: Feather, Accent: Beak, Shape: ShapeEllipse},
	object.TexGround:  {Fill: Dirt, Accent: Grass, Shape: ShapeRect},
	object.TexCloud:   {Fill: CloudFill, Accent: CloudFill, Shape: ShapeEllipse},
	object.TexWall:    {Fill: Pipe, Accent: PipeDark, Shape: ShapeRect},
	object.TexCoin:    {Fill: Gold, Accent: GoldLight, Shape: ShapeEllipse},
	object.TexSparkle: {Fill: GoldLight, Accent: Text, Shape: ShapeRect},
}

// StyleFor returns the style of a texture name. Unknown names are magenta.
func StyleFor(name string) Style {
	if s, ok := styles[name]; ok {
		return s
	}
	return Style{Fill: Missing, Accent: Missing, Shape: ShapeRect}
}
