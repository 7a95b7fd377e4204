package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// cell is what one terminal cell shows: the upper and lower half pixels.
// A stale cell was overwritten by text and never equals a drawn cell.
type cell struct {
	top, bottom Color
	stale       bool
}

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. Logical coordinates have y pointing down and are
// scaled to terminal pixels.
//
// Render only emits cells that changed since the previous Render.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]

	front []cell // What the terminal shows now
	valid bool   // front matches the terminal

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets when the render area is centred in a larger terminal
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       []byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// NewCanvas creates a canvas for the given terminal dimensions with a 1:1
// logical mapping.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]Color, subPixelHeight*termWidth)
		c.front = make([]cell, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.valid = false
	}

	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.valid = false
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.valid = false
}

// MarkTextDirty marks n cells starting at the 1-based (col, row) as
// overwritten by text, so the next Render paints them again.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for i := col - 1; i < col-1+n; i++ {
		if i >= 0 && i < c.termWidth {
			c.front[r*c.termWidth+i].stale = true
		}
	}
}

// Clear fills every pixel with bg.
func (c *Canvas) Clear(bg Color) {
	for i := range c.pixels {
		c.pixels[i] = bg
	}
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// At returns the pixel at terminal pixel coordinates.
func (c *Canvas) At(x, y int) Color {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		return c.pixels[y*c.termWidth+x]
	}
	return Color{}
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64, col Color) {
	c.setPixel(int(math.Floor(x*c.scaleX)), int(math.Floor(y*c.scaleY)), col)
}

// span converts a logical interval to a pixel range [lo, hi). Non-empty
// intervals always cover at least one pixel.
func span(start, length, scale float64) (lo, hi int) {
	lo = int(math.Round(start * scale))
	hi = int(math.Round((start + length) * scale))
	if hi <= lo && length > 0 {
		hi = lo + 1
	}
	return lo, hi
}

// FillRect fills the logical rectangle with top-left (x, y) and size (w, h).
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	x0, x1 := span(x, w, c.scaleX)
	y0, y1 := span(y, h, c.scaleY)
	x0, x1 = max(x0, 0), min(x1, c.termWidth)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight)
	for py := y0; py < y1; py++ {
		row := c.pixels[py*c.termWidth : (py+1)*c.termWidth]
		for px := x0; px < x1; px++ {
			row[px] = col
		}
	}
}

// FillEllipse fills the logical ellipse centred on (cx, cy) with radii (rx, ry).
func (c *Canvas) FillEllipse(cx, cy, rx, ry float64, col Color) {
	pcx, pcy := cx*c.scaleX, cy*c.scaleY
	prx, pry := rx*c.scaleX, ry*c.scaleY
	if prx < 0.5 || pry < 0.5 {
		c.setPixel(int(math.Floor(pcx)), int(math.Floor(pcy)), col)
		return
	}

	y0 := max(int(math.Floor(pcy-pry)), 0)
	y1 := min(int(math.Ceil(pcy+pry)), c.subPixelHeight-1)
	x0 := max(int(math.Floor(pcx-prx)), 0)
	x1 := min(int(math.Ceil(pcx+prx)), c.termWidth-1)
	for py := y0; py <= y1; py++ {
		dy := (float64(py) + 0.5 - pcy) / pry
		for px := x0; px <= x1; px++ {
			dx := (float64(px) + 0.5 - pcx) / prx
			if dx*dx+dy*dy <= 1 {
				c.pixels[py*c.termWidth+px] = col
			}
		}
	}
}

// FillCircle fills a logical circle. It may look oval when the axes scale differently.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	c.FillEllipse(cx, cy, r, r, col)
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillPolygon fills a polygon using a scanline pass in pixel space.
func (c *Canvas) FillPolygon(points []Point, col Color) {
	if len(points) < 3 {
		return
	}

	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	yStart := max(int(math.Floor(minY)), 0)
	yEnd := min(int(math.Ceil(maxY)), c.subPixelHeight-1)

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i] - 0.5))
			xEnd := int(math.Floor(intersections[i+1] - 0.5))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render outputs the changed cells to the writer as truecolor upper-half
// blocks: the foreground is the top pixel and the background the bottom one.
func (c *Canvas) Render(w io.Writer) {
	buf := c.renderBuf[:0]

	var fg, bg Color
	styled := false
	lastRow, lastCol := -1, -1

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			i := row*c.termWidth + col
			if c.valid && c.front[i] == cur {
				continue
			}
			c.front[i] = cur

			if row != lastRow || col != lastCol+1 {
				buf = append(buf, "\033["...)
				buf = strconv.AppendInt(buf, int64(row+1+c.offsetRow), 10)
				buf = append(buf, ';')
				buf = strconv.AppendInt(buf, int64(col+1+c.offsetCol), 10)
				buf = append(buf, 'H')
			}
			if !styled || cur.top != fg {
				buf = cur.top.appendSGR(buf, 38)
				fg = cur.top
			}
			if !styled || cur.bottom != bg {
				buf = cur.bottom.appendSGR(buf, 48)
				bg = cur.bottom
			}
			styled = true
			buf = append(buf, string(BlockUpperHalf)...)
			lastRow, lastCol = row, col
		}
	}
	if styled {
		buf = append(buf, ColorReset...)
	}
	c.valid = true
	c.renderBuf = buf

	// Write output in chunks for optimal network flow
	for len(buf) > 0 {
		chunk := buf
		if len(chunk) > maxChunkSize {
			chunk = buf[:maxChunkSize]
		}
		w.Write(chunk)
		buf = buf[len(chunk):]
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf []byte
	moveTo := func(row, col int) {
		buf = append(buf, "\033["...)
		buf = strconv.AppendInt(buf, int64(row), 10)
		buf = append(buf, ';')
		buf = strconv.AppendInt(buf, int64(col), 10)
		buf = append(buf, 'H')
	}
	hline := func() {
		for i := 0; i < c.termWidth; i++ {
			buf = append(buf, "─"...)
		}
	}

	if hasV {
		if hasH {
			moveTo(top, left)
			buf = append(buf, "┌"...)
			hline()
			buf = append(buf, "┐"...)
			moveTo(bottom, left)
			buf = append(buf, "└"...)
			hline()
			buf = append(buf, "┘"...)
		} else {
			moveTo(top, c.offsetCol+1)
			hline()
			moveTo(bottom, c.offsetCol+1)
			hline()
		}
	}

	if hasH {
		startRow := top + 1
		endRow := bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			moveTo(row, left)
			buf = append(buf, "│"...)
			moveTo(row, right)
			buf = append(buf, "│"...)
		}
	}

	w.Write(buf)
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
// This is useful for placing text overlays at positions matching canvas-drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
