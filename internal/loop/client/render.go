package client

import (
	"github.com/tomz197/flappy/internal/draw"
	"github.com/tomz197/flappy/internal/object"
)

// drawScene paints the scene's sprites onto the canvas. The scene is y-up,
// the canvas y-down.
func (c *Client) drawScene() {
	c.canvas.Clear(draw.FromRGBA(c.scene.Background()))

	height := c.scene.Height()
	c.drawables = c.scene.Scene().Drawables(c.drawables)
	for _, d := range c.drawables {
		tex := d.Node.Texture
		if tex == nil {
			continue
		}
		c.canvas.DrawSprite(tex.Name, d.X, height-d.Y, tex.Width, tex.Height, d.Rotation)
	}
}

// drawBackdrop paints sky and ground for screens shown before the scene is
// presented.
func (c *Client) drawBackdrop() {
	cfg := c.scene.Config()
	c.canvas.Clear(draw.Sky)
	ground := cfg.Textures.Ground.Height
	c.canvas.DrawSprite(object.TexGround, cfg.Frame.Width/2, cfg.Frame.Height-ground/2, cfg.Frame.Width, ground, 0)
}

// drawLabels writes the scene's label nodes as terminal text over the
// rendered canvas. Must run after the canvas was rendered for this frame.
func (c *Client) drawLabels() {
	height := c.scene.Height()
	bg := draw.FromRGBA(c.scene.Background())
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()

	for _, d := range c.drawables {
		label := d.Node.Label
		if label == nil || label.Text == "" {
			continue
		}
		col, row := c.canvas.LogicalToTerminal(d.X, height-d.Y)
		switch label.Align {
		case object.AlignCenter:
			col -= len(label.Text) / 2
		case object.AlignRight:
			col -= len(label.Text)
		}
		if row < 1 || row > termHeight || col < 1 || col+len(label.Text) > termWidth+1 {
			continue
		}
		c.chunkWriter.WriteStyledAt(col, row, label.Text, draw.Text, bg)
		// Repaint these cells next frame so shrinking text leaves nothing behind
		c.canvas.MarkTextDirty(col, row, len(label.Text))
	}
}
