package object

// Texture names understood by the renderers.
const (
	TexBirdA   = "bird_a"
	TexBirdB   = "bird_b"
	TexGround  = "ground"
	TexCloud   = "cloud"
	TexWall    = "wall"
	TexCoin    = "coin"
	TexSparkle = "sparkle"
)

// Texture is a named sprite image of a given size in logical units.
// Frontends draw it from the name; the scene only needs the size.
type Texture struct {
	Name   string
	Width  float64
	Height float64
}

// Align is the horizontal alignment of a label relative to its position.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Label is the text content of a label node.
type Label struct {
	Text  string
	Align Align
}

// SetText replaces the text of a label node. It does nothing for other nodes.
func (n *Node) SetText(text string) {
	if n.Label != nil {
		n.Label.Text = text
	}
}
