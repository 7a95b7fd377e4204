package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure returned from Validate and Load.
var ErrInvalid = errors.New("invalid config")

//go:embed defaults/flappy.yaml
var defaultYAML []byte

// Config contains all tunables of the flappy scene. Lengths are logical units
// in a y-up frame, durations are seconds.
type Config struct {
	Frame    FrameConfig    `yaml:"frame"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Scroll   ScrollConfig   `yaml:"scroll"`
	Spawn    SpawnConfig    `yaml:"spawn"`
	Bird     BirdConfig     `yaml:"bird"`
	Textures TexturesConfig `yaml:"textures"`
	BestKey  string         `yaml:"best_key"`
}

// FrameConfig is the logical scene size.
type FrameConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig defines the bird's motion.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`      // Vertical acceleration, negative is down
	FlapImpulse float64 `yaml:"flap_impulse"` // Upward impulse applied per tap
	BirdMass    float64 `yaml:"bird_mass"`
}

// ScrollConfig defines how long each layer takes to travel its distance.
type ScrollConfig struct {
	GroundSeconds float64 `yaml:"ground_seconds"` // One ground tile width
	CloudSeconds  float64 `yaml:"cloud_seconds"`  // One cloud tile width
	WallSeconds   float64 `yaml:"wall_seconds"`   // Frame width plus wall width
	ItemSeconds   float64 `yaml:"item_seconds"`   // Frame width plus coin width
}

// SpawnConfig defines the procedural wall and coin generators.
type SpawnConfig struct {
	WallInterval float64 `yaml:"wall_interval"`
	ItemInterval float64 `yaml:"item_interval"`
	WallJitter   float64 `yaml:"wall_jitter"` // Max vertical offset of a wall pair
	ItemJitter   float64 `yaml:"item_jitter"` // Max vertical offset of a coin
	SlitFactor   float64 `yaml:"slit_factor"` // Gap height in bird heights
	ItemOffsetX  float64 `yaml:"item_offset_x"`
}

// BirdConfig defines the player sprite placement and animation.
type BirdConfig struct {
	StartX      float64 `yaml:"start_x"` // Fraction of frame width
	StartY      float64 `yaml:"start_y"` // Fraction of frame height
	FrameTime   float64 `yaml:"frame_time"`
	RollSeconds float64 `yaml:"roll_seconds"`
	RollFactor  float64 `yaml:"roll_factor"` // Death spin in radians per unit of height, times pi
}

// TexturesConfig holds the sprite sizes.
type TexturesConfig struct {
	Bird   Size `yaml:"bird"`
	Ground Size `yaml:"ground"`
	Cloud  Size `yaml:"cloud"`
	Wall   Size `yaml:"wall"`
	Coin   Size `yaml:"coin"`
}

// Size is a width and height pair.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Default returns the stock configuration.
func Default() Config {
	const width = 120
	return Config{
		Frame: FrameConfig{Width: width, Height: 80},
		Physics: PhysicsConfig{
			Gravity:     -110,
			FlapImpulse: 15,
			BirdMass:    0.3,
		},
		Scroll: ScrollConfig{
			GroundSeconds: 5,
			CloudSeconds:  20,
			WallSeconds:   4,
			ItemSeconds:   4,
		},
		Spawn: SpawnConfig{
			WallInterval: 2,
			ItemInterval: 2,
			WallJitter:   8,
			ItemJitter:   12,
			SlitFactor:   4,
			ItemOffsetX:  width/4 + 5,
		},
		Bird: BirdConfig{
			StartX:      0.2,
			StartY:      0.7,
			FrameTime:   0.2,
			RollSeconds: 1,
			RollFactor:  0.08,
		},
		Textures: TexturesConfig{
			Bird:   Size{Width: 6, Height: 4},
			Ground: Size{Width: 24, Height: 10},
			Cloud:  Size{Width: 30, Height: 8},
			Wall:   Size{Width: 8, Height: 60},
			Coin:   Size{Width: 4, Height: 4},
		},
		BestKey: "BEST",
	}
}

// DefaultYAML returns the default configuration as a YAML document, suitable
// as a starting point for a custom config file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Load reads a YAML file and overlays it on Default. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that every size and duration can drive the scene.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"frame.width", c.Frame.Width},
		{"frame.height", c.Frame.Height},
		{"physics.bird_mass", c.Physics.BirdMass},
		{"scroll.ground_seconds", c.Scroll.GroundSeconds},
		{"scroll.cloud_seconds", c.Scroll.CloudSeconds},
		{"scroll.wall_seconds", c.Scroll.WallSeconds},
		{"scroll.item_seconds", c.Scroll.ItemSeconds},
		{"spawn.wall_interval", c.Spawn.WallInterval},
		{"spawn.item_interval", c.Spawn.ItemInterval},
		{"spawn.slit_factor", c.Spawn.SlitFactor},
		{"bird.frame_time", c.Bird.FrameTime},
		{"textures.bird.width", c.Textures.Bird.Width},
		{"textures.bird.height", c.Textures.Bird.Height},
		{"textures.ground.width", c.Textures.Ground.Width},
		{"textures.ground.height", c.Textures.Ground.Height},
		{"textures.cloud.width", c.Textures.Cloud.Width},
		{"textures.cloud.height", c.Textures.Cloud.Height},
		{"textures.wall.width", c.Textures.Wall.Width},
		{"textures.wall.height", c.Textures.Wall.Height},
		{"textures.coin.width", c.Textures.Coin.Width},
		{"textures.coin.height", c.Textures.Coin.Height},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.value)
		}
	}

	if c.Spawn.WallJitter < 0 || c.Spawn.ItemJitter < 0 {
		return fmt.Errorf("%w: spawn jitter must not be negative", ErrInvalid)
	}
	if c.Bird.RollSeconds < 0 {
		return fmt.Errorf("%w: bird.roll_seconds must not be negative", ErrInvalid)
	}
	if c.Bird.StartX < 0 || c.Bird.StartX > 1 || c.Bird.StartY < 0 || c.Bird.StartY > 1 {
		return fmt.Errorf("%w: bird start must be a fraction of the frame", ErrInvalid)
	}
	if c.Textures.Ground.Height >= c.Frame.Height {
		return fmt.Errorf("%w: ground is taller than the frame", ErrInvalid)
	}
	if c.BestKey == "" {
		return fmt.Errorf("%w: best_key is empty", ErrInvalid)
	}
	return nil
}

// SkyCenterY returns the vertical middle of the area above the ground.
func (c Config) SkyCenterY() float64 {
	ground := c.Textures.Ground.Height
	return ground + (c.Frame.Height-ground)/2
}

// Slit returns the height of the gap between a wall pair.
func (c Config) Slit() float64 {
	return c.Textures.Bird.Height * c.Spawn.SlitFactor
}
