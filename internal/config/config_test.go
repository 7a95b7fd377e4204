package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("parse embedded defaults: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults drifted from Default():\n got %+v\nwant %+v", cfg, Default())
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("physics:\n  gravity: -50\nspawn:\n  wall_interval: 3\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Physics.Gravity != -50 {
		t.Errorf("gravity = %v, want -50", cfg.Physics.Gravity)
	}
	if cfg.Spawn.WallInterval != 3 {
		t.Errorf("wall interval = %v, want 3", cfg.Spawn.WallInterval)
	}
	if cfg.Physics.FlapImpulse != Default().Physics.FlapImpulse {
		t.Errorf("unset field lost its default: %v", cfg.Physics.FlapImpulse)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []string{
		"frame:\n  width: 0\n",
		"scroll:\n  wall_seconds: -1\n",
		"spawn:\n  wall_jitter: -2\n",
		"bird:\n  start_x: 1.5\n",
		"textures:\n  ground: {width: 24, height: 90}\n",
		"best_key: \"\"\n",
	}
	for _, doc := range tests {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalid) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalid", doc, err)
		}
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	if err != nil || cfg != Default() {
		t.Fatalf("Load(\"\") = %+v, %v", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "flappy.yaml")
	if err := os.WriteFile(path, []byte("best_key: HIGH\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BestKey != "HIGH" {
		t.Errorf("best key = %q, want HIGH", cfg.BestKey)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSceneGeometry(t *testing.T) {
	cfg := Default()
	if got := cfg.SkyCenterY(); got != 45 {
		t.Errorf("SkyCenterY = %v, want 45", got)
	}
	if got := cfg.Slit(); got != 16 {
		t.Errorf("Slit = %v, want 16", got)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("FLAPPY_TEST_VALUE", "x")
	if got := GetEnv("FLAPPY_TEST_VALUE", "y"); got != "x" {
		t.Errorf("GetEnv = %q, want x", got)
	}
	if got := GetEnv("FLAPPY_TEST_UNSET", "y"); got != "y" {
		t.Errorf("GetEnv fallback = %q, want y", got)
	}

	t.Setenv("FLAPPY_TEST_INT", "42")
	if got := GetEnvInt("FLAPPY_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d, want 42", got)
	}
	t.Setenv("FLAPPY_TEST_INT", "nope")
	if got := GetEnvInt("FLAPPY_TEST_INT", 1); got != 1 {
		t.Errorf("GetEnvInt fallback = %d, want 1", got)
	}
}
