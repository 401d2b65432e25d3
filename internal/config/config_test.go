package config

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/topology"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Variant != "chain" {
		t.Errorf("expected variant chain, got %s", cfg.Variant)
	}
	if cfg.Stiffness != 2 || cfg.Length != 40 || cfg.Nodes != 4 || cfg.Mass != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Gravity {
		t.Error("gravity should default on")
	}
	if cfg.Pinned != nil {
		t.Error("pinned should default to unset")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "shape"
	p, err := cfg.Params()
	if err != nil {
		t.Fatal(err)
	}
	if p.Mode != topology.Complete {
		t.Errorf("expected complete mode, got %v", p.Mode)
	}
	if p.Stiffness != 2 || p.RestLength != 40 || p.Mass != 10 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero mass", func(c *Config) { c.Mass = 0 }, dynamo.ErrParameterBounds},
		{"negative k", func(c *Config) { c.Stiffness = -2 }, dynamo.ErrParameterBounds},
		{"negative length", func(c *Config) { c.Length = -1 }, dynamo.ErrParameterBounds},
		{"zero width", func(c *Config) { c.Width = 0 }, dynamo.ErrParameterBounds},
		{"bad mode", func(c *Config) { c.Mode = "ring" }, dynamo.ErrUnknownVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Nodes = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative nodes")
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")

	cfg := DefaultConfig()
	cfg.Stiffness = 3.5
	cfg.Nodes = 7
	cfg.Pinned = []int{0, 6}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Stiffness != 3.5 || got.Nodes != 7 {
		t.Errorf("round trip lost values: %+v", got)
	}
	if len(got.Pinned) != 2 || got.Pinned[1] != 6 {
		t.Errorf("round trip lost pinned set: %v", got.Pinned)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("stiffness: 5\nmode: complete\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stiffness != 5 || cfg.Mode != "complete" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Length != 40 || cfg.Nodes != 4 || !cfg.Gravity {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadIntoPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("length: 55\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := GetPreset("rope", "default")
	if err := LoadInto(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Length != 55 {
		t.Errorf("length = %v, want 55", cfg.Length)
	}
	if cfg.Nodes != 20 || cfg.Stiffness != 4 {
		t.Errorf("preset values lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("nodes: [oops"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("shape", "triangle")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Nodes != 3 || cfg.Mode != "complete" {
		t.Errorf("unexpected preset %+v", cfg)
	}

	cfg.Nodes = 99
	if GetPreset("shape", "triangle").Nodes != 3 {
		t.Error("preset was mutated through the returned copy")
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("chain", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent variant")
	}
}

func TestPresetsValid(t *testing.T) {
	for variant, byName := range Presets {
		for name, cfg := range byName {
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", variant, name, err)
			}
			if cfg.Variant != variant {
				t.Errorf("%s/%s: variant field is %q", variant, name, cfg.Variant)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets("chain")
	if len(names) == 0 || names[0] != "default" {
		t.Errorf("expected sorted chain presets, got %v", names)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent variant")
	}
}

func TestNudge(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		steps int
		want  float64
	}{
		{"nodes", 4, 1, 5},
		{"nodes", 20, 1, 20},
		{"nodes", 1, -1, 1},
		{"mass", 10, -2, 5},
		{"length", 199.5, 1, 200},
		{"gravity", 1, 5, 1},
	}

	for _, tt := range tests {
		if got := Nudge(tt.name, tt.v, tt.steps); got != tt.want {
			t.Errorf("Nudge(%s, %v, %d) = %v, want %v", tt.name, tt.v, tt.steps, got, tt.want)
		}
	}
}

func TestRandomize(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := DefaultConfig()

	for i := 0; i < 200; i++ {
		c := Randomize(base, rng)
		if c.Stiffness < 2 || c.Stiffness >= 6 {
			t.Fatalf("k out of range: %v", c.Stiffness)
		}
		if c.Length < 0 || c.Length >= 200 {
			t.Fatalf("length out of range: %v", c.Length)
		}
		if c.Nodes < 3 || c.Nodes >= 7 {
			t.Fatalf("nodes out of range: %v", c.Nodes)
		}
		if c.Mass < 5 || c.Mass >= 995 {
			t.Fatalf("mass out of range: %v", c.Mass)
		}
		if c.Gravity && (len(c.Pinned) != 1 || c.Pinned[0] != 0) {
			t.Fatalf("gravity on should pin node 0, got %v", c.Pinned)
		}
		if !c.Gravity && (c.Pinned == nil || len(c.Pinned) != 0) {
			t.Fatalf("gravity off should pin nothing explicitly, got %v", c.Pinned)
		}
	}

	if base.Stiffness != 2 {
		t.Error("Randomize mutated its base")
	}
}
