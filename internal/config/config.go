package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/topology"
)

const (
	DefaultVariant = "chain"
	DefaultFPS     = 60
	DefaultFrames  = 600
	DefaultSeed    = 1
)

type Config struct {
	Variant   string  `yaml:"variant"`
	Mode      string  `yaml:"mode"`
	Stiffness float64 `yaml:"stiffness"`
	Length    float64 `yaml:"length"`
	Nodes     int     `yaml:"nodes"`
	Mass      float64 `yaml:"mass"`
	Gravity   bool    `yaml:"gravity"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Seed      int64   `yaml:"seed"`
	FPS       int     `yaml:"fps"`
	Frames    int     `yaml:"frames"`

	// Pinned lists node indices pinned at start. Omitted means "node 0 when
	// gravity is on"; an explicit empty list pins nothing.
	Pinned []int `yaml:"pinned,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Variant:   DefaultVariant,
		Mode:      topology.Chain.String(),
		Stiffness: physics.DefaultStiffness,
		Length:    physics.DefaultRestLength,
		Nodes:     physics.DefaultNodes,
		Mass:      physics.DefaultMass,
		Gravity:   true,
		Width:     physics.DefaultWidth,
		Height:    physics.DefaultHeight,
		Seed:      DefaultSeed,
		FPS:       DefaultFPS,
		Frames:    DefaultFrames,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the file at path onto cfg; keys absent from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be handed out safely.
func (c *Config) Clone() *Config {
	out := *c
	if c.Pinned != nil {
		out.Pinned = append([]int{}, c.Pinned...)
	}
	return &out
}

// Params converts the config into validated physics parameters.
func (c *Config) Params() (physics.Params, error) {
	mode, err := topology.ParseMode(c.Mode)
	if err != nil {
		return physics.Params{}, err
	}
	p := physics.Params{
		Stiffness:  c.Stiffness,
		RestLength: c.Length,
		Mass:       c.Mass,
		Gravity:    c.Gravity,
		Mode:       mode,
		Width:      c.Width,
		Height:     c.Height,
	}
	if err := p.Validate(); err != nil {
		return physics.Params{}, err
	}
	return p, nil
}

func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if c.Nodes < 0 {
		return fmt.Errorf("nodes must be >= 0, got %d", c.Nodes)
	}
	return nil
}
