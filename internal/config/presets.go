package config

import "sort"

// Presets holds named starting points per variant. Use GetPreset, which
// returns a copy.
var Presets = map[string]map[string]*Config{
	"chain": {
		"default": preset("chain", "chain", 2, 40, 4, 10, true),
		"long":    preset("chain", "chain", 3, 25, 12, 10, true),
		"heavy":   preset("chain", "chain", 2, 40, 6, 400, true),
		"float":   preset("chain", "chain", 2, 60, 5, 10, false),
	},
	"shape": {
		"default":  preset("shape", "complete", 2, 80, 4, 10, false),
		"triangle": preset("shape", "complete", 4, 100, 3, 10, false),
		"web":      preset("shape", "complete", 1, 120, 8, 20, false),
		"hanging":  preset("shape", "complete", 3, 80, 5, 10, true),
	},
	"rope": {
		"default": preset("rope", "chain", 4, 12, 20, 5, true),
		"slack":   preset("rope", "chain", 1, 20, 20, 5, true),
	},
}

func preset(variant, mode string, k, length float64, nodes int, mass float64, gravity bool) *Config {
	c := DefaultConfig()
	c.Variant = variant
	c.Mode = mode
	c.Stiffness = k
	c.Length = length
	c.Nodes = nodes
	c.Mass = mass
	c.Gravity = gravity
	return c
}

func GetPreset(variant, name string) *Config {
	byName, ok := Presets[variant]
	if !ok {
		return nil
	}
	cfg, ok := byName[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(variant string) []string {
	byName, ok := Presets[variant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
