package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/topology"
)

// Variant is one connectivity flavour of the network. All variants share the
// same physics core and differ only in topology and which parameters may be
// tuned.
type Variant struct {
	Name        string
	Description string
	Mode        topology.Mode
	Tunable     []string
	Fixed       []string
}

type Registry struct {
	variants map[string]Variant
}

func NewRegistry() *Registry {
	r := &Registry{variants: make(map[string]Variant)}

	r.Register(Variant{
		Name:        "chain",
		Description: "open chain of nodes, each linked to its neighbours",
		Mode:        topology.Chain,
		Tunable:     []string{"k", "length", "nodes", "mass", "gravity"},
	})
	r.Register(Variant{
		Name:        "shape",
		Description: "fully connected soft body",
		Mode:        topology.Complete,
		Tunable:     []string{"k", "length", "nodes", "mass", "gravity"},
	})
	r.Register(Variant{
		Name:        "rope",
		Description: "long light chain with fixed mass under gravity",
		Mode:        topology.Chain,
		Tunable:     []string{"k", "length"},
		Fixed:       []string{"mass", "gravity", "nodes", "mode"},
	})

	return r
}

func (r *Registry) Register(v Variant) { r.variants[v.Name] = v }

func (r *Registry) Variant(name string) (Variant, error) {
	v, ok := r.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", dynamo.ErrUnknownVariant, name)
	}
	return v, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build turns a config into a ready simulation. Fixed parameters of the
// variant are taken from its default preset, whatever the config says.
func (r *Registry) Build(cfg *config.Config) (*sim.Simulation, error) {
	name := cfg.Variant
	if name == "" {
		name = config.DefaultVariant
	}
	v, err := r.Variant(name)
	if err != nil {
		return nil, err
	}

	cfg = cfg.Clone()
	if len(v.Fixed) > 0 {
		if base := config.GetPreset(v.Name, "default"); base != nil {
			cfg.Mass = base.Mass
			cfg.Gravity = base.Gravity
			cfg.Nodes = base.Nodes
		}
		cfg.Mode = v.Mode.String()
	}
	if cfg.Mode == "" {
		cfg.Mode = v.Mode.String()
	}

	p, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	if cfg.Nodes < 0 {
		return nil, dynamo.BoundsError("nodes", float64(cfg.Nodes), "must be >= 0")
	}

	return sim.New(p, sim.Options{
		Nodes:  cfg.Nodes,
		Seed:   cfg.Seed,
		Pinned: cfg.Pinned,
		Fixed:  v.Fixed,
		Force:  physics.NewSpringForce(),
	})
}

func (r *Registry) DefaultMetrics(variant string) []dynamo.Metric {
	return metrics.All()
}
