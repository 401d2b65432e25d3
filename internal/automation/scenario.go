package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/control"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/sim"
)

// Scenario is a scripted interaction session: a network plus the input
// events to replay against it at given frames.
type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Variant     string          `yaml:"variant"`
	Preset      string          `yaml:"preset"`
	Config      yaml.Node       `yaml:"config"`
	Frames      int             `yaml:"frames"`
	Events      []ScenarioEvent `yaml:"events"`
}

// ScenarioEvent is one scripted input. Kind is one of key-down, key-up,
// press, move, release or set; set changes Param to Value.
type ScenarioEvent struct {
	Frame int     `yaml:"frame"`
	Kind  string  `yaml:"kind"`
	Key   string  `yaml:"key,omitempty"`
	X     float64 `yaml:"x,omitempty"`
	Y     float64 `yaml:"y,omitempty"`
	Node  *int    `yaml:"node,omitempty"`
	Param string  `yaml:"param,omitempty"`
	Value float64 `yaml:"value,omitempty"`
}

type ScenarioResult struct {
	Frames  int
	Final   dynamo.Frame
	Pinned  []int
	Metrics map[string]float64
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &scenario, nil
}

// resolveConfig layers the scenario's config block over its preset, or over
// the defaults when no preset is named. Keys absent from the block keep the
// underlying value.
func (sc *Scenario) resolveConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if sc.Variant != "" {
		cfg.Variant = sc.Variant
	}
	if sc.Preset != "" {
		p := config.GetPreset(cfg.Variant, sc.Preset)
		if p == nil {
			return nil, fmt.Errorf("%w: preset %s/%s", dynamo.ErrUnknownVariant, cfg.Variant, sc.Preset)
		}
		cfg = p
	}
	if !sc.Config.IsZero() {
		if err := sc.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("scenario config: %w", err)
		}
	}
	return cfg, nil
}

// RunScenario replays the scenario frame by frame. Events scheduled for a
// frame are applied, in file order, before that frame is stepped.
func RunScenario(ctx context.Context, sc *Scenario, registry *experiment.Registry, metrics []dynamo.Metric) (*ScenarioResult, error) {
	cfg, err := sc.resolveConfig()
	if err != nil {
		return nil, err
	}
	s, err := registry.Build(cfg)
	if err != nil {
		return nil, err
	}

	frames := sc.Frames
	if frames <= 0 {
		frames = cfg.Frames
	}

	events := append([]ScenarioEvent(nil), sc.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Frame < events[j].Frame })

	for _, m := range metrics {
		m.Reset()
	}

	result := &ScenarioResult{Metrics: make(map[string]float64)}
	next := 0
	for f := 0; f < frames; f++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		for next < len(events) && events[next].Frame <= f {
			if err := apply(s, events[next]); err != nil {
				return result, fmt.Errorf("event %d (frame %d): %w", next+1, events[next].Frame, err)
			}
			next++
		}

		if err := s.Step(); err != nil {
			return result, err
		}
		result.Frames++

		if len(metrics) > 0 {
			frame := s.Snapshot()
			for _, m := range metrics {
				m.Observe(frame)
			}
		}
	}

	result.Final = s.Snapshot()
	result.Pinned = s.Pinned()
	for _, m := range metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func apply(s *sim.Simulation, e ScenarioEvent) error {
	pos := dynamo.Vec2{X: e.X, Y: e.Y}
	if e.Node != nil {
		f := s.Snapshot()
		if *e.Node < 0 || *e.Node >= len(f.Nodes) {
			return fmt.Errorf("node %d out of range", *e.Node)
		}
		pos = f.Nodes[*e.Node].Pos.Add(pos)
	}

	switch e.Kind {
	case "key-down":
		s.HandleEvent(sim.Event{Kind: sim.KeyDown, Key: keyOf(e)})
	case "key-up":
		s.HandleEvent(sim.Event{Kind: sim.KeyUp, Key: keyOf(e)})
	case "press":
		s.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: pos})
	case "move":
		s.HandleEvent(sim.Event{Kind: sim.PointerMove, Pos: pos})
	case "release":
		s.HandleEvent(sim.Event{Kind: sim.PointerUp})
	case "set":
		return s.SetParam(e.Param, e.Value)
	default:
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return nil
}

func keyOf(e ScenarioEvent) control.Key {
	if e.Key == "" || e.Key == "shift" {
		return control.KeyShift
	}
	return control.Key(e.Key)
}
