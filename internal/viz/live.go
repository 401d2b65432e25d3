package viz

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/control"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 42
	historyCapacity = 300

	// worldPerDot is how many world units one braille dot covers.
	worldPerDot = 4.0

	// canvas origin inside the terminal, from canvasStyle padding
	originX = 2
	originY = 1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the terminal front-end for one network. Mouse presses drag the
// nearest node; with shift held, or pin mode on, they toggle its pin.
type Model struct {
	sim      *sim.Simulation
	registry *experiment.Registry
	initial  *config.Config
	current  *config.Config
	rng      *rand.Rand

	canvas        *Canvas
	width, height int
	theme         Theme

	running   bool
	paramKeys []string
	selected  int
	fixed     map[string]bool

	shiftSent bool
	pinMode   bool

	energy   []float64
	spring   harmonica.Spring
	gauge    float64
	gaugeVel float64

	rec    *recorder
	help   help.Model
	status string
	frame  int
}

func NewModel(cfg *config.Config, registry *experiment.Registry) (Model, error) {
	variant, err := registry.Variant(nameOr(cfg.Variant, config.DefaultVariant))
	if err != nil {
		return Model{}, err
	}

	m := Model{
		registry: registry,
		initial:  cfg.Clone(),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		canvas:   NewCanvas(width, height),
		width:    width,
		height:   height,
		theme:    Themes[0],
		running:  true,
		fixed:    make(map[string]bool),
		energy:   make([]float64, 0, historyCapacity),
		spring:   harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.8),
		help:     help.New(),
	}
	for _, name := range variant.Fixed {
		m.fixed[name] = true
	}
	for _, name := range variant.Tunable {
		if name != "gravity" {
			m.paramKeys = append(m.paramKeys, name)
		}
	}

	if err := m.load(cfg); err != nil {
		return Model{}, err
	}
	return m, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// load builds a fresh simulation sized to the canvas.
func (m *Model) load(cfg *config.Config) error {
	cfg = cfg.Clone()
	cfg.Width = float64(m.canvas.DotWidth()) * worldPerDot
	cfg.Height = float64(m.canvas.DotHeight()) * worldPerDot
	s, err := m.registry.Build(cfg)
	if err != nil {
		return err
	}
	m.sim, m.current = s, cfg
	m.shiftSent = false
	m.syncShift(false)
	m.energy = m.energy[:0]
	return nil
}

func (m Model) Simulation() *sim.Simulation { return m.sim }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.rec != nil {
			m.rec.capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Pause):
		m.running = !m.running
	case key.Matches(msg, keys.NextParam):
		if len(m.paramKeys) > 0 {
			m.selected = (m.selected + 1) % len(m.paramKeys)
		}
	case key.Matches(msg, keys.Increase):
		m.nudge(1)
	case key.Matches(msg, keys.Decrease):
		m.nudge(-1)
	case key.Matches(msg, keys.Gravity):
		m.toggle("gravity")
	case key.Matches(msg, keys.Mode):
		m.toggle("mode")
	case key.Matches(msg, keys.PinMode):
		m.pinMode = !m.pinMode
		m.syncShift(m.pinMode)
	case key.Matches(msg, keys.Randomize):
		m.setStatus(m.load(config.Randomize(m.current, m.rng)), "randomized")
	case key.Matches(msg, keys.Reset):
		m.setStatus(m.load(m.initial), "reset")
	case key.Matches(msg, keys.Snapshot):
		m.saveSnapshot()
	case key.Matches(msg, keys.Record):
		if m.rec != nil {
			path := fmt.Sprintf("springsim-%d.gif", m.sim.Tick())
			m.setStatus(m.rec.save(path), "saved "+path)
			m.rec = nil
		} else {
			m.rec = newRecorder()
		}
	case key.Matches(msg, keys.Theme):
		m.theme = NextTheme(m.theme)
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	m.syncShift(msg.Shift || m.pinMode)
	pos := m.toWorld(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.sim.HandleEvent(sim.Event{Kind: sim.PointerDown, Pos: pos})
		}
	case tea.MouseActionMotion:
		m.sim.HandleEvent(sim.Event{Kind: sim.PointerMove, Pos: pos})
	case tea.MouseActionRelease:
		m.sim.HandleEvent(sim.Event{Kind: sim.PointerUp, Pos: pos})
	}
}

// syncShift forwards modifier changes as key transitions.
func (m *Model) syncShift(down bool) {
	if down == m.shiftSent {
		return
	}
	kind := sim.KeyUp
	if down {
		kind = sim.KeyDown
	}
	m.sim.HandleEvent(sim.Event{Kind: kind, Key: control.KeyShift})
	m.shiftSent = down
}

// toWorld maps a terminal cell to the world point under its centre.
func (m Model) toWorld(col, row int) dynamo.Vec2 {
	x := float64((col-originX)*2+1) * worldPerDot
	y := float64((row-originY)*4+2) * worldPerDot
	return dynamo.Vec2{X: x, Y: y}
}

func toDot(p dynamo.Vec2) (int, int) {
	return int(math.Floor(p.X / worldPerDot)), int(math.Floor(p.Y / worldPerDot))
}

func (m *Model) resize(termW, termH int) {
	w := max(termW-statsWidth-2*originX-2, 10)
	h := max(termH-2*originY, 5)
	m.width, m.height = w, h
	m.canvas.Resize(w, h)
	err := m.sim.SetBounds(float64(m.canvas.DotWidth())*worldPerDot, float64(m.canvas.DotHeight())*worldPerDot)
	if err == nil {
		m.current.Width, m.current.Height = m.sim.Params().Width, m.sim.Params().Height
	}
	m.setStatus(err, "")
}

func (m *Model) nudge(steps int) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	v := config.Nudge(key, m.sim.GetParams()[key], steps)
	if err := m.sim.SetParam(key, v); err != nil {
		m.setStatus(err, "")
		return
	}
	switch key {
	case "k":
		m.current.Stiffness = v
	case "length":
		m.current.Length = v
	case "mass":
		m.current.Mass = v
	case "nodes":
		m.current.Nodes = int(v)
	}
}

func (m *Model) toggle(name string) {
	if m.fixed[name] {
		m.status = name + " is fixed for " + m.current.Variant
		return
	}
	v := 1.0
	if m.sim.GetParams()[name] != 0 {
		v = 0
	}
	m.setStatus(m.sim.SetParam(name, v), "")
	if name == "gravity" {
		m.current.Gravity = v != 0
	}
}

func (m *Model) step() {
	if err := m.sim.Step(); err != nil {
		m.running = false
		if errors.Is(err, dynamo.ErrInvalidState) {
			m.status = "network blew up, lower k and press x"
		} else {
			m.status = err.Error()
		}
		return
	}
	m.frame++

	f := m.sim.Snapshot()
	m.energy = append(m.energy, metrics.Kinetic(f)+metrics.Elastic(f))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}

	stretch := metrics.NewMaxStretch()
	stretch.Observe(f)
	target := math.Min(stretch.Value()/math.Max(f.RestLength, 40), 1)
	m.gauge, m.gaugeVel = m.spring.Update(m.gauge, m.gaugeVel, target)
}

func (m *Model) saveSnapshot() {
	path := fmt.Sprintf("springsim-%d.svg", m.sim.Tick())
	err := os.WriteFile(path, []byte(export.SnapshotToSVG(m.sim.Snapshot(), export.DefaultStyle())), 0644)
	m.setStatus(err, "saved "+path)
}

func (m *Model) setStatus(err error, ok string) {
	if err != nil {
		m.status = err.Error()
		return
	}
	if ok != "" {
		m.status = ok
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	f := m.sim.Snapshot()

	for _, e := range f.Edges {
		x0, y0 := toDot(e[0])
		x1, y1 := toDot(e[1])
		m.canvas.DrawLine(x0, y0, x1, y1)
	}
	for i, n := range f.Nodes {
		x, y := toDot(n.Pos)
		r := max(1, int(n.Radius/worldPerDot))
		m.canvas.Disc(x, y, r)
		if n.Pinned {
			m.canvas.Ring(x, y, r+2)
		}
		if i == f.Dragged {
			m.canvas.Ring(x, y, r+3)
		}
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(lipgloss.NewStyle().Foreground(m.theme.Primary).Render(m.canvas.String()))

	f := m.sim.Snapshot()
	params := m.sim.GetParams()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.current.Variant)) + "\n")

	status := StatusRunning.Render(AnimatedSpinner(m.frame) + " RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.rec != nil {
		status += "  " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(labelStyle.Render("Tension") + ProgressBar(m.gauge, 20) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", f.Tick)) + "\n")
	s.WriteString(labelStyle.Render("Nodes") + valueStyle.Render(fmt.Sprintf("%d  edges %d", len(f.Nodes), len(f.Edges))) + "\n")

	mode := "chain"
	if params["mode"] != 0 {
		mode = "complete"
	}
	gravity := "off"
	if params["gravity"] != 0 {
		gravity = "on"
	}
	s.WriteString(labelStyle.Render("Mode") + valueStyle.Render(mode) + "\n")
	s.WriteString(labelStyle.Render("Gravity") + valueStyle.Render(gravity) + "\n")

	interaction := m.sim.Interaction().String()
	if m.pinMode {
		interaction = "pin mode"
	}
	s.WriteString(labelStyle.Render("Pointer") + lipgloss.NewStyle().Foreground(m.theme.Accent).Render(interaction) + "\n")
	s.WriteString(labelStyle.Render("Pinned") + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(pinnedList(f)) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, k := range m.paramKeys {
		r := config.Bounds[k]
		val := params[k]
		ratio := 0.0
		if r.Max > r.Min {
			ratio = (val - r.Min) / (r.Max - r.Min)
		}
		filled := max(0, min(int(ratio*10), 10))
		line := fmt.Sprintf("%-7s [%s%s] %.2f", k, strings.Repeat("=", filled), strings.Repeat("-", 10-filled), val)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.UnsetWidth().Render(line) + "\n")
		}
	}

	if m.status != "" {
		s.WriteString("\n" + Subtle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render(Separator(30) + "\n" + m.help.View(keys)))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func pinnedList(f dynamo.Frame) string {
	var idx []string
	for i, n := range f.Nodes {
		if n.Pinned {
			idx = append(idx, fmt.Sprint(i))
		}
	}
	if len(idx) == 0 {
		return "none"
	}
	if len(idx) > 6 {
		idx = append(slices.Clip(idx[:6]), "…")
	}
	return strings.Join(idx, " ")
}

// Run starts the terminal front-end with mouse tracking enabled.
func Run(cfg *config.Config, registry *experiment.Registry, theme string) error {
	m, err := NewModel(cfg, registry)
	if err != nil {
		return err
	}
	m.theme = GetTheme(theme)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
