package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/experiment"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickedDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDesc      = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	shortcutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	statePreset
	stateSim
)

type menu struct {
	registry *experiment.Registry
	state    int
	cursor   int
	variants []string
	variant  string
	presets  []string
	err      string

	width, height int
	live          Model
}

func NewInteractiveApp(registry *experiment.Registry) *menu {
	return &menu{
		registry: registry,
		state:    stateMenu,
		variants: registry.Names(),
		width:    width,
		height:   height,
	}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	if m.state == stateSim {
		return m.forward(msg)
	}
	return m, nil
}

func (m menu) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.live.Update(msg)
	m.live = next.(Model)
	return m, cmd
}

func (m menu) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case statePreset:
		return m.presetKey(msg)
	}
	return m.forward(msg)
}

func (m menu) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.variants)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.variant = m.variants[m.cursor]
		m.presets = config.ListPresets(m.variant)
		m.state, m.cursor, m.err = statePreset, 0, ""
	}
	return m, nil
}

func (m menu) presetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state, m.cursor = stateMenu, 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ", "s":
		return m.start()
	}
	return m, nil
}

func (m menu) start() (tea.Model, tea.Cmd) {
	cfg := config.DefaultConfig()
	if len(m.presets) > 0 {
		cfg = config.GetPreset(m.variant, m.presets[m.cursor])
	}
	cfg.Variant = m.variant

	live, err := NewModel(cfg, m.registry)
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	live.resize(m.width, m.height)
	m.live, m.state = live, stateSim
	return m, live.Init()
}

func (m menu) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case statePreset:
		return m.viewPresets()
	}
	return m.live.View()
}

func (m menu) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("SPRINGSIM") + "\n    " + subStyle.Render("mass-spring networks") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.variants {
		v, _ := m.registry.Variant(name)
		m.writeRow(&b, i, name, v.Description)
	}
	b.WriteString(footer("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m menu) viewPresets() string {
	var b strings.Builder
	v, _ := m.registry.Variant(m.variant)
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.variant)) + "\n    " + subStyle.Render(v.Description) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		cfg := config.GetPreset(m.variant, name)
		m.writeRow(&b, i, name, fmt.Sprintf("k=%.1f L=%.0f n=%d", cfg.Stiffness, cfg.Length, cfg.Nodes))
	}
	if m.err != "" {
		b.WriteString("\n    " + StatusRecording.UnsetBlink().Render(m.err) + "\n")
	}
	b.WriteString(footer("j/k", "select", "enter", "start", "esc", "back"))
	return b.String()
}

func (m menu) writeRow(b *strings.Builder, i int, name, desc string) {
	if len(desc) > 48 {
		desc = desc[:45] + "..."
	}
	if i == m.cursor {
		fmt.Fprintf(b, "    %s %s  %s\n", cursorStyle.Render("▸"), pickedStyle.Render(fmt.Sprintf("%-10s", name)), pickedDesc.Render(desc))
		return
	}
	fmt.Fprintf(b, "    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), idleDesc.Render(desc))
}

func footer(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(shortcutStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

// RunInteractive opens the variant menu and launches the chosen network.
func RunInteractive(registry *experiment.Registry) error {
	_, err := tea.NewProgram(NewInteractiveApp(registry), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
