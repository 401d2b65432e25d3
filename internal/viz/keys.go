package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Pause     key.Binding
	NextParam key.Binding
	Increase  key.Binding
	Decrease  key.Binding
	Gravity   key.Binding
	Mode      key.Binding
	PinMode   key.Binding
	Randomize key.Binding
	Reset     key.Binding
	Snapshot  key.Binding
	Record    key.Binding
	Theme     key.Binding
	Help      key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Pause:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
	NextParam: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next param")),
	Increase:  key.NewBinding(key.WithKeys("up", "k", "right", "l"), key.WithHelp("↑", "increase")),
	Decrease:  key.NewBinding(key.WithKeys("down", "j", "left", "h"), key.WithHelp("↓", "decrease")),
	Gravity:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gravity")),
	Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "chain/complete")),
	PinMode:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin mode")),
	Randomize: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "randomize")),
	Reset:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset")),
	Snapshot:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "svg")),
	Record:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "gif")),
	Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.NextParam, k.PinMode, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.NextParam, k.Increase, k.Decrease},
		{k.Gravity, k.Mode, k.PinMode, k.Randomize},
		{k.Reset, k.Snapshot, k.Record, k.Theme},
		{k.Help, k.Quit},
	}
}
