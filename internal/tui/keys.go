package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Stop    key.Binding
	Boost   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	LogUp   key.Binding
	LogDown key.Binding
	Save    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "north")),
		Down:    key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "south")),
		Left:    key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "west")),
		Right:   key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "east")),
		Stop:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "stop")),
		Boost:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "boost")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		LogUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "logbook up")),
		LogDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "logbook down")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Stop, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Stop, k.Boost, k.ZoomIn, k.ZoomOut},
		{k.LogUp, k.LogDown, k.Save, k.Help, k.Quit},
	}
}
