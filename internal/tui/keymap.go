package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the keyboard fallbacks for when the touch panel is
// unavailable (bench debugging over SSH).
type keyMap struct {
	Quit     key.Binding
	Stop     key.Binding
	Logs     key.Binding
	CopyLogs key.Binding
	Zones    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop active app"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log overlay"),
		),
		CopyLogs: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy logs"),
		),
		Zones: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "tap zone"),
		),
	}
}

// ShortHelp returns the hint line rendered in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Zones, k.Stop, k.Logs, k.Quit}
}

// FullHelp satisfies help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Zones, k.Stop}, {k.Logs, k.CopyLogs, k.Quit}}
}
