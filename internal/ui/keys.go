package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit         key.Binding
	LegacyMode   key.Binding
	TorrentsMode key.Binding
	LogMode      key.Binding
	Back         key.Binding
	Submit       key.Binding
	Complete     key.Binding
	HistoryPrev  key.Binding
	HistoryNext  key.Binding
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	Home         key.Binding
	End          key.Binding
	Toggle       key.Binding
	Pause        key.Binding
	Resume       key.Binding
}

var keys = keyMap{
	Quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	LegacyMode:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "console")),
	TorrentsMode: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "torrents")),
	LogMode:      key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "log")),
	Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Complete:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	HistoryPrev:  key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
	HistoryNext:  key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
	Up:           key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:         key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	PageUp:       key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown:     key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
	Home:         key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
	End:          key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
	Toggle:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select")),
	Pause:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "pause")),
	Resume:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "resume")),
}
