package ui

import (
	"fmt"

	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	modeLegacy   = "legacy"
	modeTorrents = "torrents"
	modeLog      = "log"
)

// Mode is one full-screen surface. Exactly one mode is registered as the
// input source at any time.
type Mode interface {
	Name() string
	Title() string
	// Update handles a key press routed to the mode.
	Update(m *Model, msg tea.KeyMsg) tea.Cmd
	Resize(width, height int)
	View() string
	// Hint is shown in the bottom bar while the mode is active.
	Hint() string
}

// Writer is implemented by modes that keep an output buffer. Command output
// goes to the active mode when it is a Writer and to the event log otherwise.
type Writer interface {
	Write(text string)
}

// LineEditor is implemented by modes with a command line that supports tab
// completion.
type LineEditor interface {
	Line() string
	SetLine(line string)
}

type clearer interface {
	Clear()
}

type unfocuser interface {
	Blur()
	Focus()
}

// setMode swaps the registered input source and repoints the status bar in
// one step.
func (m *Model) setMode(name string) error {
	next, ok := m.modes[name]
	if !ok {
		return fmt.Errorf("unknown mode %q", name)
	}
	prev := m.active
	if prev == next {
		return nil
	}
	if f, ok := prev.(unfocuser); ok {
		f.Blur()
	}
	m.inputs = []Mode{next}
	m.active = next
	m.bar.point(next)
	if f, ok := next.(unfocuser); ok {
		f.Focus()
	}
	m.resizeModes()
	if name == modeLog {
		m.eventLog.MarkRead()
	}
	from := ""
	if prev != nil {
		from = prev.Name()
	}
	events.Mode.Switch(from, name)
	logging.Debug("mode switch", "from", from, "to", name)
	return nil
}

// InputSources returns the modes currently receiving input.
func (m *Model) InputSources() []Mode {
	return append([]Mode(nil), m.inputs...)
}

// ActiveMode returns the name of the active mode.
func (m *Model) ActiveMode() string {
	if m.active == nil {
		return ""
	}
	return m.active.Name()
}

func (m *Model) resizeModes() {
	height := m.height - 2
	if height < 1 {
		height = 1
	}
	for _, name := range m.modeOrder {
		m.modes[name].Resize(m.width, height)
	}
}

func (m *Model) noteQueued() {
	if m.active != nil && m.active.Name() == modeLog {
		m.eventLog.MarkRead()
		return
	}
	events.Mode.Queue(m.ActiveMode(), m.eventLog.Unread())
}
