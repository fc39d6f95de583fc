package ui

import (
	"strings"
	"time"

	"github.com/atomicstack/torrent-console/internal/theme"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const eventLogLimit = 1000

type logEntry struct {
	at   time.Time
	text string
}

// eventLog keeps session events and output produced while no buffering mode
// was active.
type eventLog struct {
	entries  []logEntry
	unread   int
	now      func() time.Time
	onChange func()
}

func newEventLog() *eventLog {
	return &eventLog{now: time.Now}
}

func (l *eventLog) Add(text string) {
	at := l.now()
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		l.entries = append(l.entries, logEntry{at: at, text: line})
		l.unread++
	}
	if over := len(l.entries) - eventLogLimit; over > 0 {
		l.entries = append([]logEntry(nil), l.entries[over:]...)
	}
	if l.unread > len(l.entries) {
		l.unread = len(l.entries)
	}
	if l.onChange != nil {
		l.onChange()
	}
}

func (l *eventLog) Unread() int { return l.unread }

func (l *eventLog) MarkRead() { l.unread = 0 }

func (l *eventLog) Len() int { return len(l.entries) }

// Lines renders the entries with their timestamps.
func (l *eventLog) Lines() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = theme.Render(styles.LogTime, e.at.Format("15:04:05")) + " " + e.text
	}
	return out
}

// logMode shows the event log in a scrollable viewport.
type logMode struct {
	log      *eventLog
	viewport viewport.Model
}

func newLogMode(log *eventLog) *logMode {
	lm := &logMode{log: log, viewport: viewport.New(0, 0)}
	log.onChange = lm.refresh
	return lm
}

func (l *logMode) Name() string { return modeLog }

func (l *logMode) Title() string { return "event log" }

func (l *logMode) Hint() string { return "↑/↓ scroll · pgup/pgdn page · esc back" }

func (l *logMode) Resize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.refresh()
}

func (l *logMode) refresh() {
	follow := l.viewport.AtBottom()
	l.viewport.SetContent(strings.Join(l.log.Lines(), "\n"))
	if follow {
		l.viewport.GotoBottom()
	}
}

func (l *logMode) Update(m *Model, msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Up, keys.Down, keys.PageUp, keys.PageDown) {
		var cmd tea.Cmd
		l.viewport, cmd = l.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (l *logMode) View() string {
	if l.log.Len() == 0 {
		return theme.Render(styles.Info, "(no events)")
	}
	return l.viewport.View()
}
