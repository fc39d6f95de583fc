package ui

import (
	"strings"

	"github.com/atomicstack/torrent-console/internal/theme"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const scrollbackLimit = 5000

// legacyMode is the scrollback buffer with a command line underneath.
type legacyMode struct {
	input    textinput.Model
	viewport viewport.Model
	lines    []string
	history  *history
}

func newLegacyMode() *legacyMode {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "type a command, or help"
	if styles.Prompt != nil {
		in.PromptStyle = *styles.Prompt
	}
	if styles.FilterPlaceholder != nil {
		in.PlaceholderStyle = *styles.FilterPlaceholder
	}
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Focus()
	return &legacyMode{
		input:    in,
		viewport: viewport.New(0, 0),
		history:  newHistory(historyLimit),
	}
}

func (l *legacyMode) Name() string { return modeLegacy }

func (l *legacyMode) Title() string { return "console" }

func (l *legacyMode) Hint() string {
	return "enter run · tab complete · ↑/↓ history · pgup/pgdn scroll"
}

func (l *legacyMode) Resize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height - 1
	if l.viewport.Height < 0 {
		l.viewport.Height = 0
	}
	if width > 0 {
		l.input.Width = width - len([]rune(l.input.Prompt)) - 1
	}
	l.viewport.GotoBottom()
}

func (l *legacyMode) Focus() { l.input.Focus() }

func (l *legacyMode) Blur() { l.input.Blur() }

func (l *legacyMode) Line() string { return l.input.Value() }

func (l *legacyMode) SetLine(line string) {
	l.input.SetValue(line)
	l.input.CursorEnd()
}

// Write appends text to the scrollback, following the tail when the view is
// already at the bottom.
func (l *legacyMode) Write(text string) {
	follow := l.viewport.AtBottom()
	l.lines = append(l.lines, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
	if over := len(l.lines) - scrollbackLimit; over > 0 {
		l.lines = append([]string(nil), l.lines[over:]...)
	}
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	if follow {
		l.viewport.GotoBottom()
	}
}

func (l *legacyMode) Clear() {
	l.lines = nil
	l.viewport.SetContent("")
	l.viewport.GotoTop()
}

// Lines returns the scrollback.
func (l *legacyMode) Lines() []string {
	return append([]string(nil), l.lines...)
}

func (l *legacyMode) Update(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Submit):
		line := strings.TrimSpace(l.input.Value())
		l.input.Reset()
		l.history.Add(line)
		if line == "" {
			return nil
		}
		l.Write(theme.Render(styles.Echo, l.input.Prompt+line))
		return m.runLine(line)
	case key.Matches(msg, keys.HistoryPrev):
		if line, ok := l.history.Prev(l.input.Value()); ok {
			l.SetLine(line)
		}
		return nil
	case key.Matches(msg, keys.HistoryNext):
		if line, ok := l.history.Next(); ok {
			l.SetLine(line)
		}
		return nil
	case key.Matches(msg, keys.Complete):
		m.completeLine(l)
		return nil
	case key.Matches(msg, keys.PageUp, keys.PageDown):
		var cmd tea.Cmd
		l.viewport, cmd = l.viewport.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return cmd
}

func (l *legacyMode) View() string {
	return l.viewport.View() + "\n" + l.input.View()
}
