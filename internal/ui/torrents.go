package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/torrent-console/internal/batch"
	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/atomicstack/torrent-console/internal/theme"
	uistate "github.com/atomicstack/torrent-console/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const shortIDLength = 8

// torrentsMode lists the cached torrents with a fuzzy filter. It has no
// output buffer, so command output lands in the event log.
type torrentsMode struct {
	list   *uistate.List
	filter textinput.Model
	width  int
	height int
}

func newTorrentsMode() *torrentsMode {
	in := textinput.New()
	in.Prompt = "filter: "
	in.Placeholder = "type to filter"
	if styles.FilterPrompt != nil {
		in.PromptStyle = *styles.FilterPrompt
	}
	if styles.Filter != nil {
		in.TextStyle = *styles.Filter
	}
	if styles.FilterPlaceholder != nil {
		in.PlaceholderStyle = *styles.FilterPlaceholder
	}
	in.Cursor.SetMode(cursor.CursorStatic)
	return &torrentsMode{
		list:   uistate.NewList(nil),
		filter: in,
	}
}

func (t *torrentsMode) Name() string { return modeTorrents }

func (t *torrentsMode) Title() string { return "torrents" }

func (t *torrentsMode) Hint() string {
	return "enter info · tab select · ctrl+s pause · ctrl+r resume · esc back"
}

func (t *torrentsMode) Resize(width, height int) {
	t.width = width
	t.height = height
	if width > 0 {
		t.filter.Width = width - len([]rune(t.filter.Prompt)) - 1
	}
	t.list.EnsureCursorVisible(t.rows())
}

func (t *torrentsMode) Focus() { t.filter.Focus() }

func (t *torrentsMode) Blur() { t.filter.Blur() }

// SetEntries replaces the rows with the cached index.
func (t *torrentsMode) SetEntries(entries []cache.Entry) {
	t.list.UpdateItems(uistate.ItemsFromEntries(entries))
	t.list.EnsureCursorVisible(t.rows())
}

func (t *torrentsMode) rows() int {
	// filter line + column header
	return t.height - 2
}

func (t *torrentsMode) Update(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Up):
		t.list.MoveCursorUp()
	case key.Matches(msg, keys.Down):
		t.list.MoveCursorDown()
	case key.Matches(msg, keys.PageUp):
		t.list.MoveCursorPageUp(t.rows())
	case key.Matches(msg, keys.PageDown):
		t.list.MoveCursorPageDown(t.rows())
	case key.Matches(msg, keys.Home):
		t.list.MoveCursorHome()
	case key.Matches(msg, keys.End):
		t.list.MoveCursorEnd()
	case key.Matches(msg, keys.Toggle):
		t.list.ToggleCurrentSelection()
	case key.Matches(msg, keys.Submit):
		if current, ok := t.list.Current(); ok {
			return t.run(m, "info", "-v", current.ID)
		}
	case key.Matches(msg, keys.Pause):
		return t.runOnTargets(m, "pause")
	case key.Matches(msg, keys.Resume):
		return t.runOnTargets(m, "resume")
	default:
		var cmd tea.Cmd
		t.filter, cmd = t.filter.Update(msg)
		t.list.SetFilter(t.filter.Value())
		t.list.EnsureCursorVisible(t.rows())
		return cmd
	}
	t.list.EnsureCursorVisible(t.rows())
	return nil
}

func (t *torrentsMode) runOnTargets(m *Model, verb string) tea.Cmd {
	ids := t.list.Targets()
	if len(ids) == 0 {
		return nil
	}
	t.list.ClearSelection()
	return t.run(m, append([]string{verb}, ids...)...)
}

// run echoes the line to the event log, where its output will land too.
func (t *torrentsMode) run(m *Model, tokens ...string) tea.Cmd {
	line := batch.Join(tokens)
	m.logEvent("> " + line)
	return m.runLine(line)
}

func (t *torrentsMode) View() string {
	lines := make([]string, 0, t.height)
	lines = append(lines, t.filter.View())
	header := fmt.Sprintf("  %-*s %s", shortIDLength, "ID", "NAME")
	lines = append(lines, theme.Render(styles.Header, header))
	if len(t.list.Items) == 0 {
		msg := "(no torrents)"
		if strings.TrimSpace(t.list.Filter) != "" {
			msg = fmt.Sprintf("No matches for %q", t.list.Filter)
		}
		lines = append(lines, theme.Render(styles.Info, msg))
		return strings.Join(lines, "\n")
	}
	for i, item := range t.list.Visible(t.rows()) {
		idx := t.list.ViewportOffset + i
		lines = append(lines, t.row(item, idx == t.list.Cursor))
	}
	return strings.Join(lines, "\n")
}

func (t *torrentsMode) row(item uistate.Item, current bool) string {
	mark := " "
	if t.list.IsSelected(item.ID) {
		mark = "✓"
	}
	id := item.ID
	if len(id) > shortIDLength {
		id = id[:shortIDLength]
	}
	text := fmt.Sprintf("%s %-*s %s", mark, shortIDLength, id, item.Label)
	if t.width > 1 && lipgloss.Width(text) > t.width-1 {
		text = truncate.StringWithTail(text, uint(t.width-1), "…")
	}
	indicator, style := styles.ItemIndicator, styles.Item
	if current {
		indicator, style = styles.SelectedItemIndicator, styles.SelectedItem
		if pad := t.width - 1 - lipgloss.Width(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
	}
	return theme.Render(indicator, "▌") + theme.Render(style, text)
}
