package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/torrent-console/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// statusBar renders the top and bottom bars for whichever mode it points at.
type statusBar struct {
	mode Mode
}

func (b *statusBar) point(mode Mode) {
	b.mode = mode
}

func (b *statusBar) top(m *Model) string {
	left := fmt.Sprintf("torrent-console %s | %s | %s", m.version(), m.state, m.params.Endpoint())
	right := ""
	if b.mode != nil {
		right = "[" + b.mode.Title() + "]"
	}
	return renderBar(styles.TopBar, left, right, m.width)
}

func (b *statusBar) bottom(m *Model) string {
	parts := []string{fmt.Sprintf("%d torrents", m.cache.Len())}
	if m.running > 0 {
		parts = append(parts, fmt.Sprintf("%d running", m.running))
	}
	if n := m.eventLog.Unread(); n > 0 && (b.mode == nil || b.mode.Name() != modeLog) {
		parts = append(parts, theme.Render(styles.BarAccent, fmt.Sprintf("%d new in log", n)))
	}
	if m.lastErr != "" {
		parts = append(parts, theme.Render(styles.Error, m.lastErr))
	}
	right := ""
	if b.mode != nil {
		right = b.mode.Hint()
	}
	return renderBar(styles.BottomBar, strings.Join(parts, " | "), right, m.width)
}

func renderBar(style *lipgloss.Style, left, right string, width int) string {
	if width <= 0 {
		if right != "" {
			left += "  " + right
		}
		return theme.Render(style, left)
	}
	text := left
	if gap := width - lipgloss.Width(left) - lipgloss.Width(right); right != "" && gap >= 2 {
		text = left + strings.Repeat(" ", gap) + right
	}
	if lipgloss.Width(text) > width {
		text = truncate.StringWithTail(text, uint(width), "…")
	}
	if pad := width - lipgloss.Width(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return theme.Render(style, text)
}
