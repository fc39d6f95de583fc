package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// View implements tea.Model.
func (m *Model) View() string {
	top := m.bar.top(m)
	bottom := m.bar.bottom(m)
	body := ""
	if m.active != nil {
		body = m.active.View()
	}
	if m.height > 2 {
		body = fitHeight(body, m.height-2)
	}
	return strings.Join([]string{top, body, bottom}, "\n")
}

// fitHeight pads or trims body to exactly height lines, keeping the tail.
func fitHeight(body string, height int) string {
	lines := strings.Split(body, "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// PlainView returns the rendered screen without styling or trailing blanks.
func (m *Model) PlainView() string {
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
