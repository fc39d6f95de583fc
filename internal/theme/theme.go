package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	TopBar                *lipgloss.Style
	BottomBar             *lipgloss.Style
	BarAccent             *lipgloss.Style
	Prompt                *lipgloss.Style
	Output                *lipgloss.Style
	Echo                  *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Error                 *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
	LogTime               *lipgloss.Style
	States                map[string]*lipgloss.Style
}

var defaultStyles = Styles{
	TopBar: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("24")).Bold(true),
	),
	BottomBar: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238")),
	),
	BarAccent: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Background(lipgloss.Color("238")).Bold(true),
	),
	Prompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Output: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Echo: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
	LogTime: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	States: map[string]*lipgloss.Style{
		"active":    ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("34"))),
		"pending":   ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("33"))),
		"completed": ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("37"))),
		"stopped":   ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("244"))),
		"error":     ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)),
	},
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// State renders a torrent state with its colour, or unchanged when unknown.
func (s *Styles) State(state string) string {
	if style, ok := s.States[state]; ok && style != nil {
		return style.Render(state)
	}
	return state
}

// Render applies style when it is set.
func Render(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
