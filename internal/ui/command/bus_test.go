package command

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doneMsg struct{ label string }

func TestExecuteRunsHandler(t *testing.T) {
	bus := New(context.Background(), nil)
	req := NewRequest("info", func(ctx context.Context) tea.Msg {
		return doneMsg{label: "info"}
	})
	require.NotEmpty(t, req.ID)
	cmd := bus.Execute(req)
	require.NotNil(t, cmd)
	assert.Equal(t, doneMsg{label: "info"}, cmd())
}

func TestExecuteNilHandlerAndNilResult(t *testing.T) {
	bus := New(context.Background(), nil)
	assert.Nil(t, bus.Execute(Request{Label: "none"})())
	assert.Nil(t, bus.Execute(NewRequest("quiet", func(context.Context) tea.Msg { return nil }))())
}

func TestRequestsGetDistinctIDs(t *testing.T) {
	a := NewRequest("a", nil)
	b := NewRequest("b", nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestExecuteDeliversResult(t *testing.T) {
	var got []tea.Msg
	bus := New(context.Background(), func(msg tea.Msg) { got = append(got, msg) })
	cmd := bus.Execute(NewRequest("status", func(context.Context) tea.Msg { return doneMsg{label: "status"} }))
	assert.Nil(t, cmd())
	require.Len(t, got, 1)
	assert.Equal(t, doneMsg{label: "status"}, got[0])
}
