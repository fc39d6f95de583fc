package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/torrent-console/internal/command"
	tea "github.com/charmbracelet/bubbletea"
)

const sinkCapacity = 1024

// outputMsg carries text a command wrote.
type outputMsg struct {
	text string
}

// sinkMsg wraps a message that arrived on the sink channel.
type sinkMsg struct {
	msg tea.Msg
}

type sinkClosedMsg struct{}

type switchModeMsg struct {
	name string
}

type clearBufferMsg struct{}

type quitRequestMsg struct{}

type refreshRequestMsg struct{}

// post hands msg to the event loop from any goroutine. Messages are dropped
// once the session has terminated.
func (m *Model) post(msg tea.Msg) {
	select {
	case <-m.done:
	case m.sink <- msg:
	}
}

func (m *Model) closeSink() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func waitForSink(ch <-chan tea.Msg, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return sinkMsg{msg: msg}
		case <-done:
			return sinkClosedMsg{}
		}
	}
}

func (m *Model) handleSinkMsg(msg tea.Msg) tea.Cmd {
	wrapped, ok := msg.(sinkMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	if wrapped.msg != nil {
		if handler := m.handlerFor(wrapped.msg); handler != nil {
			cmd = handler(wrapped.msg)
		}
	}
	if m.synchronous || m.state == Terminated {
		return cmd
	}
	return tea.Batch(cmd, waitForSink(m.sink, m.done))
}

// flushSink applies everything already queued without waiting for more.
func (m *Model) flushSink() {
	for {
		select {
		case msg := <-m.sink:
			if out, ok := msg.(outputMsg); ok {
				m.writeOutput(out.text)
			}
		default:
			return
		}
	}
}

// sinkOutput is the command.Output handed to commands run from the console.
type sinkOutput struct {
	m *Model
}

func (o sinkOutput) Write(text string) {
	o.m.post(outputMsg{text: text})
}

func (m *Model) handleOutputMsg(msg tea.Msg) tea.Cmd {
	out, ok := msg.(outputMsg)
	if !ok {
		return nil
	}
	m.writeOutput(out.text)
	return nil
}

// writeOutput renders text into the active mode's buffer when it has one;
// otherwise it is queued to the event log.
func (m *Model) writeOutput(text string) {
	if w, ok := m.active.(Writer); ok {
		w.Write(text)
		return
	}
	m.eventLog.Add(text)
	m.noteQueued()
}

// console implements command.Console on top of the sink.
type console struct {
	m *Model
}

func (c console) SwitchMode(name string) error {
	if _, ok := c.m.modes[name]; !ok {
		return fmt.Errorf("unknown mode %q (available: %s)", name, strings.Join(c.m.modeOrder, ", "))
	}
	c.m.post(switchModeMsg{name: name})
	return nil
}

func (c console) ModeNames() []string {
	return append([]string(nil), c.m.modeOrder...)
}

func (c console) ClearBuffer() {
	c.m.post(clearBufferMsg{})
}

func (c console) Quit() {
	c.m.post(quitRequestMsg{})
}

func (c console) RequestRefresh() {
	c.m.post(refreshRequestMsg{})
}

var _ command.Console = console{}

func (m *Model) handleSwitchModeMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(switchModeMsg)
	if !ok {
		return nil
	}
	if err := m.setMode(req.name); err != nil {
		m.setError(err)
	}
	return nil
}

func (m *Model) handleClearBufferMsg(msg tea.Msg) tea.Cmd {
	if c, ok := m.modes[modeLegacy].(clearer); ok {
		c.Clear()
	}
	return nil
}

func (m *Model) handleQuitRequestMsg(msg tea.Msg) tea.Cmd {
	return m.beginDisconnect("user quit", nil)
}

func (m *Model) handleRefreshRequestMsg(msg tea.Msg) tea.Cmd {
	return m.requestRefresh()
}
