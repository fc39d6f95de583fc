package ui

import (
	"context"
	"errors"

	"github.com/atomicstack/torrent-console/internal/batch"
	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/logging/events"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/atomicstack/torrent-console/internal/theme"
	uicommand "github.com/atomicstack/torrent-console/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// commandDoneMsg reports the end of a command started from the console.
type commandDoneMsg struct {
	name string
	err  error
}

// env builds the session handle passed to commands.
func (m *Model) env() *command.Env {
	return &command.Env{
		Client:      m.client,
		Cache:       m.cache,
		Registry:    m.registry,
		Out:         sinkOutput{m: m},
		Params:      m.params,
		Interactive: true,
		Console:     console{m: m},
	}
}

// runLine tokenizes, resolves and parses line on the event loop, then runs
// the command through the bus. Problems before the command starts are
// reported in place and never leave the loop.
func (m *Model) runLine(line string) tea.Cmd {
	events.Input.Submit(line)
	tokens, err := batch.Tokenize(line)
	if err != nil {
		m.reportError(err)
		return nil
	}
	if len(tokens) == 0 {
		return nil
	}
	cmd, err := m.registry.Lookup(tokens[0])
	if err != nil {
		events.Command.Reject(tokens[0], err)
		m.reportError(err)
		return nil
	}
	events.Command.Resolve(tokens[0], cmd.Name())
	result := command.Parse(cmd, tokens[0], tokens[1:])
	switch result.Outcome {
	case command.HelpRequested:
		m.writeOutput(command.UsageText(cmd))
		return nil
	case command.ParseFailed:
		m.reportError(result.Err)
		return nil
	}
	if command.RequiresConnection(cmd) && m.state != Active {
		m.reportError(remote.ErrNotConnected)
		return nil
	}

	env := m.env()
	inv := result.Invocation
	name := cmd.Name()
	m.running++
	req := uicommand.NewRequest(line, func(ctx context.Context) tea.Msg {
		err := cmd.Handle(ctx, env, inv)
		events.Command.Error(name, err)
		return commandDoneMsg{name: name, err: err}
	})
	return m.bus.Execute(req)
}

func (m *Model) handleCommandDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(commandDoneMsg)
	if !ok {
		return nil
	}
	if m.running > 0 {
		m.running--
	}
	m.syncTorrents()
	if done.err == nil {
		return nil
	}
	m.reportError(done.err)
	if remote.IsConnectionError(done.err) {
		return m.beginDisconnect("connection error", done.err)
	}
	return nil
}

// reportError shows err in the active output and the bottom bar. Parse
// errors carry the command's usage text.
func (m *Model) reportError(err error) {
	if err == nil {
		return
	}
	logging.Debug("command error", "err", err)
	m.setError(err)
	text := theme.Render(styles.Error, "Error: "+err.Error())
	var parseErr *command.ParseError
	if errors.As(err, &parseErr) && parseErr.Usage != "" {
		text += "\n" + parseErr.Usage
	}
	m.writeOutput(text)
}

func (m *Model) setError(err error) {
	if err == nil {
		m.lastErr = ""
		return
	}
	m.lastErr = err.Error()
}
