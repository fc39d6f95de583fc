package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/torrent-console/internal/backend"
	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/logging/events"
	"github.com/atomicstack/torrent-console/internal/remote"
	tea "github.com/charmbracelet/bubbletea"
)

// SessionState is the lifecycle state of the interactive console.
type SessionState int

const (
	Disconnected SessionState = iota
	Connecting
	Active
	Disconnecting
	Terminated
)

func (s SessionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Active:
		return "active"
	case Disconnecting:
		return "disconnecting"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrRemoteClosed is the exit error when the remote end drops the session.
var ErrRemoteClosed = errors.New("connection closed by remote")

var transitions = map[SessionState][]SessionState{
	Disconnected:  {Connecting, Terminated},
	Connecting:    {Active, Terminated},
	Active:        {Disconnecting},
	Disconnecting: {Terminated},
}

func canTransition(from, to SessionState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type connectedMsg struct {
	entries []cache.Entry
}

type connectFailedMsg struct {
	err error
}

type remoteDroppedMsg struct{}

type disconnectedMsg struct{}

func (m *Model) transition(to SessionState) bool {
	from := m.state
	if !canTransition(from, to) {
		logging.Debug("ignored session transition", "from", from, "to", to)
		return false
	}
	m.state = to
	events.Session.Transition(from.String(), to.String())
	logging.Info("session", "from", from, "to", to)
	if to == Terminated {
		m.closeSink()
	}
	return true
}

// State reports the current session state.
func (m *Model) State() SessionState {
	return m.state
}

// ExitErr is the error the console terminated with, if any.
func (m *Model) ExitErr() error {
	return m.exitErr
}

func connectCmd(ctx context.Context, client remote.Client, params remote.Params, onDrop func()) tea.Cmd {
	return func() tea.Msg {
		addr := params.Endpoint()
		if client == nil {
			return connectFailedMsg{err: &remote.ConnectionError{Addr: addr, Err: remote.ErrNotConnected}}
		}
		events.Session.Connect(addr)
		client.SetDisconnectCallback(onDrop)
		if err := client.Connect(ctx, params); err != nil {
			events.Session.ConnectFailed(addr, err)
			return connectFailedMsg{err: err}
		}
		entries, err := cache.Fetch(ctx, client)
		if err != nil {
			events.Session.ConnectFailed(addr, err)
			client.SetDisconnectCallback(nil)
			_ = client.Disconnect()
			return connectFailedMsg{err: fmt.Errorf("initial refresh: %w", err)}
		}
		return connectedMsg{entries: entries}
	}
}

func (m *Model) handleConnectedMsg(msg tea.Msg) tea.Cmd {
	connected, ok := msg.(connectedMsg)
	if !ok || m.state != Connecting {
		return nil
	}
	m.cache.Replace(connected.entries)
	m.transition(Active)
	m.logEvent(fmt.Sprintf("Connected to %s (%d torrents)", m.params.Endpoint(), len(connected.entries)))
	m.syncTorrents()
	if m.synchronous || m.opts.RefreshInterval < 0 {
		return nil
	}
	m.watcher = backend.NewWatcher(m.client, m.opts.RefreshInterval)
	return waitForBackendEvent(m.watcher)
}

func (m *Model) handleConnectFailedMsg(msg tea.Msg) tea.Cmd {
	failed, ok := msg.(connectFailedMsg)
	if !ok {
		return nil
	}
	logging.Error(failed.err)
	m.exitErr = failed.err
	m.setError(failed.err)
	m.logEvent("Connection failed: " + failed.err.Error())
	m.transition(Terminated)
	return tea.Quit
}

func (m *Model) handleRemoteDroppedMsg(msg tea.Msg) tea.Cmd {
	switch m.state {
	case Connecting:
		return m.handleConnectFailedMsg(connectFailedMsg{err: &remote.ConnectionError{Addr: m.params.Endpoint(), Err: ErrRemoteClosed}})
	case Active:
		return m.beginDisconnect("remote closed connection", &remote.ConnectionError{Addr: m.params.Endpoint(), Err: ErrRemoteClosed})
	}
	return nil
}

// beginDisconnect moves an active session to Disconnecting and schedules the
// cleanup. A non-nil cause becomes the exit error.
func (m *Model) beginDisconnect(reason string, cause error) tea.Cmd {
	switch m.state {
	case Disconnecting, Terminated:
		return nil
	case Disconnected, Connecting:
		if cause != nil && m.exitErr == nil {
			m.exitErr = cause
		}
		events.Session.Disconnect(reason)
		m.transition(Terminated)
		return tea.Quit
	}
	if cause != nil && m.exitErr == nil {
		m.exitErr = cause
	}
	events.Session.Disconnect(reason)
	m.logEvent("Disconnecting: " + reason)
	m.transition(Disconnecting)

	watcher := m.watcher
	m.watcher = nil
	client := m.client
	return func() tea.Msg {
		if watcher != nil {
			watcher.Stop()
			watcher.Wait()
		}
		if client != nil {
			client.SetDisconnectCallback(nil)
			if err := client.Disconnect(); err != nil {
				logging.Warn("disconnect failed", "err", err)
			}
		}
		return disconnectedMsg{}
	}
}

func (m *Model) handleDisconnectedMsg(msg tea.Msg) tea.Cmd {
	if m.state != Disconnecting {
		return nil
	}
	m.flushSink()
	m.transition(Terminated)
	return tea.Quit
}
