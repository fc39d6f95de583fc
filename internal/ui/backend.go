package ui

import (
	"github.com/atomicstack/torrent-console/internal/backend"
	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/remote"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	if cmd := m.applyBackendEvent(eventMsg.event); cmd != nil {
		return cmd
	}
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

// applyBackendEvent folds a watcher event into the session. A transport
// failure ends the session like any other connection error.
func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	if m.state != Active {
		return nil
	}
	res := m.dispatcher.Handle(evt)
	if res.Err != nil {
		m.backendErr = res.Err.Error()
		m.logEvent("Refresh failed: " + m.backendErr)
		if remote.IsConnectionError(res.Err) {
			return m.beginDisconnect("connection error", res.Err)
		}
		return nil
	}
	if m.backendErr != "" {
		m.backendErr = ""
		m.logEvent("Refresh recovered")
	}
	if res.IndexUpdated {
		logging.Debug("index refreshed", "reason", evt.Reason, "count", res.Count)
		m.syncTorrents()
	}
	return nil
}

// requestRefresh asks the watcher for a new index, or fetches one directly
// when no watcher is running.
func (m *Model) requestRefresh() tea.Cmd {
	if m.state != Active {
		return nil
	}
	if m.watcher != nil {
		m.watcher.Trigger(backend.ReasonRequest)
		return nil
	}
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		entries, err := cache.Fetch(ctx, client)
		return backendEventMsg{event: backend.Event{Kind: backend.KindIndex, Reason: backend.ReasonRequest, Entries: entries, Err: err}}
	}
}

// syncTorrents pushes the cached index into the torrent list.
func (m *Model) syncTorrents() {
	m.torrents.SetEntries(m.cache.Entries())
}

// logEvent records a session event in the event log.
func (m *Model) logEvent(text string) {
	m.eventLog.Add(text)
	m.noteQueued()
}

