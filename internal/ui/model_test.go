package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/torrent-console/internal/backend"
	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/commands"
	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/atomicstack/torrent-console/internal/remote/remotetest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = remote.Params{Address: "127.0.0.1", Port: 8080}

func newFake() *remotetest.Fake {
	return remotetest.New(
		remote.Status{ID: "abc123", Name: "Foo.iso", State: "active", TotalBytes: 1 << 20},
		remote.Status{ID: "def456", Name: "Bar.zip", State: "stopped", TotalBytes: 2 << 20},
	)
}

func newTestHarness(t *testing.T, fake *remotetest.Fake) *Harness {
	t.Helper()
	reg, err := command.Load(commands.Source(), nil)
	require.NoError(t, err)
	model := NewModel(Options{
		Client:   fake,
		Params:   testParams,
		Registry: reg,
		Version:  "test",
		Width:    100,
		Height:   30,
	})
	h := NewHarness(model)
	h.Start()
	return h
}

func bufferText(h *Harness) string {
	return strings.Join(h.Model().legacy.Lines(), "\n")
}

func logText(h *Harness) string {
	return strings.Join(h.Model().eventLog.Lines(), "\n")
}

func press(h *Harness, t tea.KeyType) {
	h.Send(tea.KeyMsg{Type: t})
}

func TestConnectReachesActive(t *testing.T) {
	h := newTestHarness(t, newFake())
	m := h.Model()

	assert.Equal(t, Active, m.State())
	assert.False(t, h.Quit())
	assert.Equal(t, 2, m.cache.Len())
	assert.Len(t, m.torrents.list.Items, 2)
	assert.Contains(t, logText(h), "Connected to 127.0.0.1:8080 (2 torrents)")
	assert.Contains(t, h.Model().PlainView(), "torrent-console test | active | 127.0.0.1:8080")
}

func TestConnectTracesOneCacheReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	logging.Configure(path)
	logging.SetTraceEnabled(true)
	t.Cleanup(func() {
		logging.SetTraceEnabled(false)
		logging.Configure("")
	})

	h := newTestHarness(t, newFake())
	require.Equal(t, Active, h.Model().State())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), `"event":"cache.replace"`))
}

func TestConnectFailureTerminates(t *testing.T) {
	fake := newFake()
	fake.ConnectErr = errors.New("refused")
	h := newTestHarness(t, fake)

	assert.Equal(t, Terminated, h.Model().State())
	assert.True(t, h.Quit())
	assert.True(t, remote.IsConnectionError(h.Model().ExitErr()))
	assert.False(t, h.Model().cache.Loaded())
}

func TestInitialRefreshFailureTerminates(t *testing.T) {
	fake := newFake()
	fake.Errors["SessionState"] = errors.New("boom")
	h := newTestHarness(t, fake)

	assert.Equal(t, Terminated, h.Model().State())
	require.Error(t, h.Model().ExitErr())
	assert.Contains(t, h.Model().ExitErr().Error(), "initial refresh")
	assert.True(t, fake.Called("Disconnect"))
}

func TestSubmitRunsCommandIntoBuffer(t *testing.T) {
	h := newTestHarness(t, newFake())
	h.Submit("info")

	text := bufferText(h)
	assert.Contains(t, text, "> info")
	assert.Contains(t, text, "Foo.iso")
	assert.Contains(t, text, "Bar.zip")
	assert.Equal(t, 0, h.Model().running)
	assert.Empty(t, h.Model().legacy.Line())
}

func TestUnknownCommandIsReportedAndLoopContinues(t *testing.T) {
	h := newTestHarness(t, newFake())
	h.Submit("bogus")

	assert.Contains(t, bufferText(h), `unknown command "bogus"`)
	assert.Equal(t, Active, h.Model().State())
	assert.Contains(t, h.Model().lastErr, "bogus")
}

func TestParseErrorShowsUsage(t *testing.T) {
	h := newTestHarness(t, newFake())
	h.Submit("info --nope")

	text := bufferText(h)
	assert.Contains(t, text, "Error: info:")
	assert.Contains(t, text, "Usage: info")
	assert.Equal(t, Active, h.Model().State())
}

func TestHelpFlagPrintsUsage(t *testing.T) {
	h := newTestHarness(t, newFake())
	h.Submit("stop --help")

	assert.Contains(t, bufferText(h), "Usage: pause")
}

func TestRemoteOperationErrorKeepsSession(t *testing.T) {
	h := newTestHarness(t, newFake())
	h.Submit("pause nothing-here")

	assert.Contains(t, bufferText(h), "Error:")
	assert.Equal(t, Active, h.Model().State())
}

func TestModeSwitchKeepsOneInputSource(t *testing.T) {
	h := newTestHarness(t, newFake())
	m := h.Model()

	steps := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyF2, modeTorrents},
		{tea.KeyF3, modeLog},
		{tea.KeyEsc, modeLegacy},
		{tea.KeyF3, modeLog},
		{tea.KeyF1, modeLegacy},
	}
	for _, step := range steps {
		press(h, step.key)
		sources := m.InputSources()
		require.Len(t, sources, 1)
		assert.Equal(t, step.want, sources[0].Name())
		assert.Equal(t, step.want, m.ActiveMode())
		assert.Equal(t, step.want, m.bar.mode.Name())
	}
}

func TestOutputQueuedToEventLogOutsideLegacy(t *testing.T) {
	h := newTestHarness(t, newFake())
	press(h, tea.KeyF2)
	press(h, tea.KeyEnter)

	assert.Contains(t, logText(h), "> info -v abc123")
	assert.Contains(t, logText(h), "Name: Foo.iso")
	assert.NotContains(t, bufferText(h), "Foo.iso")
	assert.Positive(t, h.Model().eventLog.Unread())

	press(h, tea.KeyF3)
	assert.Zero(t, h.Model().eventLog.Unread())
	assert.Contains(t, h.Model().PlainView(), "Name: Foo.iso")
}

func TestViewCommandSwitchesMode(t *testing.T) {
	h := newTestHarness(t, newFake())
	h.Submit("view torrents")
	assert.Equal(t, modeTorrents, h.Model().ActiveMode())

	press(h, tea.KeyEsc)
	h.Submit("view nope")
	assert.Equal(t, modeLegacy, h.Model().ActiveMode())
	assert.Contains(t, bufferText(h), `unknown mode "nope"`)
}

func TestClearCommandEmptiesBuffer(t *testing.T) {
	h := newTestHarness(t, newFake())
	h.Submit("help")
	require.NotEmpty(t, h.Model().legacy.Lines())

	h.Submit("cls")
	assert.Empty(t, h.Model().legacy.Lines())
}

func TestQuitCommandDisconnectsCleanly(t *testing.T) {
	fake := newFake()
	h := newTestHarness(t, fake)
	h.Submit("quit")

	assert.Equal(t, Terminated, h.Model().State())
	assert.True(t, h.Quit())
	assert.NoError(t, h.Model().ExitErr())
	assert.True(t, fake.Called("Disconnect"))
	assert.False(t, fake.Connected())
}

func TestCtrlCQuits(t *testing.T) {
	h := newTestHarness(t, newFake())
	press(h, tea.KeyCtrlC)

	assert.Equal(t, Terminated, h.Model().State())
	assert.True(t, h.Quit())
	assert.NoError(t, h.Model().ExitErr())
}

func TestRemoteDisconnectTerminatesWithError(t *testing.T) {
	fake := newFake()
	h := newTestHarness(t, fake)
	fake.DropConnection()
	h.Flush()

	m := h.Model()
	assert.Equal(t, Terminated, m.State())
	assert.True(t, h.Quit())
	require.Error(t, m.ExitErr())
	assert.ErrorIs(t, m.ExitErr(), ErrRemoteClosed)
	assert.True(t, remote.IsConnectionError(m.ExitErr()))
	assert.Contains(t, logText(h), "Disconnecting: remote closed connection")
}

func TestConnectionErrorFromCommandEndsSession(t *testing.T) {
	fake := newFake()
	h := newTestHarness(t, fake)
	fake.Errors["TorrentsStatus"] = &remote.ConnectionError{Addr: testParams.Endpoint(), Err: errors.New("reset")}
	h.Submit("status")

	assert.Equal(t, Terminated, h.Model().State())
	assert.True(t, remote.IsConnectionError(h.Model().ExitErr()))
}

func TestInteractiveOnlyCommandsRunInConsole(t *testing.T) {
	h := newTestHarness(t, newFake())
	h.Submit("view")
	assert.Contains(t, bufferText(h), "Modes: legacy, torrents, log")
}

func TestBackendEventUpdatesTorrentList(t *testing.T) {
	h := newTestHarness(t, newFake())
	h.Send(backendEventMsg{event: backend.Event{
		Kind:    backend.KindIndex,
		Reason:  backend.ReasonRemote,
		Entries: []cache.Entry{{ID: "fff000", Name: "New.mkv"}},
	}})

	m := h.Model()
	assert.Equal(t, 1, m.cache.Len())
	require.Len(t, m.torrents.list.Items, 1)
	assert.Equal(t, "New.mkv", m.torrents.list.Items[0].Label)

	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindIndex, Err: errors.New("timeout")}})
	assert.Equal(t, 1, m.cache.Len())
	assert.Contains(t, logText(h), "Refresh failed: timeout")
	assert.Equal(t, Active, m.State())
}

func TestRefreshConnectionErrorEndsSession(t *testing.T) {
	fake := newFake()
	h := newTestHarness(t, fake)
	cause := &remote.ConnectionError{Addr: testParams.Endpoint(), Err: errors.New("connection refused")}
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindIndex, Reason: backend.ReasonTick, Err: cause}})

	m := h.Model()
	assert.Equal(t, Terminated, m.State())
	assert.True(t, h.Quit())
	assert.ErrorIs(t, m.ExitErr(), cause)
	assert.True(t, fake.Called("Disconnect"))
	assert.Contains(t, logText(h), "Disconnecting: connection error")
}

func TestTorrentsModePausesSelection(t *testing.T) {
	fake := newFake()
	h := newTestHarness(t, fake)
	press(h, tea.KeyF2)
	press(h, tea.KeyTab)
	press(h, tea.KeyDown)
	press(h, tea.KeyTab)
	press(h, tea.KeyCtrlS)

	for _, id := range []string{"abc123", "def456"} {
		st, ok := fake.Torrent(id)
		require.True(t, ok)
		assert.Equal(t, "stopped", st.State)
	}
	assert.Contains(t, logText(h), "Paused 2 torrents")
	assert.Empty(t, h.Model().torrents.list.Selected)
}

func TestTorrentsModeFilter(t *testing.T) {
	h := newTestHarness(t, newFake())
	press(h, tea.KeyF2)
	h.Type("bar")

	list := h.Model().torrents.list
	require.Len(t, list.Items, 1)
	assert.Equal(t, "def456", list.Items[0].ID)
	assert.Contains(t, h.Model().PlainView(), "Bar.zip")
	assert.NotContains(t, h.Model().PlainView(), "Foo.iso")
}

func TestRefreshCommandResyncsList(t *testing.T) {
	fake := newFake()
	h := newTestHarness(t, fake)
	_, err := fake.AddTorrent(t.Context(), remote.AddRequest{Source: "magnet:?xt=urn:btih:x", Name: "Late.iso"})
	require.NoError(t, err)

	h.Submit("refresh")
	assert.Contains(t, bufferText(h), "Cached 3 torrents")
	assert.Len(t, h.Model().torrents.list.Full, 3)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, canTransition(Disconnected, Connecting))
	assert.True(t, canTransition(Connecting, Active))
	assert.True(t, canTransition(Connecting, Terminated))
	assert.True(t, canTransition(Active, Disconnecting))
	assert.True(t, canTransition(Disconnecting, Terminated))
	assert.False(t, canTransition(Active, Connecting))
	assert.False(t, canTransition(Terminated, Active))
	assert.Equal(t, "disconnecting", Disconnecting.String())
}
