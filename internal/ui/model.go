package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/torrent-console/internal/backend"
	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/atomicstack/torrent-console/internal/command"
	"github.com/atomicstack/torrent-console/internal/data/dispatcher"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/atomicstack/torrent-console/internal/theme"
	uicommand "github.com/atomicstack/torrent-console/internal/ui/command"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures the interactive console.
type Options struct {
	Context  context.Context
	Client   remote.Client
	Params   remote.Params
	Registry *command.Registry
	Version  string
	Width    int
	Height   int

	// Cache defaults to a fresh, unloaded cache.
	Cache *cache.Cache

	// RefreshInterval is the periodic index refresh; zero keeps only
	// event-driven refreshes and a negative value disables the watcher.
	RefreshInterval time.Duration

	// InitialMode names the mode shown first; it defaults to legacy.
	InitialMode string
}

// Model implements the Bubble Tea model for the interactive console.
type Model struct {
	opts   Options
	ctx    context.Context
	params remote.Params

	client     remote.Client
	registry   *command.Registry
	cache      *cache.Cache
	bus        *uicommand.Bus
	dispatcher *dispatcher.Dispatcher
	watcher    *backend.Watcher

	state   SessionState
	exitErr error
	sink    chan tea.Msg
	done    chan struct{}

	modes     map[string]Mode
	modeOrder []string
	active    Mode
	inputs    []Mode
	legacy    *legacyMode
	torrents  *torrentsMode
	eventLog  *eventLog
	bar       *statusBar

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	lastErr     string
	backendErr  string
	running     int
	synchronous bool

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the console in the Disconnected state.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	c := opts.Cache
	if c == nil {
		c = cache.New()
	}
	m := &Model{
		opts:       opts,
		ctx:        ctx,
		params:     opts.Params,
		client:     opts.Client,
		registry:   opts.Registry,
		cache:      c,
		dispatcher: dispatcher.New(c),
		state:      Disconnected,
		sink:       make(chan tea.Msg, sinkCapacity),
		done:       make(chan struct{}),
		eventLog:   newEventLog(),
		bar:        &statusBar{},
	}
	m.bus = uicommand.New(ctx, m.post)
	m.legacy = newLegacyMode()
	m.torrents = newTorrentsMode()
	m.modes = map[string]Mode{
		modeLegacy:   m.legacy,
		modeTorrents: m.torrents,
		modeLog:      newLogMode(m.eventLog),
	}
	m.modeOrder = []string{modeLegacy, modeTorrents, modeLog}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	initial := opts.InitialMode
	if _, ok := m.modes[initial]; !ok {
		initial = modeLegacy
	}
	_ = m.setMode(initial)
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface. It starts the connection.
func (m *Model) Init() tea.Cmd {
	if !m.transition(Connecting) {
		return nil
	}
	m.logEvent("Connecting to " + m.params.Endpoint())
	cmds := []tea.Cmd{connectCmd(m.ctx, m.client, m.params, func() { m.post(remoteDroppedMsg{}) })}
	if !m.synchronous {
		cmds = append(cmds, waitForSink(m.sink, m.done))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(sinkMsg{}):           m.handleSinkMsg,
		reflect.TypeOf(sinkClosedMsg{}):     func(tea.Msg) tea.Cmd { return nil },
		reflect.TypeOf(outputMsg{}):         m.handleOutputMsg,
		reflect.TypeOf(commandDoneMsg{}):    m.handleCommandDoneMsg,
		reflect.TypeOf(switchModeMsg{}):     m.handleSwitchModeMsg,
		reflect.TypeOf(clearBufferMsg{}):    m.handleClearBufferMsg,
		reflect.TypeOf(quitRequestMsg{}):    m.handleQuitRequestMsg,
		reflect.TypeOf(refreshRequestMsg{}): m.handleRefreshRequestMsg,
		reflect.TypeOf(connectedMsg{}):      m.handleConnectedMsg,
		reflect.TypeOf(connectFailedMsg{}):  m.handleConnectFailedMsg,
		reflect.TypeOf(remoteDroppedMsg{}):  m.handleRemoteDroppedMsg,
		reflect.TypeOf(disconnectedMsg{}):   m.handleDisconnectedMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, keys.Quit):
		return m.beginDisconnect("user quit", nil)
	case key.Matches(keyMsg, keys.LegacyMode):
		_ = m.setMode(modeLegacy)
		return nil
	case key.Matches(keyMsg, keys.TorrentsMode):
		_ = m.setMode(modeTorrents)
		return nil
	case key.Matches(keyMsg, keys.LogMode):
		_ = m.setMode(modeLog)
		return nil
	case key.Matches(keyMsg, keys.Back):
		if m.ActiveMode() != modeLegacy {
			_ = m.setMode(modeLegacy)
			return nil
		}
	}
	if m.state == Terminated {
		return nil
	}
	var cmds []tea.Cmd
	for _, src := range m.inputs {
		cmds = append(cmds, src.Update(m, keyMsg))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.resizeModes()
	return nil
}

func (m *Model) version() string {
	if m.opts.Version == "" {
		return "dev"
	}
	return m.opts.Version
}
