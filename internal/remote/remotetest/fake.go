// Package remotetest provides an in-memory remote.Client for tests.
package remotetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/torrent-console/internal/remote"
)

// Call records one invocation against the fake.
type Call struct {
	Method string
	Args   []string
}

// Fake is an in-memory torrent service. Torrents keep insertion order so
// SessionState is deterministic.
type Fake struct {
	mu sync.Mutex

	order    []string
	torrents map[string]remote.Status

	connected    bool
	onDisconnect func()
	events       chan remote.Event
	calls        []Call
	nextID       int

	// ConnectErr, when set, fails Connect.
	ConnectErr error
	// Errors maps a method name to the error it should return.
	Errors map[string]error
	// Gate, when set, blocks SessionState until it is closed.
	Gate chan struct{}
}

// New returns a fake seeded with the given torrents.
func New(torrents ...remote.Status) *Fake {
	f := &Fake{
		torrents: make(map[string]remote.Status, len(torrents)),
		Errors:   map[string]error{},
		events:   make(chan remote.Event, 8),
	}
	for _, t := range torrents {
		f.order = append(f.order, t.ID)
		f.torrents[t.ID] = t
	}
	return f
}

// Dialer returns a remote.Dialer that always yields f.
func (f *Fake) Dialer() remote.Dialer {
	return func(remote.Params) remote.Client { return f }
}

func (f *Fake) record(method string, args ...string) error {
	f.calls = append(f.calls, Call{Method: method, Args: args})
	if err := f.Errors[method]; err != nil {
		return err
	}
	if method != "Connect" && !f.connected {
		return remote.ErrNotConnected
	}
	return nil
}

// Calls returns the recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Called reports whether method was invoked at least once.
func (f *Fake) Called(method string) bool {
	for _, c := range f.Calls() {
		if c.Method == method {
			return true
		}
	}
	return false
}

func (f *Fake) Connect(ctx context.Context, params remote.Params) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Connect", params.Endpoint()); err != nil {
		return err
	}
	if f.ConnectErr != nil {
		return &remote.ConnectionError{Addr: params.Endpoint(), Err: f.ConnectErr}
	}
	f.connected = true
	return nil
}

func (f *Fake) Disconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: "Disconnect"})
	f.connected = false
	return nil
}

func (f *Fake) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *Fake) SetDisconnectCallback(fn func()) {
	f.mu.Lock()
	f.onDisconnect = fn
	f.mu.Unlock()
}

// DropConnection simulates a remote-initiated disconnect.
func (f *Fake) DropConnection() {
	f.mu.Lock()
	f.connected = false
	fn := f.onDisconnect
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Events implements remote.EventSource.
func (f *Fake) Events() <-chan remote.Event {
	return f.events
}

// Emit pushes an update notification.
func (f *Fake) Emit(evt remote.Event) {
	f.events <- evt
}

func (f *Fake) SessionState(ctx context.Context) ([]string, error) {
	if gate := f.Gate; gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SessionState"); err != nil {
		return nil, err
	}
	return append([]string(nil), f.order...), nil
}

func (f *Fake) TorrentsStatus(ctx context.Context, filter remote.Filter, fields []string) (map[string]remote.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("TorrentsStatus", filter.IDs...); err != nil {
		return nil, err
	}
	ids := filter.IDs
	if len(ids) == 0 {
		ids = f.order
	}
	out := make(map[string]remote.Status, len(ids))
	for _, id := range ids {
		if t, ok := f.torrents[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (f *Fake) AddTorrent(ctx context.Context, req remote.AddRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddTorrent", req.Source, req.SavePath); err != nil {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("added%03d", f.nextID)
	name := req.Name
	if name == "" {
		name = req.Source
	}
	state := "active"
	if req.Paused {
		state = "stopped"
	}
	f.order = append(f.order, id)
	f.torrents[id] = remote.Status{ID: id, Name: name, State: state}
	return id, nil
}

func (f *Fake) setState(method string, ids []string, state string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(method, ids...); err != nil {
		return err
	}
	for _, id := range ids {
		t, ok := f.torrents[id]
		if !ok {
			return &remote.OperationError{Op: method, ID: id, Code: "not_found", Message: "torrent not found"}
		}
		t.State = state
		f.torrents[id] = t
	}
	return nil
}

func (f *Fake) PauseTorrents(ctx context.Context, ids []string) error {
	return f.setState("PauseTorrents", ids, "stopped")
}

func (f *Fake) ResumeTorrents(ctx context.Context, ids []string) error {
	return f.setState("ResumeTorrents", ids, "active")
}

func (f *Fake) RemoveTorrent(ctx context.Context, id string, removeData bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RemoveTorrent", id, fmt.Sprint(removeData)); err != nil {
		return err
	}
	if _, ok := f.torrents[id]; !ok {
		return &remote.OperationError{Op: "remove", ID: id, Code: "not_found", Message: "torrent not found"}
	}
	delete(f.torrents, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// Torrent returns the current state of one torrent.
func (f *Fake) Torrent(id string) (remote.Status, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.torrents[id]
	return t, ok
}

var (
	_ remote.Client      = (*Fake)(nil)
	_ remote.EventSource = (*Fake)(nil)
)
