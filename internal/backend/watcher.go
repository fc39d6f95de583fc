// Package backend keeps the torrent index fresh while the console is running.
package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/atomicstack/torrent-console/internal/remote"
	"golang.org/x/time/rate"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	// KindIndex carries a freshly fetched torrent index.
	KindIndex Kind = iota
	// KindHealth reports an engine health notification.
	KindHealth
)

func (k Kind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindHealth:
		return "health"
	default:
		return "unknown"
	}
}

// Event conveys updated data or an error from a refresh.
type Event struct {
	Kind    Kind
	Reason  string
	Entries []cache.Entry
	Err     error
}

// Refresh reasons carried on index events.
const (
	ReasonTick    = "tick"
	ReasonRemote  = "remote"
	ReasonRequest = "request"
)

// minRefreshGap bounds how often the index is fetched, whatever the trigger.
const minRefreshGap = 250 * time.Millisecond

// Watcher refreshes the index on a fixed interval, on remote change
// notifications and on request.
type Watcher struct {
	client   remote.Client
	interval time.Duration
	limiter  *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc

	events  chan Event
	trigger chan string
	wg      sync.WaitGroup
}

// NewWatcher creates and starts a watcher. An interval of zero disables
// periodic refreshes. When client also implements remote.EventSource its
// notifications trigger refreshes too.
func NewWatcher(client remote.Client, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		client:   client,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(minRefreshGap), 1),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
		trigger:  make(chan string, 1),
	}

	var notifications <-chan remote.Event
	if src, ok := client.(remote.EventSource); ok {
		notifications = src.Events()
	}

	w.wg.Add(1)
	go w.run(notifications)

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events. It is closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Trigger asks for a refresh. Requests made while one is pending coalesce.
func (w *Watcher) Trigger(reason string) {
	if reason == "" {
		reason = ReasonRequest
	}
	select {
	case w.trigger <- reason:
	default:
	}
}

// Stop cancels the watcher. The current fetch is abandoned.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run(notifications <-chan remote.Event) {
	defer w.wg.Done()

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		var ok bool
		select {
		case <-w.ctx.Done():
			return
		case <-tick:
			ok = w.refresh(ReasonTick)
		case reason := <-w.trigger:
			ok = w.refresh(reason)
		case evt, open := <-notifications:
			if !open {
				notifications = nil
				continue
			}
			ok = w.notify(evt)
		}
		if !ok {
			return
		}
	}
}

func (w *Watcher) notify(evt remote.Event) bool {
	switch evt.Kind {
	case remote.EventTorrentsChanged:
		return w.refresh(ReasonRemote)
	case remote.EventHealth:
		return w.emit(Event{Kind: KindHealth, Reason: ReasonRemote})
	default:
		// state changes do not alter ids or names
		return true
	}
}

func (w *Watcher) refresh(reason string) bool {
	if err := w.limiter.Wait(w.ctx); err != nil {
		return false
	}
	entries, err := cache.Fetch(w.ctx, w.client)
	if w.ctx.Err() != nil {
		return false
	}
	return w.emit(Event{Kind: KindIndex, Reason: reason, Entries: entries, Err: err})
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
