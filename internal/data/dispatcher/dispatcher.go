// Package dispatcher applies backend events to the shared torrent index.
package dispatcher

import (
	"github.com/atomicstack/torrent-console/internal/backend"
	"github.com/atomicstack/torrent-console/internal/cache"
	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/logging/events"
)

type Result struct {
	IndexUpdated bool
	Healthy      bool
	Count        int
	Err          error
}

type Dispatcher struct {
	cache *cache.Cache
}

func New(c *cache.Cache) *Dispatcher {
	return &Dispatcher{cache: c}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		events.Cache.Fail(evt.Err)
		logging.Warn("index refresh failed", "reason", evt.Reason, "err", evt.Err)
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindIndex:
		events.Cache.Refresh(evt.Reason)
		d.cache.Replace(evt.Entries)
		res.IndexUpdated = true
		res.Count = len(evt.Entries)
	case backend.KindHealth:
		res.Healthy = true
	}
	return res
}
