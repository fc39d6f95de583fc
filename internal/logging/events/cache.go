package events

import "github.com/atomicstack/torrent-console/internal/logging"

type CacheTracer struct{}

var Cache = CacheTracer{}

func (CacheTracer) Refresh(reason string) {
	logging.Trace("cache.refresh", map[string]interface{}{"reason": reason})
}

func (CacheTracer) Replace(count int) {
	logging.Trace("cache.replace", map[string]interface{}{"count": count})
}

func (CacheTracer) Fail(err error) {
	if err == nil {
		return
	}
	logging.Trace("cache.error", map[string]interface{}{"error": err.Error()})
}
