package events

import "github.com/atomicstack/torrent-console/internal/logging"

type RemoteTracer struct{}

var Remote = RemoteTracer{}

func (RemoteTracer) Request(method, path string, status int) {
	logging.Trace("remote.request", map[string]interface{}{"method": method, "path": path, "status": status})
}

func (RemoteTracer) Event(kind string) {
	logging.Trace("remote.event", map[string]interface{}{"kind": kind})
}

func (RemoteTracer) StreamClosed(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("remote.stream.closed", payload)
}
