package events

import "github.com/atomicstack/torrent-console/internal/logging"

type SessionTracer struct{}

var Session = SessionTracer{}

func (SessionTracer) Transition(from, to string) {
	logging.Trace("session.transition", map[string]interface{}{"from": from, "to": to})
}

func (SessionTracer) Connect(addr string) {
	logging.Trace("session.connect", map[string]interface{}{"addr": addr})
}

func (SessionTracer) ConnectFailed(addr string, err error) {
	payload := map[string]interface{}{"addr": addr}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("session.connect.error", payload)
}

func (SessionTracer) Disconnect(reason string) {
	logging.Trace("session.disconnect", map[string]interface{}{"reason": reason})
}
