package events

import "github.com/atomicstack/torrent-console/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Mode(interactive bool) {
	logging.Trace("app.mode", map[string]interface{}{"interactive": interactive})
}

func (AppTracer) Exit(code int, err error) {
	payload := map[string]interface{}{"code": code}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.exit", payload)
}
