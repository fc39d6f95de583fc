package events

import "github.com/atomicstack/torrent-console/internal/logging"

type CommandTracer struct{}

type ModeTracer struct{}

type InputTracer struct{}

var (
	Command = CommandTracer{}
	Mode    = ModeTracer{}
	Input   = InputTracer{}
)

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}

func (CommandTracer) Resolve(token, name string) {
	logging.Trace("command.resolve", map[string]interface{}{"token": token, "command": name})
}

func (CommandTracer) Reject(token string, err error) {
	payload := map[string]interface{}{"token": token}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.reject", payload)
}

func (CommandTracer) Register(name string, aliases []string) {
	logging.Trace("command.register", map[string]interface{}{"command": name, "aliases": aliases})
}

func (CommandTracer) Error(name string, err error) {
	if err == nil {
		return
	}
	logging.Trace("command.error", map[string]interface{}{"command": name, "error": err.Error()})
}

func (ModeTracer) Switch(from, to string) {
	logging.Trace("mode.switch", map[string]interface{}{"from": from, "to": to})
}

func (ModeTracer) Queue(mode string, pending int) {
	logging.Trace("mode.queue", map[string]interface{}{"mode": mode, "pending": pending})
}

func (InputTracer) Submit(line string) {
	logging.Trace("input.submit", map[string]interface{}{"line": line})
}

func (InputTracer) Complete(line string, candidates int) {
	logging.Trace("input.complete", map[string]interface{}{"line": line, "candidates": candidates})
}

func (InputTracer) History(index int) {
	logging.Trace("input.history", map[string]interface{}{"index": index})
}
