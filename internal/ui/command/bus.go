// Package command runs console commands off the UI event loop.
package command

import (
	"context"
	"fmt"

	"github.com/atomicstack/torrent-console/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Handler performs the work of a request and returns the message to deliver
// back to the model, or nil.
type Handler func(ctx context.Context) tea.Msg

// Request encapsulates one command execution.
type Request struct {
	ID      string
	Label   string
	Handler Handler
}

// NewRequest returns a Request with a fresh id.
func NewRequest(label string, handler Handler) Request {
	return Request{ID: uuid.NewString(), Label: label, Handler: handler}
}

// Bus coordinates the execution of console commands.
type Bus struct {
	ctx     context.Context
	deliver func(tea.Msg)
}

// New initialises a command bus bound to ctx. When deliver is set, results
// are handed to it instead of being returned from the tea.Cmd, so they are
// ordered with anything else the handler posted through the same path.
func New(ctx context.Context, deliver func(tea.Msg)) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx, deliver: deliver}
}

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		msg := req.Handler(b.ctx)
		if msg == nil {
			events.Command.NoOp(req.ID, req.Label)
			return nil
		}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		if b.deliver != nil {
			b.deliver(msg)
			return nil
		}
		return msg
	}
}
