package engine

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/atomicstack/torrent-console/internal/logging/events"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/gorilla/websocket"
)

type streamMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (c *Client) streamURL() (string, error) {
	target, err := c.endpoint("/ws", nil)
	if err != nil {
		return "", err
	}
	switch {
	case strings.HasPrefix(target, "https://"):
		return "wss://" + strings.TrimPrefix(target, "https://"), nil
	case strings.HasPrefix(target, "http://"):
		return "ws://" + strings.TrimPrefix(target, "http://"), nil
	}
	return target, nil
}

func (c *Client) openStream(ctx context.Context) error {
	target, err := c.streamURL()
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, "GET", "/ws", nil, nil)
	if err != nil {
		return err
	}
	header := req.Header.Clone()
	header.Del("Accept")
	conn, resp, err := c.dialer.DialContext(ctx, target, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return err
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	ch := make(chan remote.Event, 16)
	c.mu.Lock()
	c.stream = conn
	c.stopStream = cancel
	c.events = ch
	c.mu.Unlock()

	go c.readStream(streamCtx, conn, ch)
	return nil
}

// Events implements remote.EventSource. It returns nil when no stream is open.
func (c *Client) Events() <-chan remote.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.events == nil {
		return nil
	}
	return c.events
}

func (c *Client) readStream(ctx context.Context, conn *websocket.Conn, ch chan<- remote.Event) {
	defer close(ch)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			events.Remote.StreamClosed(err)
			c.dropped()
			return
		}
		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		kind, ok := eventKind(msg.Type)
		if !ok {
			continue
		}
		events.Remote.Event(msg.Type)
		select {
		case ch <- remote.Event{Kind: kind}:
		case <-ctx.Done():
			return
		default:
			// a refresh is already pending; the next one sees the same state
		}
	}
}

func eventKind(t string) (remote.EventKind, bool) {
	switch t {
	case "torrents":
		return remote.EventTorrentsChanged, true
	case "states":
		return remote.EventStatesChanged, true
	case "health":
		return remote.EventHealth, true
	default:
		return 0, false
	}
}

var _ remote.EventSource = (*Client)(nil)
