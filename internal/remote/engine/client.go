// Package engine implements remote.Client against the torrent engine REST API
// and its /ws update stream.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/torrent-console/internal/logging"
	"github.com/atomicstack/torrent-console/internal/logging/events"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	defaultRPS     = 20
	defaultBurst   = 5
	defaultTimeout = 30 * time.Second
	stateFetchMax  = 4
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for REST calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit paces outgoing requests. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithEvents toggles the websocket update stream.
func WithEvents(enabled bool) Option {
	return func(c *Client) { c.streamEvents = enabled }
}

// WithBaseURL overrides the URL derived from connection parameters.
func WithBaseURL(raw string) Option {
	return func(c *Client) { c.baseOverride = raw }
}

// Client talks to one torrent engine instance.
type Client struct {
	http         *http.Client
	limiter      *rate.Limiter
	dialer       *websocket.Dialer
	streamEvents bool
	baseOverride string

	mu           sync.Mutex
	base         *url.URL
	params       remote.Params
	connected    bool
	onDisconnect func()
	stream       *websocket.Conn
	stopStream   context.CancelFunc
	events       chan remote.Event
}

// New builds an unconnected client.
func New(opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{Timeout: defaultTimeout},
		limiter:      rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		dialer:       websocket.DefaultDialer,
		streamEvents: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialer returns a remote.Dialer producing engine clients.
func Dialer(opts ...Option) remote.Dialer {
	return func(remote.Params) remote.Client {
		return New(opts...)
	}
}

func (c *Client) baseURL(params remote.Params) (*url.URL, error) {
	raw := c.baseOverride
	if raw == "" {
		raw = "http://" + params.Endpoint()
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// Connect performs the handshake and, when enabled, opens the update stream.
func (c *Client) Connect(ctx context.Context, params remote.Params) error {
	base, err := c.baseURL(params)
	if err != nil {
		return &remote.ConnectionError{Addr: params.Endpoint(), Err: err}
	}
	c.mu.Lock()
	c.base = base
	c.params = params
	c.mu.Unlock()

	query := url.Values{"view": {"summary"}, "limit": {"1"}}
	if err := c.do(ctx, http.MethodGet, "/torrents", query, nil, nil); err != nil {
		var connErr *remote.ConnectionError
		if errors.As(err, &connErr) {
			return connErr
		}
		return &remote.ConnectionError{Addr: base.Host, Err: err}
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	if c.streamEvents {
		if err := c.openStream(ctx); err != nil {
			logging.Warn("update stream unavailable", "addr", base.Host, "err", err)
		}
	}
	return nil
}

// Disconnect closes the update stream without firing the disconnect callback.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	c.connected = false
	stop := c.stopStream
	conn := c.stream
	c.stopStream = nil
	c.stream = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			time.Now().Add(time.Second))
		return conn.Close()
	}
	return nil
}

// Connected reports whether the handshake succeeded and no disconnect happened since.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SetDisconnectCallback registers fn to run once when the service drops the
// connection.
func (c *Client) SetDisconnectCallback(fn func()) {
	c.mu.Lock()
	c.onDisconnect = fn
	c.mu.Unlock()
}

func (c *Client) dropped() {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	fn := c.onDisconnect
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	c.mu.Lock()
	base := c.base
	c.mu.Unlock()
	if base == nil {
		return "", remote.ErrNotConnected
	}
	u := *base
	u.Path = base.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target, err := c.endpoint(path, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	params := c.params
	c.mu.Unlock()
	if params.Username != "" {
		req.SetBasicAuth(params.Username, params.Password)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do issues a JSON request. in is encoded when non-nil; out is decoded when
// non-nil and the response is a success.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return req.Context().Err()
		}
		return &remote.ConnectionError{Addr: req.URL.Host, Err: err}
	}
	defer resp.Body.Close()
	events.Remote.Request(req.Method, req.URL.Path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var env errorEnvelope
	opErr := &remote.OperationError{Op: resp.Request.Method + " " + resp.Request.URL.Path}
	if err := json.Unmarshal(data, &env); err == nil && env.Error.Message != "" {
		opErr.Code = env.Error.Code
		opErr.Message = env.Error.Message
		return opErr
	}
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = resp.Status
	}
	opErr.Message = msg
	return opErr
}

var _ remote.Client = (*Client)(nil)
