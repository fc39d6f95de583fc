// Package remote defines the client surface the console uses to talk to a
// torrent service. Commands and the session cache depend only on Client; the
// wire protocol lives in subpackages.
package remote

import (
	"context"
	"net"
	"strconv"
	"time"
)

// Params carries connection details shared by batch and interactive modes.
type Params struct {
	Address  string
	Port     int
	Username string
	Password string
}

// Endpoint renders the host:port pair.
func (p Params) Endpoint() string {
	return net.JoinHostPort(p.Address, strconv.Itoa(p.Port))
}

// Field names accepted by Client.TorrentsStatus.
const (
	FieldName         = "name"
	FieldState        = "state"
	FieldProgress     = "progress"
	FieldSize         = "size"
	FieldPeers        = "peers"
	FieldDownloadRate = "download_rate"
	FieldUploadRate   = "upload_rate"
	FieldTags         = "tags"
)

// LiveFields are the fields that need a per-torrent state query.
var LiveFields = []string{FieldPeers, FieldDownloadRate, FieldUploadRate}

// Filter narrows a status query. An empty IDs slice selects every torrent.
type Filter struct {
	IDs []string
}

// Status holds the field values reported for one torrent. Fields that were not
// requested are left at their zero value.
type Status struct {
	ID            string
	Name          string
	State         string
	Progress      float64
	DoneBytes     int64
	TotalBytes    int64
	Peers         int
	DownloadSpeed int64
	UploadSpeed   int64
	Tags          []string
	UpdatedAt     time.Time
}

// AddRequest describes a torrent to add. Source is a magnet URI or a path to a
// .torrent file on the local filesystem.
type AddRequest struct {
	Source   string
	Name     string
	SavePath string
	Paused   bool
}

// EventKind classifies remote update notifications.
type EventKind int

const (
	EventTorrentsChanged EventKind = iota
	EventStatesChanged
	EventHealth
)

func (k EventKind) String() string {
	switch k {
	case EventTorrentsChanged:
		return "torrents"
	case EventStatesChanged:
		return "states"
	case EventHealth:
		return "health"
	default:
		return "unknown"
	}
}

// Event is an incremental update pushed by the service.
type Event struct {
	Kind EventKind
}

// Client is the capability set the console needs from a torrent service.
// Every method may block on the network; callers run them off the event loop.
type Client interface {
	Connect(ctx context.Context, params Params) error
	Disconnect() error
	Connected() bool
	SetDisconnectCallback(fn func())
	SessionState(ctx context.Context) ([]string, error)
	TorrentsStatus(ctx context.Context, filter Filter, fields []string) (map[string]Status, error)
	AddTorrent(ctx context.Context, req AddRequest) (string, error)
	PauseTorrents(ctx context.Context, ids []string) error
	ResumeTorrents(ctx context.Context, ids []string) error
	RemoveTorrent(ctx context.Context, id string, removeData bool) error
}

// EventSource is implemented by clients that push update notifications. The
// channel is closed when the stream ends.
type EventSource interface {
	Events() <-chan Event
}

// Dialer builds a client for the supplied parameters.
type Dialer func(params Params) Client
