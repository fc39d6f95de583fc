package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	t        *testing.T
	mu       sync.Mutex
	requests []string
	auth     string
	bodies   map[string]string
	streams  chan *websocket.Conn
}

func newFakeEngine(t *testing.T) (*fakeEngine, *httptest.Server) {
	fe := &fakeEngine{t: t, bodies: map[string]string{}, streams: make(chan *websocket.Conn, 1)}
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/torrents", func(w http.ResponseWriter, r *http.Request) {
		fe.note(r)
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, torrentList{Items: []torrentSummary{
				{ID: "abc123", Name: "Foo.iso", Status: "active", Progress: 0.5, DoneBytes: 50, TotalBytes: 100},
				{ID: "def456", Name: "Bar.zip", Status: "stopped", Progress: 1, DoneBytes: 10, TotalBytes: 10, Tags: []string{"linux"}},
			}, Count: 2})
		case http.MethodPost:
			ct := r.Header.Get("Content-Type")
			if strings.HasPrefix(ct, "multipart/form-data") {
				file, header, err := r.FormFile("torrent")
				if err != nil {
					writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": map[string]string{"code": "invalid_request", "message": "missing torrent file"}})
					return
				}
				file.Close()
				fe.setBody("upload", header.Filename+"|"+r.FormValue("savePath"))
			} else {
				var body createJSON
				_ = json.NewDecoder(r.Body).Decode(&body)
				fe.setBody("magnet", body.Magnet)
			}
			writeJSON(w, http.StatusCreated, createdRecord{ID: "new001"})
		}
	})
	mux.HandleFunc("/torrents/", func(w http.ResponseWriter, r *http.Request) {
		fe.note(r)
		path := strings.TrimPrefix(r.URL.Path, "/torrents/")
		switch {
		case strings.HasSuffix(path, "/state"):
			id := strings.TrimSuffix(path, "/state")
			writeJSON(w, http.StatusOK, sessionState{ID: id, Status: "active", Progress: 0.75, Peers: 3, DownloadSpeed: 2048, UploadSpeed: 512})
		case strings.HasPrefix(path, "bulk/"):
			var req bulkRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			res := bulkResult{}
			for _, id := range req.IDs {
				item := struct {
					ID    string `json:"id"`
					OK    bool   `json:"ok"`
					Error string `json:"error,omitempty"`
				}{ID: id, OK: id != "missing"}
				if !item.OK {
					item.Error = "torrent not found"
				}
				res.Items = append(res.Items, item)
			}
			writeJSON(w, http.StatusOK, res)
		case r.Method == http.MethodDelete:
			if path == "missing" {
				writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": map[string]string{"code": "not_found", "message": "torrent not found"}})
				return
			}
			fe.setBody("delete", path+"|"+r.URL.Query().Get("deleteFiles"))
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fe.streams <- conn
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fe, srv
}

func (fe *fakeEngine) note(r *http.Request) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.requests = append(fe.requests, r.Method+" "+r.URL.Path)
	if user, pass, ok := r.BasicAuth(); ok {
		fe.auth = user + ":" + pass
	}
}

func (fe *fakeEngine) setBody(key, value string) {
	fe.mu.Lock()
	fe.bodies[key] = value
	fe.mu.Unlock()
}

func (fe *fakeEngine) body(key string) string {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bodies[key]
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func connect(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(srv.URL), WithRateLimit(0, 0), WithEvents(false)}, opts...)
	c := New(opts...)
	require.NoError(t, c.Connect(context.Background(), remote.Params{Address: "127.0.0.1", Port: 1, Username: "admin", Password: "secret"}))
	t.Cleanup(func() { _ = c.Disconnect() })
	return c
}

func TestSessionStateAndNames(t *testing.T) {
	fe, srv := newFakeEngine(t)
	c := connect(t, srv)

	ids, err := c.SessionState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"abc123", "def456"}, ids)

	status, err := c.TorrentsStatus(context.Background(), remote.Filter{IDs: ids}, []string{remote.FieldName})
	require.NoError(t, err)
	assert.Equal(t, "Foo.iso", status["abc123"].Name)
	assert.Equal(t, "Bar.zip", status["def456"].Name)
	assert.Empty(t, status["abc123"].State, "unrequested fields stay empty")
	assert.Equal(t, "admin:secret", fe.auth)
}

func TestTorrentsStatusFetchesLiveState(t *testing.T) {
	_, srv := newFakeEngine(t)
	c := connect(t, srv)

	status, err := c.TorrentsStatus(context.Background(), remote.Filter{IDs: []string{"abc123"}}, []string{remote.FieldState, remote.FieldPeers, remote.FieldDownloadRate})
	require.NoError(t, err)
	require.Len(t, status, 1)
	got := status["abc123"]
	assert.Equal(t, 3, got.Peers)
	assert.Equal(t, int64(2048), got.DownloadSpeed)
	assert.Equal(t, "active", got.State)
}

func TestTorrentsStatusFetchesLiveStateForEveryTorrent(t *testing.T) {
	_, srv := newFakeEngine(t)
	c := connect(t, srv)

	for i := 0; i < 20; i++ {
		status, err := c.TorrentsStatus(context.Background(), remote.Filter{IDs: []string{"abc123", "def456"}}, []string{remote.FieldState, remote.FieldPeers})
		require.NoError(t, err)
		require.Len(t, status, 2)
		for id, got := range status {
			assert.Equal(t, 3, got.Peers, id)
			assert.Equal(t, "active", got.State, id)
		}
	}
}

func TestAddTorrentMagnetAndFile(t *testing.T) {
	fe, srv := newFakeEngine(t)
	c := connect(t, srv)

	id, err := c.AddTorrent(context.Background(), remote.AddRequest{Source: "magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567"})
	require.NoError(t, err)
	assert.Equal(t, "new001", id)
	assert.True(t, strings.HasPrefix(fe.body("magnet"), "magnet:?xt="))

	path := filepath.Join(t.TempDir(), "file.torrent")
	require.NoError(t, os.WriteFile(path, []byte("d4:infod4:name3:fooee"), 0o644))
	_, err = c.AddTorrent(context.Background(), remote.AddRequest{Source: path, SavePath: "/tmp/dir"})
	require.NoError(t, err)
	assert.Equal(t, "file.torrent|/tmp/dir", fe.body("upload"))
}

func TestBulkAndRemoveErrors(t *testing.T) {
	fe, srv := newFakeEngine(t)
	c := connect(t, srv)

	require.NoError(t, c.PauseTorrents(context.Background(), []string{"abc123"}))
	err := c.ResumeTorrents(context.Background(), []string{"missing"})
	var opErr *remote.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "missing", opErr.ID)

	require.NoError(t, c.RemoveTorrent(context.Background(), "abc123", true))
	assert.Equal(t, "abc123|true", fe.body("delete"))

	err = c.RemoveTorrent(context.Background(), "missing", false)
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "not_found", opErr.Code)
	assert.Equal(t, "torrent not found", opErr.Message)
}

func TestConnectFailureIsConnectionError(t *testing.T) {
	_, srv := newFakeEngine(t)
	url := srv.URL
	srv.Close()
	c := New(WithBaseURL(url), WithRateLimit(0, 0), WithEvents(false))
	err := c.Connect(context.Background(), remote.Params{Address: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.True(t, remote.IsConnectionError(err))
	assert.False(t, c.Connected())
}

func TestOperationsRequireConnection(t *testing.T) {
	c := New()
	_, err := c.SessionState(context.Background())
	assert.ErrorIs(t, err, remote.ErrNotConnected)
}

func TestStreamEventsAndDisconnectCallback(t *testing.T) {
	fe, srv := newFakeEngine(t)
	c := New(WithBaseURL(srv.URL), WithRateLimit(0, 0), WithEvents(true))
	dropped := make(chan struct{})
	c.SetDisconnectCallback(func() { close(dropped) })
	require.NoError(t, c.Connect(context.Background(), remote.Params{Address: "127.0.0.1", Port: 1}))

	var server *websocket.Conn
	select {
	case server = <-fe.streams:
	case <-time.After(2 * time.Second):
		t.Fatal("stream was not opened")
	}
	events := c.Events()
	require.NotNil(t, events)

	require.NoError(t, server.WriteJSON(map[string]interface{}{"type": "torrents", "data": []string{}}))
	select {
	case evt := <-events:
		assert.Equal(t, remote.EventTorrentsChanged, evt.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("expected torrents event")
	}

	server.Close()
	select {
	case <-dropped:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect callback did not fire")
	}
	assert.False(t, c.Connected())
}
