package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/torrent-console/internal/remote"
	"golang.org/x/sync/errgroup"
)

type torrentSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Progress   float64   `json:"progress"`
	DoneBytes  int64     `json:"doneBytes"`
	TotalBytes int64     `json:"totalBytes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Tags       []string  `json:"tags,omitempty"`
}

type torrentList struct {
	Items []torrentSummary `json:"items"`
	Count int              `json:"count"`
}

type sessionState struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	Progress      float64   `json:"progress"`
	Peers         int       `json:"peers"`
	DownloadSpeed int64     `json:"downloadSpeed"`
	UploadSpeed   int64     `json:"uploadSpeed"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type bulkRequest struct {
	IDs         []string `json:"ids"`
	DeleteFiles bool     `json:"deleteFiles,omitempty"`
}

type bulkResult struct {
	Items []struct {
		ID    string `json:"id"`
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	} `json:"items"`
}

type createJSON struct {
	Magnet string `json:"magnet"`
	Name   string `json:"name,omitempty"`
}

type createdRecord struct {
	ID string `json:"id"`
}

const listLimit = "1000"

func (c *Client) list(ctx context.Context) ([]torrentSummary, error) {
	if !c.Connected() {
		return nil, remote.ErrNotConnected
	}
	query := url.Values{
		"view":      {"summary"},
		"sortBy":    {"createdAt"},
		"sortOrder": {"asc"},
		"limit":     {listLimit},
	}
	var out torrentList
	if err := c.do(ctx, http.MethodGet, "/torrents", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// SessionState returns torrent ids in the order the service created them.
func (c *Client) SessionState(ctx context.Context) ([]string, error) {
	items, err := c.list(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

func wantFields(fields []string) map[string]bool {
	want := make(map[string]bool, len(fields))
	if len(fields) == 0 {
		for _, f := range []string{
			remote.FieldName, remote.FieldState, remote.FieldProgress, remote.FieldSize,
			remote.FieldPeers, remote.FieldDownloadRate, remote.FieldUploadRate, remote.FieldTags,
		} {
			want[f] = true
		}
		return want
	}
	for _, f := range fields {
		want[f] = true
	}
	return want
}

func needsLiveState(want map[string]bool) bool {
	for _, f := range remote.LiveFields {
		if want[f] {
			return true
		}
	}
	return false
}

// TorrentsStatus reports the requested fields for the torrents matching filter.
// Live fields trigger one state query per torrent, issued concurrently.
func (c *Client) TorrentsStatus(ctx context.Context, filter remote.Filter, fields []string) (map[string]remote.Status, error) {
	items, err := c.list(ctx)
	if err != nil {
		return nil, err
	}
	var only map[string]bool
	if len(filter.IDs) > 0 {
		only = make(map[string]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			only[id] = true
		}
	}
	want := wantFields(fields)
	out := make(map[string]remote.Status, len(items))
	for _, item := range items {
		if only != nil && !only[item.ID] {
			continue
		}
		st := remote.Status{ID: item.ID, UpdatedAt: item.UpdatedAt}
		if want[remote.FieldName] {
			st.Name = item.Name
		}
		if want[remote.FieldState] {
			st.State = item.Status
		}
		if want[remote.FieldProgress] {
			st.Progress = item.Progress
		}
		if want[remote.FieldSize] {
			st.DoneBytes = item.DoneBytes
			st.TotalBytes = item.TotalBytes
		}
		if want[remote.FieldTags] {
			st.Tags = append([]string(nil), item.Tags...)
		}
		out[item.ID] = st
	}
	if !needsLiveState(want) || len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for id := range out {
		ids = append(ids, id)
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stateFetchMax)
	for _, id := range ids {
		g.Go(func() error {
			var state sessionState
			if err := c.do(gctx, http.MethodGet, "/torrents/"+url.PathEscape(id)+"/state", nil, nil, &state); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			st := out[id]
			st.Peers = state.Peers
			st.DownloadSpeed = state.DownloadSpeed
			st.UploadSpeed = state.UploadSpeed
			if want[remote.FieldState] && state.Status != "" {
				st.State = state.Status
			}
			if want[remote.FieldProgress] {
				st.Progress = state.Progress
			}
			out[id] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddTorrent uploads a .torrent file or submits a magnet URI.
func (c *Client) AddTorrent(ctx context.Context, req remote.AddRequest) (string, error) {
	if !c.Connected() {
		return "", remote.ErrNotConnected
	}
	var created createdRecord
	if strings.HasPrefix(req.Source, "magnet:") {
		if err := c.do(ctx, http.MethodPost, "/torrents", nil, createJSON{Magnet: req.Source, Name: req.Name}, &created); err != nil {
			return "", err
		}
	} else {
		if err := c.upload(ctx, req, &created); err != nil {
			return "", err
		}
	}
	if req.Paused && created.ID != "" {
		if err := c.PauseTorrents(ctx, []string{created.ID}); err != nil {
			return created.ID, err
		}
	}
	return created.ID, nil
}

func (c *Client) upload(ctx context.Context, req remote.AddRequest, out *createdRecord) error {
	f, err := os.Open(req.Source)
	if err != nil {
		return &remote.OperationError{Op: "add", ID: req.Source, Err: err}
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("torrent", filepath.Base(req.Source))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}
	if req.Name != "" {
		if err := mw.WriteField("name", req.Name); err != nil {
			return err
		}
	}
	if req.SavePath != "" {
		if err := mw.WriteField("savePath", req.SavePath); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/torrents", nil, &buf)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(httpReq, out)
}

func (c *Client) bulk(ctx context.Context, op string, ids []string, deleteFiles bool) error {
	if !c.Connected() {
		return remote.ErrNotConnected
	}
	if len(ids) == 0 {
		return nil
	}
	var res bulkResult
	if err := c.do(ctx, http.MethodPost, "/torrents/bulk/"+op, nil, bulkRequest{IDs: ids, DeleteFiles: deleteFiles}, &res); err != nil {
		return err
	}
	for _, item := range res.Items {
		if !item.OK {
			return &remote.OperationError{Op: op, ID: item.ID, Message: item.Error}
		}
	}
	return nil
}

// PauseTorrents stops the given torrents.
func (c *Client) PauseTorrents(ctx context.Context, ids []string) error {
	return c.bulk(ctx, "stop", ids, false)
}

// ResumeTorrents starts the given torrents.
func (c *Client) ResumeTorrents(ctx context.Context, ids []string) error {
	return c.bulk(ctx, "start", ids, false)
}

// RemoveTorrent deletes one torrent, optionally with its downloaded data.
func (c *Client) RemoveTorrent(ctx context.Context, id string, removeData bool) error {
	if !c.Connected() {
		return remote.ErrNotConnected
	}
	query := url.Values{"deleteFiles": {strconv.FormatBool(removeData)}}
	if err := c.do(ctx, http.MethodDelete, "/torrents/"+url.PathEscape(id), query, nil, nil); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}
