// Package cache mirrors the remote torrent index so completion and argument
// resolution can run without a round trip.
package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/atomicstack/torrent-console/internal/logging/events"
	"github.com/atomicstack/torrent-console/internal/remote"
)

// Entry pairs a torrent id with its display name.
type Entry struct {
	ID   string
	Name string
}

type snapshot struct {
	entries []Entry
	names   map[string]string
}

// Cache holds the most recent index. Readers see either the previous or the
// next complete snapshot, never a partial one.
type Cache struct {
	snap atomic.Pointer[snapshot]
}

// New returns an empty, not yet loaded cache.
func New() *Cache {
	return &Cache{}
}

// Fetch queries the session state and then the names of every returned id.
// The result preserves the order of the state query.
func Fetch(ctx context.Context, client remote.Client) ([]Entry, error) {
	if client == nil {
		return nil, remote.ErrNotConnected
	}
	ids, err := client.SessionState(ctx)
	if err != nil {
		return nil, fmt.Errorf("session state: %w", err)
	}
	if len(ids) == 0 {
		return []Entry{}, nil
	}
	status, err := client.TorrentsStatus(ctx, remote.Filter{IDs: ids}, []string{remote.FieldName})
	if err != nil {
		return nil, fmt.Errorf("torrent names: %w", err)
	}
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Entry{ID: id, Name: status[id].Name})
	}
	return entries, nil
}

// Refresh fetches a new index and swaps it in. On error the previous index
// stays in place.
func (c *Cache) Refresh(ctx context.Context, client remote.Client) error {
	entries, err := Fetch(ctx, client)
	if err != nil {
		events.Cache.Fail(err)
		return err
	}
	c.Replace(entries)
	return nil
}

// Replace installs entries as the current index.
func (c *Cache) Replace(entries []Entry) {
	snap := &snapshot{
		entries: append([]Entry(nil), entries...),
		names:   make(map[string]string, len(entries)),
	}
	for _, e := range snap.entries {
		snap.names[e.ID] = e.Name
	}
	c.snap.Store(snap)
	events.Cache.Replace(len(snap.entries))
}

// Loaded reports whether at least one refresh has completed.
func (c *Cache) Loaded() bool {
	return c.snap.Load() != nil
}

// Len reports the number of cached torrents.
func (c *Cache) Len() int {
	if snap := c.snap.Load(); snap != nil {
		return len(snap.entries)
	}
	return 0
}

// Entries returns a copy of the index in service order.
func (c *Cache) Entries() []Entry {
	snap := c.snap.Load()
	if snap == nil {
		return nil
	}
	return append([]Entry(nil), snap.entries...)
}

// IDs returns every cached id in service order.
func (c *Cache) IDs() []string {
	snap := c.snap.Load()
	if snap == nil {
		return nil
	}
	ids := make([]string, len(snap.entries))
	for i, e := range snap.entries {
		ids[i] = e.ID
	}
	return ids
}

// NameOf returns the cached name for id.
func (c *Cache) NameOf(id string) (string, bool) {
	snap := c.snap.Load()
	if snap == nil {
		return "", false
	}
	name, ok := snap.names[id]
	return name, ok
}

// MatchPrefix returns ids whose id or name starts with text. Id matches come
// first, then name matches, each in service order, without duplicates. It
// returns nil until the first refresh completes.
func (c *Cache) MatchPrefix(text string) []string {
	snap := c.snap.Load()
	if snap == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(snap.entries))
	var out []string
	for _, e := range snap.entries {
		if strings.HasPrefix(e.ID, text) {
			seen[e.ID] = struct{}{}
			out = append(out, e.ID)
		}
	}
	for _, e := range snap.entries {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		if strings.HasPrefix(e.Name, text) {
			seen[e.ID] = struct{}{}
			out = append(out, e.ID)
		}
	}
	return out
}

// Complete returns completion candidates for text: matching ids, plus names
// when text already looks like the start of a name.
func (c *Cache) Complete(text string) []string {
	ids := c.MatchPrefix(text)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.HasPrefix(id, text) {
			out = append(out, id)
			continue
		}
		if name, ok := c.NameOf(id); ok {
			out = append(out, name)
		}
	}
	return out
}

// Resolve maps a user token to exactly one id: an exact id, an exact name, or
// a unique id/name prefix. Anything else, a blank token included, is an error
// naming the candidates.
func (c *Cache) Resolve(token string) (string, error) {
	snap := c.snap.Load()
	if snap == nil {
		return "", ErrNotLoaded
	}
	if strings.TrimSpace(token) == "" {
		return "", &NotFoundError{Token: token}
	}
	if _, ok := snap.names[token]; ok {
		return token, nil
	}
	var exact []string
	for _, e := range snap.entries {
		if e.Name == token {
			exact = append(exact, e.ID)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	matches := exact
	if len(matches) == 0 {
		matches = c.MatchPrefix(token)
	}
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Token: token}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{Token: token, Matches: c.describe(matches)}
	}
}

// ResolveAll resolves each token. The token "*" selects every cached torrent.
func (c *Cache) ResolveAll(tokens []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, token := range tokens {
		if token == "*" {
			if !c.Loaded() {
				return nil, ErrNotLoaded
			}
			for _, id := range c.IDs() {
				add(id)
			}
			continue
		}
		id, err := c.Resolve(token)
		if err != nil {
			return nil, err
		}
		add(id)
	}
	return out, nil
}

func (c *Cache) describe(ids []string) []Entry {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		name, _ := c.NameOf(id)
		out = append(out, Entry{ID: id, Name: name})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
