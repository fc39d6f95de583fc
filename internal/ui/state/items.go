package state

import "github.com/atomicstack/torrent-console/internal/cache"

// Item is one list row. ID is the torrent id; Label is what the user sees and
// what the filter matches against.
type Item struct {
	ID    string
	Label string
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}

// ItemsFromEntries converts cached torrents to list rows, preserving order.
// Unnamed torrents fall back to their id.
func ItemsFromEntries(entries []cache.Entry) []Item {
	items := make([]Item, len(entries))
	for i, e := range entries {
		label := e.Name
		if label == "" {
			label = e.ID
		}
		items[i] = Item{ID: e.ID, Label: label}
	}
	return items
}
