package ui

import "github.com/atomicstack/torrent-console/internal/logging/events"

const historyLimit = 500

// history is a bounded list of submitted lines with a browse position.
type history struct {
	entries []string
	limit   int
	// pos is len(entries) when not browsing.
	pos   int
	draft string
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = historyLimit
	}
	return &history{limit: limit}
}

// Add records line, skipping blanks and immediate repeats, and ends browsing.
func (h *history) Add(line string) {
	if line != "" && (len(h.entries) == 0 || h.entries[len(h.entries)-1] != line) {
		h.entries = append(h.entries, line)
		if over := len(h.entries) - h.limit; over > 0 {
			h.entries = append([]string(nil), h.entries[over:]...)
		}
	}
	h.pos = len(h.entries)
	h.draft = ""
}

// Prev steps back. current is kept as the draft when browsing starts.
func (h *history) Prev(current string) (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	if h.pos == len(h.entries) {
		h.draft = current
	}
	h.pos--
	events.Input.History(h.pos)
	return h.entries[h.pos], true
}

// Next steps forward, returning the draft after the newest entry.
func (h *history) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	events.Input.History(h.pos)
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

func (h *history) Len() int {
	return len(h.entries)
}
