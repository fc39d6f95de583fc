package cache

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoaded is returned by lookups issued before the first refresh.
var ErrNotLoaded = errors.New("torrent list not loaded yet")

// NotFoundError reports a token matching no cached torrent.
type NotFoundError struct {
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no torrent matches %q", e.Token)
}

// AmbiguousError reports a token matching several torrents.
type AmbiguousError struct {
	Token   string
	Matches []Entry
}

func (e *AmbiguousError) Error() string {
	parts := make([]string, 0, len(e.Matches))
	for _, m := range e.Matches {
		parts = append(parts, fmt.Sprintf("%s (%s)", m.ID, m.Name))
	}
	return fmt.Sprintf("%q is ambiguous: %s", e.Token, strings.Join(parts, ", "))
}
