package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/atomicstack/torrent-console/internal/batch"
	"github.com/atomicstack/torrent-console/internal/logging/events"
)

// completeLine completes the word under the cursor of editor. The first word
// completes against command names; later words are delegated to the command.
// A single candidate is inserted; several extend the word to their common
// prefix and are listed in the output.
func (m *Model) completeLine(editor LineEditor) {
	line := editor.Line()
	words, partial, ok := splitForCompletion(line)
	if !ok {
		return
	}
	var candidates []string
	if len(words) == 0 {
		candidates = m.registry.Complete(partial)
	} else if cmd, found := m.registry.Resolve(words[0]); found {
		candidates = cmd.Complete(m.env(), words, partial)
	}
	events.Input.Complete(line, len(candidates))
	if len(candidates) == 0 {
		return
	}

	prefix := words
	if len(candidates) == 1 {
		word := candidates[0]
		suffix := " "
		if strings.HasSuffix(word, "/") {
			suffix = ""
		}
		editor.SetLine(batch.Join(append(prefix, word)) + suffix)
		return
	}
	if common := commonPrefix(candidates); len(common) > len(partial) {
		editor.SetLine(batch.Join(append(prefix, common)))
	}
	m.writeOutput(strings.Join(candidates, "  "))
}

// splitForCompletion returns the completed words and the partial word being
// typed. ok is false when the line cannot be tokenized, such as inside an
// open quote.
func splitForCompletion(line string) (words []string, partial string, ok bool) {
	tokens, err := batch.Tokenize(line)
	if err != nil {
		return nil, "", false
	}
	if line == "" || strings.HasSuffix(line, " ") || len(tokens) == 0 {
		return tokens, "", true
	}
	return tokens[:len(tokens)-1], tokens[len(tokens)-1], true
}

func commonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, item := range items[1:] {
		for !strings.HasPrefix(item, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}
