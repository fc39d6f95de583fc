package command

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// Output receives user-facing lines from commands.
type Output interface {
	Write(text string)
}

// Printf formats and writes to out.
func Printf(out Output, format string, args ...interface{}) {
	if out == nil {
		return
	}
	out.Write(fmt.Sprintf(format, args...))
}

// PlainOutput writes to a stream with styling removed.
type PlainOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPlainOutput wraps w.
func NewPlainOutput(w io.Writer) *PlainOutput {
	return &PlainOutput{w: w}
}

func (o *PlainOutput) Write(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	text = ansi.Strip(text)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, _ = io.WriteString(o.w, text)
}

// BufferOutput collects lines in memory.
type BufferOutput struct {
	mu    sync.Mutex
	lines []string
}

func (b *BufferOutput) Write(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
}

// Lines returns the collected lines.
func (b *BufferOutput) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lines...)
}

// String joins the collected lines.
func (b *BufferOutput) String() string {
	return strings.Join(b.Lines(), "\n")
}
