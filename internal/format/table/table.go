package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Column describes one output column. A positive Max truncates wider cells.
type Column struct {
	Header string
	Align  Alignment
	Max    int
}

// Format returns the rows padded according to the widest entry in each column.
// Cell widths ignore ANSI styling.
func Format(rows [][]string, alignments []Alignment) []string {
	cols := make([]Column, len(alignments))
	for i, a := range alignments {
		cols[i].Align = a
	}
	return render(rows, cols)
}

// Render formats rows under a header line built from cols.
func Render(cols []Column, rows [][]string) []string {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	return render(append([][]string{header}, rows...), cols)
}

func render(rows [][]string, cols []Column) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	cells := make([][]string, len(rows))
	widths := make([]int, colCount)
	for r, row := range rows {
		cells[r] = make([]string, colCount)
		for c := 0; c < colCount; c++ {
			var cell string
			if c < len(row) {
				cell = row[c]
			}
			if c < len(cols) && cols[c].Max > 0 && cellWidth(cell) > cols[c].Max {
				cell = truncate.StringWithTail(cell, uint(cols[c].Max), "…")
			}
			cells[r][c] = cell
			if w := cellWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	out := make([]string, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			pad := widths[c] - cellWidth(cell)
			if c < len(cols) && cols[c].Align == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if c < len(row)-1 {
					writeSpaces(&b, pad)
				}
			}
		}
		out[i] = b.String()
	}
	return out
}

func cellWidth(text string) int {
	return lipgloss.Width(text)
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
