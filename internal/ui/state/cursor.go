package state

// MoveCursorUp moves the cursor one row up.
func (l *List) MoveCursorUp() bool {
	return l.moveCursorBy(-1)
}

// MoveCursorDown moves the cursor one row down.
func (l *List) MoveCursorDown() bool {
	return l.moveCursorBy(1)
}

// MoveCursorHome moves the cursor to the first item.
func (l *List) MoveCursorHome() bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = 0
	return old != l.Cursor
}

// MoveCursorEnd moves the cursor to the last item.
func (l *List) MoveCursorEnd() bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = len(l.Items) - 1
	return old != l.Cursor
}

// MoveCursorPageUp moves the cursor up by one page of rows.
func (l *List) MoveCursorPageUp(rows int) bool {
	return l.moveCursorBy(-l.pageSize(rows))
}

// MoveCursorPageDown moves the cursor down by one page of rows.
func (l *List) MoveCursorPageDown(rows int) bool {
	return l.moveCursorBy(l.pageSize(rows))
}

func (l *List) moveCursorBy(delta int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(l.Cursor+delta, 0, len(l.Items)-1)
	return l.Cursor != old
}

func (l *List) pageSize(rows int) int {
	total := len(l.Items)
	if rows <= 0 || rows > total {
		rows = total
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// EnsureCursorVisible scrolls so the cursor row is within rows visible lines.
func (l *List) EnsureCursorVisible(rows int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if rows <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	l.ViewportOffset = clamp(l.ViewportOffset, 0, maxOffset)
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if l.Cursor > l.ViewportOffset+rows-1 {
		l.ViewportOffset = clamp(l.Cursor-rows+1, 0, maxOffset)
	}
}

// Visible returns the rows that fit in the viewport.
func (l *List) Visible(rows int) []Item {
	if rows <= 0 || len(l.Items) <= rows {
		return l.Items
	}
	end := l.ViewportOffset + rows
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return l.Items[l.ViewportOffset:end]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
