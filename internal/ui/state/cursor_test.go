package state

import "testing"

func newTestList(ids ...string) *List {
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{ID: id, Label: id}
	}
	return NewList(items)
}

func TestMoveCursorHome(t *testing.T) {
	l := newTestList("a", "b", "c")
	l.Cursor = 2
	if !l.MoveCursorHome() {
		t.Fatalf("expected move when items exist")
	}
	if l.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", l.Cursor)
	}

	empty := newTestList()
	empty.Cursor = 5
	if empty.MoveCursorHome() {
		t.Fatalf("expected no movement for empty list")
	}
	if empty.Cursor != 0 {
		t.Fatalf("expected cursor reset to 0, got %d", empty.Cursor)
	}
}

func TestMoveCursorEnd(t *testing.T) {
	l := newTestList("a", "b", "c")
	if !l.MoveCursorEnd() {
		t.Fatalf("expected movement to end")
	}
	if l.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", l.Cursor)
	}
	if l.MoveCursorEnd() {
		t.Fatalf("expected no movement when already at end")
	}
}

func TestMoveCursorUpDownClamps(t *testing.T) {
	l := newTestList("a", "b")
	if l.MoveCursorUp() {
		t.Fatalf("expected no movement above first row")
	}
	if !l.MoveCursorDown() || l.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", l.Cursor)
	}
	if l.MoveCursorDown() {
		t.Fatalf("expected no movement below last row")
	}
}

func TestMoveCursorPaging(t *testing.T) {
	l := newTestList("a", "b", "c", "d", "e")
	if !l.MoveCursorPageDown(2) {
		t.Fatalf("expected movement on first page down")
	}
	if l.Cursor != 2 {
		t.Fatalf("expected cursor 2 after page down, got %d", l.Cursor)
	}
	l.MoveCursorPageDown(2)
	if l.Cursor != 4 {
		t.Fatalf("expected cursor 4 after second page down, got %d", l.Cursor)
	}
	if l.MoveCursorPageDown(2) {
		t.Fatalf("expected no movement at end")
	}
	l.MoveCursorPageUp(3)
	if l.Cursor != 1 {
		t.Fatalf("expected cursor 1 after page up, got %d", l.Cursor)
	}
}

func TestEnsureCursorVisible(t *testing.T) {
	l := newTestList("a", "b", "c", "d", "e")
	l.Cursor = 4
	l.EnsureCursorVisible(2)
	if l.ViewportOffset != 3 {
		t.Fatalf("expected offset 3, got %d", l.ViewportOffset)
	}
	visible := l.Visible(2)
	if len(visible) != 2 || visible[1].ID != "e" {
		t.Fatalf("unexpected visible rows %+v", visible)
	}
	l.Cursor = 0
	l.EnsureCursorVisible(2)
	if l.ViewportOffset != 0 {
		t.Fatalf("expected offset 0, got %d", l.ViewportOffset)
	}
}

func TestUpdateItemsKeepsCursorOnSameItem(t *testing.T) {
	l := newTestList("a", "b", "c")
	l.Cursor = 1
	l.UpdateItems([]Item{{ID: "z", Label: "z"}, {ID: "a", Label: "a"}, {ID: "b", Label: "b"}})
	if current, _ := l.Current(); current.ID != "b" {
		t.Fatalf("expected cursor to follow b, got %q", current.ID)
	}
	l.UpdateItems([]Item{{ID: "x", Label: "x"}})
	if l.Cursor != 0 {
		t.Fatalf("expected clamped cursor, got %d", l.Cursor)
	}
}

func TestSelectionTargets(t *testing.T) {
	l := newTestList("a", "b", "c")
	if got := l.Targets(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected cursor target, got %v", got)
	}
	l.Cursor = 2
	l.ToggleCurrentSelection()
	l.Cursor = 0
	l.ToggleCurrentSelection()
	if got := l.Targets(); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("expected selection in list order, got %v", got)
	}
	l.ToggleCurrentSelection()
	if l.IsSelected("a") {
		t.Fatalf("expected a to be deselected")
	}
	l.UpdateItems([]Item{{ID: "a", Label: "a"}})
	if l.IsSelected("c") {
		t.Fatalf("expected stale selection to be dropped")
	}
	l.Cursor = 0
	l.ToggleCurrentSelection()
	l.ClearSelection()
	if len(l.Selected) != 0 {
		t.Fatalf("expected cleared selection")
	}
}

func TestItemsFromEntries(t *testing.T) {
	items := ItemsFromEntries(nil)
	if len(items) != 0 {
		t.Fatalf("expected no items")
	}
}
