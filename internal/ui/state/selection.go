package state

// CleanupSelections drops selections that are no longer present in the item list.
func (l *List) CleanupSelections() {
	if len(l.Selected) == 0 {
		return
	}
	valid := make(map[string]struct{}, len(l.Full))
	for _, item := range l.Full {
		valid[item.ID] = struct{}{}
	}
	for id := range l.Selected {
		if _, ok := valid[id]; !ok {
			delete(l.Selected, id)
		}
	}
}

// IsSelected reports whether the given id is selected.
func (l *List) IsSelected(id string) bool {
	_, ok := l.Selected[id]
	return ok
}

// ToggleCurrentSelection toggles the selection state at the current cursor.
func (l *List) ToggleCurrentSelection() bool {
	current, ok := l.Current()
	if !ok {
		return false
	}
	if l.Selected == nil {
		l.Selected = make(map[string]struct{})
	}
	if l.IsSelected(current.ID) {
		delete(l.Selected, current.ID)
	} else {
		l.Selected[current.ID] = struct{}{}
	}
	return true
}

// ClearSelection clears all selected items.
func (l *List) ClearSelection() {
	for id := range l.Selected {
		delete(l.Selected, id)
	}
}

// Targets returns the selected ids in full-list order, or the id under the
// cursor when nothing is selected.
func (l *List) Targets() []string {
	if len(l.Selected) > 0 {
		ids := make([]string, 0, len(l.Selected))
		for _, item := range l.Full {
			if l.IsSelected(item.ID) {
				ids = append(ids, item.ID)
			}
		}
		return ids
	}
	if current, ok := l.Current(); ok {
		return []string{current.ID}
	}
	return nil
}
