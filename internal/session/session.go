// Package session holds the focus/selection state of one open document.
// Every transition is a synchronous, atomic state update; there are no
// suspension points. The session is created at document-open and reset at
// document-close; it is passed explicitly to whatever needs it rather than
// living in a package-level singleton.
package session

import "outline-cli/internal/outline"

type Session struct {
	focusedID string

	// pendingCursor is a single-slot mailbox: the caret offset the next
	// focus consumer should apply, consumed exactly once by TakeCursor.
	// A second SetFocusAt before the first is consumed simply overwrites
	// it (last write wins, no queueing), which is what prevents stale
	// cursor jumps.
	pendingCursor    int
	hasPendingCursor bool

	selected    []string // insertion order
	selectedSet map[string]bool

	lastSelectedID string
	anchorID       string

	// In-flight merge pair, for UI animation only; not a tree invariant.
	mergingID       string
	mergingTargetID string
}

func New() *Session {
	return &Session{selectedSet: map[string]bool{}}
}

// Reset returns the session to its document-open state.
func (s *Session) Reset() { *s = *New() }

func (s *Session) FocusedID() string { return s.focusedID }

// SetFocus moves focus without a caret request; any pending cursor from an
// earlier navigation is discarded.
func (s *Session) SetFocus(id string) {
	s.focusedID = id
	s.hasPendingCursor = false
	s.pendingCursor = 0
}

// SetFocusAt moves focus and posts the caret offset the newly focused
// block should apply.
func (s *Session) SetFocusAt(id string, cursor int) {
	s.focusedID = id
	s.pendingCursor = cursor
	s.hasPendingCursor = true
}

// TakeCursor returns the pending caret offset and clears it. The second
// read reports ok=false: read-and-clear, never a persistent property.
func (s *Session) TakeCursor() (int, bool) {
	if !s.hasPendingCursor {
		return 0, false
	}
	c := s.pendingCursor
	s.pendingCursor = 0
	s.hasPendingCursor = false
	return c, true
}

// ClearFocus resets focus and the pending cursor; selection is untouched.
func (s *Session) ClearFocus() {
	s.focusedID = ""
	s.pendingCursor = 0
	s.hasPendingCursor = false
}

// Selected returns the selected ids in insertion order.
func (s *Session) Selected() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

func (s *Session) IsSelected(id string) bool { return s.selectedSet[id] }

func (s *Session) HasSelection() bool { return len(s.selected) > 0 }

func (s *Session) LastSelectedID() string { return s.lastSelectedID }

// ToggleSelect adds or removes id from the selection. Either direction
// updates the last-selected id.
func (s *Session) ToggleSelect(id string) {
	if s.selectedSet[id] {
		s.remove(id)
	} else {
		s.add(id)
	}
	s.lastSelectedID = id
}

// SelectRange selects the inclusive range between fromID and toID within
// visibleOrder, regardless of which endpoint comes first. visibleOrder
// must reflect the current collapse state. If either endpoint is absent
// the call is a no-op.
func (s *Session) SelectRange(fromID, toID string, visibleOrder []string) {
	from, to := -1, -1
	for i, id := range visibleOrder {
		if id == fromID {
			from = i
		}
		if id == toID {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return
	}
	if from > to {
		from, to = to, from
	}
	for _, id := range visibleOrder[from : to+1] {
		s.add(id)
	}
	s.lastSelectedID = toID
}

// SelectAll selects every id in visibleOrder.
func (s *Session) SelectAll(visibleOrder []string) {
	for _, id := range visibleOrder {
		s.add(id)
	}
	if n := len(visibleOrder); n > 0 {
		s.lastSelectedID = visibleOrder[n-1]
	}
}

func (s *Session) AnchorID() string { return s.anchorID }

// SetAnchor fixes the pivot for a shift-extend gesture. The anchor does
// not move as the extension continues; every range during the gesture is
// computed from this fixed point and the newly focused block.
func (s *Session) SetAnchor(id string) { s.anchorID = id }

func (s *Session) ClearAnchor() { s.anchorID = "" }

// ClearSelection clears selection, last-selected and anchor together. A
// stale anchor with an empty selection is an invalid combination, so
// partial clearing is not offered.
func (s *Session) ClearSelection() {
	s.selected = nil
	s.selectedSet = map[string]bool{}
	s.lastSelectedID = ""
	s.anchorID = ""
}

// BeginMerge marks an in-flight merge pair for the UI.
func (s *Session) BeginMerge(id, targetID string) {
	s.mergingID = id
	s.mergingTargetID = targetID
}

func (s *Session) ClearMerge() {
	s.mergingID = ""
	s.mergingTargetID = ""
}

func (s *Session) MergingPair() (id, targetID string) {
	return s.mergingID, s.mergingTargetID
}

// Prune drops references to blocks that no longer exist in the tree.
// Selection updates always happen as a distinct step after a structural
// mutation, referencing pre-mutation ids; this is the cleanup half.
func (s *Session) Prune(t *outline.Tree) {
	if s.focusedID != "" && t.IndexOf(s.focusedID) < 0 {
		s.ClearFocus()
	}
	kept := s.selected[:0]
	for _, id := range s.selected {
		if t.IndexOf(id) >= 0 {
			kept = append(kept, id)
		} else {
			delete(s.selectedSet, id)
		}
	}
	s.selected = kept
	if len(s.selected) == 0 {
		s.ClearSelection()
		return
	}
	if s.lastSelectedID != "" && t.IndexOf(s.lastSelectedID) < 0 {
		s.lastSelectedID = s.selected[len(s.selected)-1]
	}
	if s.anchorID != "" && t.IndexOf(s.anchorID) < 0 {
		s.anchorID = ""
	}
}

func (s *Session) add(id string) {
	if s.selectedSet[id] {
		return
	}
	s.selectedSet[id] = true
	s.selected = append(s.selected, id)
}

func (s *Session) remove(id string) {
	if !s.selectedSet[id] {
		return
	}
	delete(s.selectedSet, id)
	for i, v := range s.selected {
		if v == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			break
		}
	}
}
