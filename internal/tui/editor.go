package tui

import (
	"fmt"
	"strings"
	"time"

	"outline-cli/internal/batch"
	"outline-cli/internal/export"
	"outline-cli/internal/model"
	"outline-cli/internal/mutate"
	"outline-cli/internal/outline"
	"outline-cli/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	focused := m.sess.FocusedID()

	switch msg.String() {
	case "ctrl+c":
		m.flushDrafts()
		m.saveUIState()
		return m, tea.Quit

	case "esc":
		if m.sess.HasSelection() {
			m.sess.ClearSelection()
			return m, nil
		}
		m.closeDocument()
		return m, nil

	case "enter":
		b, ok := m.tree.Find(focused)
		if !ok {
			return m, nil
		}
		switch {
		case b.Type.Splittable():
			return m.splitFocused()
		case b.Type == model.BlockTypeFence:
			// Fences take the newline literally.
			return m.forwardToInput(msg)
		default:
			return m, nil
		}

	case "backspace":
		if focused != "" && m.cursorOffset() == 0 && mutate.CanMergePrev(m.tree, focused) {
			return m.mergeFocused()
		}
		return m.forwardToInput(msg)

	case "up":
		if focused != "" && m.input.Line() == 0 {
			m.navigate(session.NavigateUp)
			return m, nil
		}
		return m.forwardToInput(msg)

	case "down":
		if focused != "" && m.input.Line() == lineCount(m.input.Value())-1 {
			m.navigate(session.NavigateDown)
			return m, nil
		}
		return m.forwardToInput(msg)

	case "shift+up":
		m.extendSelection(session.NavigateUp)
		return m, nil

	case "shift+down":
		m.extendSelection(session.NavigateDown)
		return m, nil

	case "tab":
		ids := m.targetIDs()
		if !batch.CanIndentAll(m.tree, ids) {
			m.status = "cannot indent"
			return m, nil
		}
		m.flushDrafts()
		res := batch.Indent(m.tree, ids)
		m.commitBatch(res, "block.indent", ids)
		return m, nil

	case "shift+tab":
		ids := m.targetIDs()
		if !batch.CanOutdentAny(m.tree, ids) {
			m.status = "cannot outdent"
			return m, nil
		}
		m.flushDrafts()
		res := batch.Outdent(m.tree, ids)
		m.commitBatch(res, "block.outdent", ids)
		return m, nil

	case "alt+up":
		m.applyStructural(mutate.MoveUp{ID: focused}, "block.move-up", focused)
		return m, nil

	case "alt+down":
		m.applyStructural(mutate.MoveDown{ID: focused}, "block.move-down", focused)
		return m, nil

	case "ctrl+t":
		if !mutate.CanCollapse(m.tree, focused) {
			m.status = "nothing to collapse"
			return m, nil
		}
		m.applyStructural(mutate.ToggleCollapse{ID: focused}, "block.collapse", focused)
		return m, nil

	case "ctrl+n":
		return m.addSibling()

	case "ctrl+x":
		return m.deleteTargets()

	case "ctrl+d":
		ids := m.targetIDs()
		if len(ids) == 0 {
			return m, nil
		}
		m.flushDrafts()
		res := batch.Duplicate(m.tree, ids)
		m.commitBatch(res, "block.duplicate", ids)
		if len(res.NewIDs) > 0 {
			m.sess.SetFocus(res.NewIDs[len(res.NewIDs)-1])
			m.syncInput()
		}
		return m, nil

	case "ctrl+b":
		if focused != "" {
			m.sess.ToggleSelect(focused)
			m.sess.SetAnchor(focused)
		}
		return m, nil

	case "ctrl+l":
		m.sess.SelectAll(m.tree.VisibleIDs())
		return m, nil

	case "ctrl+y":
		return m.copySelection()

	case "ctrl+p":
		m.showPreview = !m.showPreview
		m.input.SetWidth(m.editorTextWidth())
		m.saveUIState()
		return m, nil

	case "ctrl+s":
		m.flushDrafts()
		m.status = "saved"
		return m, nil

	case "ctrl+e":
		ids := m.targetIDs()
		m.flushDrafts()
		res := batch.SetType(m.tree, ids, nextType(m.tree, focused))
		m.commitBatch(res, "block.set-type", ids)
		m.syncInput()
		return m, nil
	}

	return m.forwardToInput(msg)
}

// nextType cycles bullet -> code -> fence -> bullet, keyed off the focused
// block so a mixed selection converges instead of cycling in lockstep.
func nextType(t *outline.Tree, focused string) model.BlockType {
	b, ok := t.Find(focused)
	if !ok {
		return model.BlockTypeBullet
	}
	switch b.Type {
	case model.BlockTypeBullet:
		return model.BlockTypeCode
	case model.BlockTypeCode:
		return model.BlockTypeFence
	default:
		return model.BlockTypeBullet
	}
}

func (m appModel) forwardToInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sess.FocusedID() == "" {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.drafts.Set(m.sess.FocusedID(), m.input.Value())
	m.input.SetHeight(inputHeight(m.input.Value()))
	return m, cmd
}

// targetIDs is the selection when one exists, otherwise the focused block.
func (m *appModel) targetIDs() []string {
	if m.sess.HasSelection() {
		return m.sess.Selected()
	}
	if id := m.sess.FocusedID(); id != "" {
		return []string{id}
	}
	return nil
}

// applyStructural flushes drafts, applies one action and persists.
func (m *appModel) applyStructural(act mutate.Action, event, entityID string) mutate.Result {
	m.flushDrafts()
	res := mutate.Apply(m.tree, act)
	if res.Changed {
		m.commitTree(res.Tree)
		_ = m.store.AppendEvent(event, entityID, nil)
	}
	return res
}

func (m *appModel) commitBatch(res batch.Result, event string, ids []string) {
	if !res.Changed {
		return
	}
	m.commitTree(res.Tree)
	for _, id := range ids {
		_ = m.store.AppendEvent(event, id, nil)
	}
	if res.SelectionInvalidated {
		m.sess.ClearSelection()
	}
}

// commitTree installs the mutated tree, persists it and prunes session
// references to blocks that no longer exist.
func (m *appModel) commitTree(t *outline.Tree) {
	m.tree = t
	rows := t.Rows()
	now := time.Now().UTC()
	for i := range rows {
		rows[i].DocumentID = m.docID
		rows[i].UpdatedAt = now
	}
	m.db.ReplaceDocumentBlocks(m.docID, rows)
	_ = m.store.Save(m.db)
	m.sess.Prune(m.tree)
	if m.sess.FocusedID() == "" && m.tree.Len() > 0 {
		m.sess.SetFocus(m.tree.At(0).ID)
		m.syncInput()
	}
}

// flushDrafts commits pending content edits before anything structural
// happens; a draft for a block that has disappeared is dropped.
func (m *appModel) flushDrafts() {
	if !m.drafts.Dirty() {
		return
	}
	t := m.tree
	changed := false
	m.drafts.FlushAll(func(blockID, content string) {
		res := mutate.Apply(t, mutate.UpdateContent{ID: blockID, Content: content})
		t = res.Tree
		changed = changed || res.Changed
	})
	if changed {
		m.commitTree(t)
		_ = m.store.AppendEvent("block.update", m.docID, nil)
	}
}

func (m appModel) splitFocused() (tea.Model, tea.Cmd) {
	focused := m.sess.FocusedID()
	offset := m.cursorOffset()
	m.flushDrafts()
	res := mutate.Apply(m.tree, mutate.SplitAtOffset{
		ID:     focused,
		Offset: offset,
		NewID:  m.store.NextID(m.db, "blk"),
	})
	if !res.Changed {
		return m, nil
	}
	m.commitTree(res.Tree)
	_ = m.store.AppendEvent("block.split", focused, map[string]any{"new": res.NewID})
	m.sess.SetFocusAt(res.NewID, 0)
	m.syncInput()
	return m, nil
}

func (m appModel) mergeFocused() (tea.Model, tea.Cmd) {
	focused := m.sess.FocusedID()
	m.flushDrafts()
	prev, ok := m.tree.PrevInFlat(focused)
	if !ok {
		return m, nil
	}
	// Caret lands at the seam between the two joined contents.
	seam := len([]rune(prev.Content))
	res := mutate.Apply(m.tree, mutate.MergeWithPrevious{ID: focused})
	if !res.Changed {
		return m, nil
	}
	m.sess.BeginMerge(focused, res.MergedInto)
	m.commitTree(res.Tree)
	_ = m.store.AppendEvent("block.merge", focused, map[string]any{"into": res.MergedInto})
	m.sess.SetFocusAt(res.MergedInto, seam)
	m.syncInput()
	return m, tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return clearMergeMsg{} })
}

func (m appModel) addSibling() (tea.Model, tea.Cmd) {
	focused := m.sess.FocusedID()
	m.flushDrafts()
	res := mutate.Apply(m.tree, mutate.Add{
		AfterID:    focused,
		DocumentID: m.docID,
		NewID:      m.store.NextID(m.db, "blk"),
	})
	if !res.Changed {
		return m, nil
	}
	m.commitTree(res.Tree)
	_ = m.store.AppendEvent("block.add", res.NewID, map[string]any{"doc": m.docID})
	m.sess.SetFocusAt(res.NewID, 0)
	m.syncInput()
	return m, nil
}

func (m appModel) deleteTargets() (tea.Model, tea.Cmd) {
	ids := m.targetIDs()
	if len(ids) == 0 {
		return m, nil
	}
	// Deleted blocks take their drafts with them.
	for _, id := range ids {
		m.drafts.Discard(id)
	}
	m.flushDrafts()
	res := batch.Delete(m.tree, ids)
	if !res.Changed {
		return m, nil
	}
	m.commitTree(res.Tree)
	for _, id := range ids {
		_ = m.store.AppendEvent("block.delete", id, nil)
	}
	m.sess.ClearSelection()
	m.syncInput()
	return m, nil
}

func (m appModel) copySelection() (tea.Model, tea.Cmd) {
	var rows []model.Block
	if m.sess.HasSelection() {
		for _, id := range m.sess.Selected() {
			if b, ok := m.tree.Find(id); ok {
				rows = append(rows, b)
			}
		}
	} else if id := m.sess.FocusedID(); id != "" {
		if i := m.tree.IndexOf(id); i >= 0 {
			all := m.tree.Rows()
			rows = all[i:m.tree.SubtreeEnd(i)]
		}
	}
	if len(rows) == 0 {
		return m, nil
	}
	if err := copyToClipboard(export.IndentedText(rows)); err != nil {
		m.status = "copy failed: " + err.Error()
	} else {
		m.status = fmt.Sprintf("copied %d block(s)", len(rows))
	}
	return m, nil
}

// navigate moves focus across a block boundary, carrying the caret column.
func (m *appModel) navigate(nav func([]model.Block, string, int) (string, int, bool)) {
	m.flushFocusedDraft()
	destID, offset, ok := nav(m.tree.Visible(), m.sess.FocusedID(), m.cursorOffset())
	if !ok {
		return
	}
	m.sess.SetFocusAt(destID, offset)
	m.syncInput()
}

// extendSelection grows the selection from a fixed anchor to the block
// above/below the focused one.
func (m *appModel) extendSelection(nav func([]model.Block, string, int) (string, int, bool)) {
	focused := m.sess.FocusedID()
	if focused == "" {
		return
	}
	if m.sess.AnchorID() == "" {
		m.sess.SetAnchor(focused)
		m.sess.ToggleSelect(focused)
	}
	destID, offset, ok := nav(m.tree.Visible(), focused, m.cursorOffset())
	if !ok {
		return
	}
	m.flushFocusedDraft()
	m.sess.SelectRange(m.sess.AnchorID(), destID, m.tree.VisibleIDs())
	m.sess.SetFocusAt(destID, offset)
	m.syncInput()
}

// flushFocusedDraft commits only the focused block's draft (leaving others
// pending) so navigation does not force a full save of untouched blocks.
func (m *appModel) flushFocusedDraft() {
	id := m.sess.FocusedID()
	if id == "" {
		return
	}
	t := m.tree
	changed := false
	m.drafts.FlushBlock(id, func(blockID, content string) {
		res := mutate.Apply(t, mutate.UpdateContent{ID: blockID, Content: content})
		t = res.Tree
		changed = changed || res.Changed
	})
	if changed {
		m.commitTree(t)
		_ = m.store.AppendEvent("block.update", id, nil)
	}
}

// syncInput loads the focused block (draft content preferred) into the
// textarea and applies any pending caret request.
func (m *appModel) syncInput() {
	id := m.sess.FocusedID()
	if id == "" {
		m.input.Blur()
		m.input.SetValue("")
		return
	}
	b, ok := m.tree.Find(id)
	if !ok {
		m.input.Blur()
		return
	}
	content := b.Content
	if draft, ok := m.drafts.Pending(id); ok {
		content = draft
	}
	m.input.SetValue(content)
	m.input.SetWidth(m.editorTextWidth())
	m.input.SetHeight(inputHeight(content))
	m.input.Focus()

	if off, ok := m.sess.TakeCursor(); ok {
		m.setCursorOffset(off)
	} else {
		m.setCursorOffset(len([]rune(content)))
	}
}

func (m *appModel) editorTextWidth() int {
	w := m.width - 10
	if m.showPreview {
		w = m.width/2 - 10
	}
	if w < 20 {
		w = 20
	}
	return w
}

func inputHeight(content string) int {
	h := lineCount(content)
	if h > 8 {
		h = 8
	}
	if h < 1 {
		h = 1
	}
	return h
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// cursorOffset is the caret's rune offset within the textarea's value.
func (m *appModel) cursorOffset() int {
	lines := strings.Split(m.input.Value(), "\n")
	row := m.input.Line()
	if row >= len(lines) {
		row = len(lines) - 1
	}
	info := m.input.LineInfo()
	col := info.StartColumn + info.ColumnOffset
	offset := 0
	for i := 0; i < row; i++ {
		offset += len([]rune(lines[i])) + 1
	}
	if n := len([]rune(lines[row])); col > n {
		col = n
	}
	return offset + col
}

// setCursorOffset positions the caret at a rune offset in the value.
func (m *appModel) setCursorOffset(offset int) {
	lines := strings.Split(m.input.Value(), "\n")
	if offset < 0 {
		offset = 0
	}
	row, col := 0, offset
	for row < len(lines)-1 && col > len([]rune(lines[row])) {
		col -= len([]rune(lines[row])) + 1
		row++
	}
	if n := len([]rune(lines[row])); col > n {
		col = n
	}
	for m.input.Line() > 0 {
		m.input.CursorUp()
	}
	m.input.SetCursor(0)
	for i := 0; i < row; i++ {
		m.input.CursorDown()
	}
	m.input.SetCursor(col)
}
