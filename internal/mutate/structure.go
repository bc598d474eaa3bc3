package mutate

import (
	"time"

	"outline-cli/internal/model"
	"outline-cli/internal/outline"
)

func applyAdd(t *outline.Tree, a Add) Result {
	now := time.Now().UTC()
	nb := model.Block{
		ID:        a.NewID,
		Type:      a.Type,
		Content:   a.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nb.Type == "" {
		nb.Type = model.BlockTypeBullet
	}
	if nb.ID == "" {
		nb.ID = newBlockID(t)
	}

	rows := t.Rows()
	insertAt := len(rows)
	level := 0
	docID := a.DocumentID

	if a.AfterID != "" {
		i := t.IndexOf(a.AfterID)
		if i < 0 {
			return unchanged(t)
		}
		ref := t.At(i)
		// Insert after the reference block's subtree so the reference
		// keeps its children; at the same level this is the next-sibling
		// position.
		insertAt = t.SubtreeEnd(i)
		level = ref.Level
		docID = ref.DocumentID
	} else if len(rows) > 0 {
		docID = rows[len(rows)-1].DocumentID
	}
	if a.Level != nil {
		level = *a.Level
	}
	nb.Level = level
	nb.DocumentID = docID

	rows = append(rows[:insertAt], append([]model.Block{nb}, rows[insertAt:]...)...)
	return Result{Tree: outline.Rebuild(rows), Changed: true, NewID: nb.ID}
}

func applyDelete(t *outline.Tree, a Delete) Result {
	i := t.IndexOf(a.ID)
	if i < 0 {
		return unchanged(t)
	}
	// The subtree is a contiguous span, so the cascade can never be
	// partial.
	end := t.SubtreeEnd(i)
	rows := t.Rows()
	rows = append(rows[:i], rows[end:]...)
	return Result{Tree: outline.Rebuild(rows), Changed: true}
}

func applyUpdateContent(t *outline.Tree, a UpdateContent) Result {
	i := t.IndexOf(a.ID)
	if i < 0 {
		return unchanged(t)
	}
	rows := t.Rows()
	if rows[i].Content == a.Content {
		return unchanged(t)
	}
	rows[i].Content = a.Content
	rows[i].UpdatedAt = time.Now().UTC()
	return Result{Tree: outline.Rebuild(rows), Changed: true}
}

func applySetType(t *outline.Tree, a SetType) Result {
	i := t.IndexOf(a.ID)
	if i < 0 || !a.Type.Valid() {
		return unchanged(t)
	}
	rows := t.Rows()
	if rows[i].Type == a.Type {
		return unchanged(t)
	}
	rows[i].Type = a.Type
	rows[i].UpdatedAt = time.Now().UTC()
	return Result{Tree: outline.Rebuild(rows), Changed: true}
}

func applyIndent(t *outline.Tree, a Indent) Result {
	if !CanIndent(t, a.ID) {
		return unchanged(t)
	}
	i := t.IndexOf(a.ID)
	end := t.SubtreeEnd(i)
	rows := t.Rows()
	// The whole subtree shifts by the same delta; the rebuild pass
	// reattaches the block as the last child of its previous sibling.
	for j := i; j < end; j++ {
		rows[j].Level++
	}
	rows[i].UpdatedAt = time.Now().UTC()
	return Result{Tree: outline.Rebuild(rows), Changed: true}
}

func applyOutdent(t *outline.Tree, a Outdent) Result {
	if !CanOutdent(t, a.ID) {
		return unchanged(t)
	}
	i := t.IndexOf(a.ID)
	end := t.SubtreeEnd(i)
	rows := t.Rows()
	for j := i; j < end; j++ {
		if rows[j].Level > 0 {
			rows[j].Level--
		}
	}
	rows[i].UpdatedAt = time.Now().UTC()
	return Result{Tree: outline.Rebuild(rows), Changed: true}
}

func applyMoveUp(t *outline.Tree, a MoveUp) Result {
	i := t.IndexOf(a.ID)
	if i < 0 {
		return unchanged(t)
	}
	prev, ok := t.PrevSibling(a.ID)
	if !ok || prev.Level != t.At(i).Level {
		return unchanged(t)
	}
	pi := t.IndexOf(prev.ID)
	return swapSpans(t, pi, i)
}

func applyMoveDown(t *outline.Tree, a MoveDown) Result {
	i := t.IndexOf(a.ID)
	if i < 0 {
		return unchanged(t)
	}
	next, ok := t.NextSibling(a.ID)
	if !ok || next.Level != t.At(i).Level {
		return unchanged(t)
	}
	return swapSpans(t, i, t.IndexOf(next.ID))
}

// swapSpans exchanges two adjacent sibling subtrees; a is the flat index of
// the earlier sibling, b of the later one.
func swapSpans(t *outline.Tree, a, b int) Result {
	aEnd := t.SubtreeEnd(a)
	bEnd := t.SubtreeEnd(b)
	rows := t.Rows()

	out := make([]model.Block, 0, len(rows))
	out = append(out, rows[:a]...)
	out = append(out, rows[b:bEnd]...)
	out = append(out, rows[aEnd:b]...)
	out = append(out, rows[a:aEnd]...)
	out = append(out, rows[bEnd:]...)
	return Result{Tree: outline.Rebuild(out), Changed: true}
}

func applyToggleCollapse(t *outline.Tree, a ToggleCollapse) Result {
	if !CanCollapse(t, a.ID) {
		return unchanged(t)
	}
	i := t.IndexOf(a.ID)
	rows := t.Rows()
	rows[i].Collapsed = !rows[i].Collapsed
	return Result{Tree: outline.Rebuild(rows), Changed: true}
}
