package mutate

import (
	"time"

	"outline-cli/internal/model"
	"outline-cli/internal/outline"
)

func applyMerge(t *outline.Tree, a MergeWithPrevious) Result {
	i := t.IndexOf(a.ID)
	if i <= 0 {
		// Not found, or first block in flat order: nothing to merge into.
		return unchanged(t)
	}
	rows := t.Rows()
	cur := rows[i]
	prev := rows[i-1]

	end := t.SubtreeEnd(i)
	// cur's children become prev's children: each direct child moves from
	// cur.Level+1 to prev.Level+1, and the deeper descendants shift by the
	// same delta.
	delta := prev.Level - cur.Level
	for j := i + 1; j < end; j++ {
		rows[j].Level += delta
	}

	rows[i-1].Content = prev.Content + cur.Content
	rows[i-1].UpdatedAt = time.Now().UTC()

	// Non-cascading delete of cur: its children were already reattached,
	// and in flat order they immediately follow prev once cur is gone.
	rows = append(rows[:i], rows[i+1:]...)
	return Result{Tree: outline.Rebuild(rows), Changed: true, MergedInto: prev.ID}
}

func applySplit(t *outline.Tree, a SplitAtOffset) Result {
	i := t.IndexOf(a.ID)
	if i < 0 {
		return unchanged(t)
	}
	rows := t.Rows()
	orig := rows[i]

	r := []rune(orig.Content)
	off := a.Offset
	if off < 0 {
		off = 0
	}
	if off > len(r) {
		off = len(r)
	}

	now := time.Now().UTC()
	rows[i].Content = string(r[:off])
	rows[i].UpdatedAt = now

	nb := model.Block{
		ID:         a.NewID,
		DocumentID: orig.DocumentID,
		Type:       orig.Type,
		Content:    string(r[off:]),
		Level:      orig.Level,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if nb.ID == "" {
		nb.ID = newBlockID(t)
	}

	// Insert at the next-sibling position (after the original's subtree)
	// so the original keeps its children.
	insertAt := t.SubtreeEnd(i)
	rows = append(rows[:insertAt], append([]model.Block{nb}, rows[insertAt:]...)...)
	return Result{Tree: outline.Rebuild(rows), Changed: true, NewID: nb.ID}
}
