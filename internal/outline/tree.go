package outline

import (
	"sort"

	"outline-cli/internal/model"
)

// Tree is the block hierarchy of one document.
//
// The flat pre-order sequence is the single source of truth: parent links,
// children lists and the id index are all derived from it by Rebuild. A
// subtree is always a contiguous span of the flat sequence, which is what
// makes the structural mutations cheap slice surgery.
type Tree struct {
	rows     []model.Block
	index    map[string]int
	children map[string][]string
}

// Build constructs a Tree from stored rows in any order, using the
// persisted Seq as the document order.
func Build(blocks []model.Block) *Tree {
	rows := make([]model.Block, len(blocks))
	copy(rows, blocks)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })
	return Rebuild(rows)
}

// Rebuild derives a consistent Tree from a flat pre-order list where each
// entry declares its intended level. This is the single point of invariant
// repair: levels are clamped to the nearest legal depth (a block can nest
// at most one level deeper than its predecessor) and parent links are
// reassigned from an ancestor stack, so a dangling or ambiguous parent can
// never survive a mutation.
func Rebuild(rows []model.Block) *Tree {
	t := &Tree{
		rows:     make([]model.Block, len(rows)),
		index:    make(map[string]int, len(rows)),
		children: make(map[string][]string),
	}
	copy(t.rows, rows)

	// stack holds indices of the current ancestor chain; stack[k] is the
	// most recent block seen at level k.
	var stack []int
	for i := range t.rows {
		b := &t.rows[i]
		if b.Level < 0 {
			b.Level = 0
		}
		max := 0
		if i > 0 {
			max = t.rows[i-1].Level + 1
		}
		if b.Level > max {
			b.Level = max
		}

		for len(stack) > 0 && t.rows[stack[len(stack)-1]].Level >= b.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			b.ParentID = nil
		} else {
			pid := t.rows[stack[len(stack)-1]].ID
			b.ParentID = &pid
			t.children[pid] = append(t.children[pid], b.ID)
		}
		stack = append(stack, i)

		b.Seq = i
		t.index[b.ID] = i
	}
	return t
}

// Rows returns a copy of the flat pre-order sequence.
func (t *Tree) Rows() []model.Block {
	out := make([]model.Block, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *Tree) Len() int { return len(t.rows) }

// IndexOf returns the flat position of id, or -1.
func (t *Tree) IndexOf(id string) int {
	i, ok := t.index[id]
	if !ok {
		return -1
	}
	return i
}

func (t *Tree) Find(id string) (model.Block, bool) {
	i, ok := t.index[id]
	if !ok {
		return model.Block{}, false
	}
	return t.rows[i], true
}

// At returns the block at flat position i.
func (t *Tree) At(i int) model.Block { return t.rows[i] }

func (t *Tree) Children(id string) []string {
	ch := t.children[id]
	out := make([]string, len(ch))
	copy(out, ch)
	return out
}

func (t *Tree) HasChildren(id string) bool { return len(t.children[id]) > 0 }

// SubtreeEnd returns the flat index one past the last descendant of the
// block at index i. The span [i, SubtreeEnd(i)) is the block plus its full
// subtree.
func (t *Tree) SubtreeEnd(i int) int {
	level := t.rows[i].Level
	j := i + 1
	for j < len(t.rows) && t.rows[j].Level > level {
		j++
	}
	return j
}

// Descendants returns the ids of every block reachable from id via child
// edges, in pre-order. The block itself is not included.
func (t *Tree) Descendants(id string) []string {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	end := t.SubtreeEnd(i)
	out := make([]string, 0, end-i-1)
	for j := i + 1; j < end; j++ {
		out = append(out, t.rows[j].ID)
	}
	return out
}

// PrevSibling returns the previous block at the same level under the same
// parent, if any.
func (t *Tree) PrevSibling(id string) (model.Block, bool) {
	i, ok := t.index[id]
	if !ok {
		return model.Block{}, false
	}
	level := t.rows[i].Level
	for j := i - 1; j >= 0; j-- {
		if t.rows[j].Level < level {
			break
		}
		if t.rows[j].Level == level {
			return t.rows[j], true
		}
	}
	return model.Block{}, false
}

// NextSibling returns the next block at the same level under the same
// parent, if any.
func (t *Tree) NextSibling(id string) (model.Block, bool) {
	i, ok := t.index[id]
	if !ok {
		return model.Block{}, false
	}
	level := t.rows[i].Level
	j := t.SubtreeEnd(i)
	if j < len(t.rows) && t.rows[j].Level == level {
		return t.rows[j], true
	}
	return model.Block{}, false
}

// PrevInFlat returns the block immediately before id in flat order.
func (t *Tree) PrevInFlat(id string) (model.Block, bool) {
	i, ok := t.index[id]
	if !ok || i == 0 {
		return model.Block{}, false
	}
	return t.rows[i-1], true
}

// Visible returns the flat sequence with the descendants of collapsed
// blocks excluded. Collapse affects visibility only; the hidden blocks are
// still in the tree.
func (t *Tree) Visible() []model.Block {
	var out []model.Block
	for i := 0; i < len(t.rows); {
		b := t.rows[i]
		out = append(out, b)
		if b.Collapsed && t.HasChildren(b.ID) {
			i = t.SubtreeEnd(i)
		} else {
			i++
		}
	}
	return out
}

// VisibleIDs returns the ids of Visible in order.
func (t *Tree) VisibleIDs() []string {
	vis := t.Visible()
	out := make([]string, len(vis))
	for i, b := range vis {
		out[i] = b.ID
	}
	return out
}
