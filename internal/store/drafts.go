package store

// DraftBuffer accumulates in-flight content edits per block so they can be
// committed at flush points (focus loss, navigation away, structural
// mutations, explicit save) instead of on every keystroke. This avoids
// write amplification and keeps input-method composition sequences whole.
//
// Ordering contract: structural mutations must flush the pending draft of
// the blocks they touch before the structural change is applied, otherwise
// an in-flight edit could be lost or land on the wrong block.
type DraftBuffer struct {
	pending map[string]string
}

func NewDraftBuffer() *DraftBuffer {
	return &DraftBuffer{pending: map[string]string{}}
}

// Set records draft content for a block, replacing any earlier draft.
func (d *DraftBuffer) Set(blockID, content string) {
	if blockID == "" {
		return
	}
	d.pending[blockID] = content
}

// Pending returns the draft for a block, if any.
func (d *DraftBuffer) Pending(blockID string) (string, bool) {
	c, ok := d.pending[blockID]
	return c, ok
}

func (d *DraftBuffer) Dirty() bool { return len(d.pending) > 0 }

// FlushBlock commits one block's draft through commit and drops it.
// A block deleted while a draft was in flight simply drops the draft
// (commit receives it; the caller decides what a stale id means).
func (d *DraftBuffer) FlushBlock(blockID string, commit func(blockID, content string)) {
	c, ok := d.pending[blockID]
	if !ok {
		return
	}
	delete(d.pending, blockID)
	commit(blockID, c)
}

// FlushAll commits every pending draft and empties the buffer.
func (d *DraftBuffer) FlushAll(commit func(blockID, content string)) {
	for id, c := range d.pending {
		commit(id, c)
	}
	d.pending = map[string]string{}
}

// Discard drops a draft without committing (block deleted under us).
func (d *DraftBuffer) Discard(blockID string) {
	delete(d.pending, blockID)
}
