package mutate

import (
	"outline-cli/internal/model"
	"outline-cli/internal/outline"
)

// Action is the closed set of structural mutations. Apply matches it
// exhaustively, so adding a variant without handling it is a compile-time
// smell rather than a silent no-op.
type Action interface{ isAction() }

// Add inserts a new block after AfterID (after its whole subtree, so the
// reference block keeps its children). AfterID == "" appends at the end of
// the document.
type Add struct {
	AfterID    string
	Level      *int // nil: reference block's level (0 when appending at end)
	Content    string
	Type       model.BlockType // "" means bullet
	DocumentID string          // used when the tree is empty
	NewID      string          // generated when empty
}

// Delete removes the block and its full descendant subtree.
type Delete struct{ ID string }

// UpdateContent replaces a block's content; no structural change.
type UpdateContent struct {
	ID      string
	Content string
}

// SetType changes a block's content type; no structural change.
type SetType struct {
	ID   string
	Type model.BlockType
}

// Indent makes the block a child of its previous sibling.
type Indent struct{ ID string }

// Outdent lifts the block one level, floored at 0.
type Outdent struct{ ID string }

// MoveUp swaps the block (with its subtree) with its previous sibling.
type MoveUp struct{ ID string }

// MoveDown swaps the block (with its subtree) with its next sibling.
type MoveDown struct{ ID string }

// ToggleCollapse flips Collapsed; no-op for blocks without children.
type ToggleCollapse struct{ ID string }

// MergeWithPrevious appends the block's content to the flat-previous block,
// re-parents its children there, then removes the block.
type MergeWithPrevious struct{ ID string }

// SplitAtOffset keeps content[:Offset] (in runes) on the block and moves
// the rest into a new next sibling. Children stay with the original block.
type SplitAtOffset struct {
	ID     string
	Offset int
	NewID  string // generated when empty
}

func (Add) isAction()               {}
func (Delete) isAction()            {}
func (UpdateContent) isAction()     {}
func (SetType) isAction()           {}
func (Indent) isAction()            {}
func (Outdent) isAction()           {}
func (MoveUp) isAction()            {}
func (MoveDown) isAction()          {}
func (ToggleCollapse) isAction()    {}
func (MergeWithPrevious) isAction() {}
func (SplitAtOffset) isAction()     {}

// Result is the outcome of one Apply. When a target block cannot be found
// or a precondition fails, Tree is the input tree and Changed is false;
// mutations are routinely triggered by possibly-stale UI references, so
// "no effect" is the contract, not an error.
type Result struct {
	Tree    *outline.Tree
	Changed bool

	// NewID is set by Add and SplitAtOffset.
	NewID string
	// MergedInto is set by MergeWithPrevious.
	MergedInto string
}

func unchanged(t *outline.Tree) Result { return Result{Tree: t} }

// Apply runs one structural mutation and returns the resulting tree. It is
// pure with respect to its input: the given tree is never modified.
func Apply(t *outline.Tree, a Action) Result {
	switch a := a.(type) {
	case Add:
		return applyAdd(t, a)
	case Delete:
		return applyDelete(t, a)
	case UpdateContent:
		return applyUpdateContent(t, a)
	case SetType:
		return applySetType(t, a)
	case Indent:
		return applyIndent(t, a)
	case Outdent:
		return applyOutdent(t, a)
	case MoveUp:
		return applyMoveUp(t, a)
	case MoveDown:
		return applyMoveDown(t, a)
	case ToggleCollapse:
		return applyToggleCollapse(t, a)
	case MergeWithPrevious:
		return applyMerge(t, a)
	case SplitAtOffset:
		return applySplit(t, a)
	}
	return unchanged(t)
}
