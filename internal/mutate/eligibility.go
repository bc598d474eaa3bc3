package mutate

import "outline-cli/internal/outline"

// Eligibility predicates are side-effect-free and are what UI affordances
// key off. Apply re-checks them, so callers that ignore the predicates
// still get a no-op rather than a broken tree.

// CanIndent reports whether the block has a previous sibling to become a
// child of.
func CanIndent(t *outline.Tree, id string) bool {
	if t.IndexOf(id) < 0 {
		return false
	}
	_, ok := t.PrevSibling(id)
	return ok
}

// CanOutdent reports whether the block is below root level. Outdenting a
// depth-1 block always succeeds by becoming a root; the rebuild pass
// guarantees a legal parent either way.
func CanOutdent(t *outline.Tree, id string) bool {
	b, ok := t.Find(id)
	return ok && b.Level > 0
}

// CanCollapse reports whether toggling collapse would do anything.
func CanCollapse(t *outline.Tree, id string) bool {
	return t.IndexOf(id) >= 0 && t.HasChildren(id)
}

// CanMergePrev reports whether a flat-order predecessor exists.
func CanMergePrev(t *outline.Tree, id string) bool {
	return t.IndexOf(id) > 0
}

func CanMoveUp(t *outline.Tree, id string) bool {
	b, ok := t.Find(id)
	if !ok {
		return false
	}
	prev, ok := t.PrevSibling(id)
	return ok && prev.Level == b.Level
}

func CanMoveDown(t *outline.Tree, id string) bool {
	b, ok := t.Find(id)
	if !ok {
		return false
	}
	next, ok := t.NextSibling(id)
	return ok && next.Level == b.Level
}
