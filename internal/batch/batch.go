// Package batch applies one logical operation to every block in a
// selection. Members are processed in document order so each individual
// precondition check is made against the partially-mutated state, and
// eligibility is gated up front so a batch never moves only some of its
// members.
package batch

import (
	"sort"

	"outline-cli/internal/model"
	"outline-cli/internal/mutate"
	"outline-cli/internal/outline"
)

// Result is the outcome of a batch operation.
type Result struct {
	Tree    *outline.Tree
	Changed bool

	// NewIDs are the blocks created by Duplicate, in document order.
	NewIDs []string

	// SelectionInvalidated is true for destructive batches (delete); the
	// caller must clear selection and anchor together afterwards.
	SelectionInvalidated bool
}

// CanIndentAll is true only if every member has a valid indent
// predecessor: moving just some members under different parents would
// scramble their relative order.
func CanIndentAll(t *outline.Tree, ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !mutate.CanIndent(t, id) {
			return false
		}
	}
	return true
}

// CanOutdentAny is true if at least one member is below root level;
// outdent is meaningful whenever any member benefits.
func CanOutdentAny(t *outline.Tree, ids []string) bool {
	for _, id := range ids {
		if mutate.CanOutdent(t, id) {
			return true
		}
	}
	return false
}

// Indent indents every member. No-op unless CanIndentAll holds.
func Indent(t *outline.Tree, ids []string) Result {
	if !CanIndentAll(t, ids) {
		return Result{Tree: t}
	}
	return each(t, ids, func(id string) mutate.Action { return mutate.Indent{ID: id} })
}

// Outdent outdents every eligible member.
func Outdent(t *outline.Tree, ids []string) Result {
	if !CanOutdentAny(t, ids) {
		return Result{Tree: t}
	}
	return each(t, ids, func(id string) mutate.Action { return mutate.Outdent{ID: id} })
}

// Delete removes every member (each with its subtree). Members that were
// already removed as descendants of an earlier member are skipped by the
// engine's not-found guard.
func Delete(t *outline.Tree, ids []string) Result {
	res := each(t, ids, func(id string) mutate.Action { return mutate.Delete{ID: id} })
	res.SelectionInvalidated = res.Changed
	return res
}

// SetType changes the content type of every member.
func SetType(t *outline.Tree, ids []string, bt model.BlockType) Result {
	return each(t, ids, func(id string) mutate.Action { return mutate.SetType{ID: id, Type: bt} })
}

// Duplicate inserts a shallow copy (content and level, not children) after
// each member.
func Duplicate(t *outline.Tree, ids []string) Result {
	out := Result{Tree: t}
	for _, id := range inDocumentOrder(t, ids) {
		b, ok := out.Tree.Find(id)
		if !ok {
			continue
		}
		level := b.Level
		res := mutate.Apply(out.Tree, mutate.Add{
			AfterID: id,
			Level:   &level,
			Content: b.Content,
			Type:    b.Type,
		})
		out.Tree = res.Tree
		if res.Changed {
			out.Changed = true
			out.NewIDs = append(out.NewIDs, res.NewID)
		}
	}
	return out
}

func each(t *outline.Tree, ids []string, act func(id string) mutate.Action) Result {
	out := Result{Tree: t}
	for _, id := range inDocumentOrder(t, ids) {
		res := mutate.Apply(out.Tree, act(id))
		out.Tree = res.Tree
		out.Changed = out.Changed || res.Changed
	}
	return out
}

// inDocumentOrder sorts ids by ascending flat position, dropping ids not
// in the tree.
func inDocumentOrder(t *outline.Tree, ids []string) []string {
	type pos struct {
		id string
		i  int
	}
	ps := make([]pos, 0, len(ids))
	for _, id := range ids {
		if i := t.IndexOf(id); i >= 0 {
			ps = append(ps, pos{id: id, i: i})
		}
	}
	sort.Slice(ps, func(a, b int) bool { return ps[a].i < ps[b].i })
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.id
	}
	return out
}
