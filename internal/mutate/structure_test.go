package mutate

import (
	"testing"

	"outline-cli/internal/model"
	"outline-cli/internal/outline"
)

func blk(id string, level int, content string) model.Block {
	return model.Block{ID: id, DocumentID: "doc-1", Type: model.BlockTypeBullet, Level: level, Content: content}
}

func tree(blocks ...model.Block) *outline.Tree {
	return outline.Rebuild(blocks)
}

func flatIDs(t *outline.Tree) []string {
	rows := t.Rows()
	out := make([]string, len(rows))
	for i, b := range rows {
		out[i] = b.ID
	}
	return out
}

func sameIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAdd_AfterBlockAtSameLevel(t *testing.T) {
	tr := tree(blk("a", 0, "A"))
	res := Apply(tr, Add{AfterID: "a"})
	if !res.Changed || res.NewID == "" {
		t.Fatalf("expected a new block; got %+v", res)
	}
	if got := flatIDs(res.Tree); !sameIDs(got, "a", res.NewID) {
		t.Fatalf("expected flat order [a %s]; got %v", res.NewID, got)
	}
	nb, _ := res.Tree.Find(res.NewID)
	if nb.Level != 0 || nb.Type != model.BlockTypeBullet || nb.Content != "" {
		t.Fatalf("unexpected new block: %+v", nb)
	}
	if nb.DocumentID != "doc-1" {
		t.Fatalf("new block must inherit the document; got %q", nb.DocumentID)
	}
}

func TestAdd_AfterBlockWithChildrenKeepsChildren(t *testing.T) {
	tr := tree(blk("a", 0, ""), blk("a1", 1, ""), blk("b", 0, ""))
	res := Apply(tr, Add{AfterID: "a"})
	if got := flatIDs(res.Tree); !sameIDs(got, "a", "a1", res.NewID, "b") {
		t.Fatalf("new block must follow a's subtree; got %v", got)
	}
	a1, _ := res.Tree.Find("a1")
	if a1.ParentID == nil || *a1.ParentID != "a" {
		t.Fatalf("a1 must stay a child of a; got %v", a1.ParentID)
	}
}

func TestAdd_AtEndOfDocument(t *testing.T) {
	tr := tree(blk("a", 0, ""))
	res := Apply(tr, Add{Content: "tail"})
	got := flatIDs(res.Tree)
	if len(got) != 2 || got[1] != res.NewID {
		t.Fatalf("expected append at end; got %v", got)
	}
}

func TestAdd_EmptyDocumentNeedsDocumentID(t *testing.T) {
	tr := tree()
	res := Apply(tr, Add{DocumentID: "doc-9", Content: "first"})
	if !res.Changed || res.Tree.Len() != 1 {
		t.Fatalf("expected one block; got %+v", res)
	}
	nb, _ := res.Tree.Find(res.NewID)
	if nb.DocumentID != "doc-9" {
		t.Fatalf("expected documentId doc-9; got %q", nb.DocumentID)
	}
}

func TestAdd_UnknownAfterIDIsNoop(t *testing.T) {
	tr := tree(blk("a", 0, ""))
	res := Apply(tr, Add{AfterID: "nope"})
	if res.Changed || res.Tree != tr {
		t.Fatalf("expected unchanged tree for unknown afterId")
	}
}

func TestDelete_CascadesExactlyTheSubtree(t *testing.T) {
	tr := tree(
		blk("a", 0, ""),
		blk("a1", 1, ""),
		blk("a1x", 2, ""),
		blk("b", 0, ""),
	)
	res := Apply(tr, Delete{ID: "a"})
	if got := flatIDs(res.Tree); !sameIDs(got, "b") {
		t.Fatalf("expected only b to survive; got %v", got)
	}
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	tr := tree(blk("a", 0, ""))
	if res := Apply(tr, Delete{ID: "ghost"}); res.Changed {
		t.Fatalf("expected no-op")
	}
}

func TestUpdateContent(t *testing.T) {
	tr := tree(blk("a", 0, "old"))
	res := Apply(tr, UpdateContent{ID: "a", Content: "new"})
	a, _ := res.Tree.Find("a")
	if !res.Changed || a.Content != "new" {
		t.Fatalf("expected content update; got %+v", a)
	}
	if res2 := Apply(res.Tree, UpdateContent{ID: "a", Content: "new"}); res2.Changed {
		t.Fatalf("same content must be a no-op")
	}
}

func TestSetType(t *testing.T) {
	tr := tree(blk("a", 0, ""))
	res := Apply(tr, SetType{ID: "a", Type: model.BlockTypeFence})
	a, _ := res.Tree.Find("a")
	if !res.Changed || a.Type != model.BlockTypeFence {
		t.Fatalf("expected fence type; got %+v", a)
	}
	if res2 := Apply(res.Tree, SetType{ID: "a", Type: "bogus"}); res2.Changed {
		t.Fatalf("invalid type must be a no-op")
	}
}

func TestIndent_BecomesChildOfPreviousSibling(t *testing.T) {
	tr := tree(blk("a", 0, ""), blk("b", 0, ""))
	if !CanIndent(tr, "b") {
		t.Fatalf("b has a previous sibling; CanIndent must be true")
	}
	res := Apply(tr, Indent{ID: "b"})
	b, _ := res.Tree.Find("b")
	if b.Level != 1 || b.ParentID == nil || *b.ParentID != "a" {
		t.Fatalf("expected b at level 1 under a; got level=%d parent=%v", b.Level, b.ParentID)
	}
	if got := flatIDs(res.Tree); !sameIDs(got, "a", "b") {
		t.Fatalf("flat order must be unchanged; got %v", got)
	}
	if !CanOutdent(res.Tree, "b") {
		t.Fatalf("after indent, CanOutdent(b) must be true")
	}
}

func TestIndent_ShiftsDescendantsByTheSameDelta(t *testing.T) {
	tr := tree(blk("a", 0, ""), blk("b", 0, ""), blk("b1", 1, ""))
	res := Apply(tr, Indent{ID: "b"})
	b1, _ := res.Tree.Find("b1")
	if b1.Level != 2 {
		t.Fatalf("expected b1 shifted to level 2; got %d", b1.Level)
	}
	if b1.ParentID == nil || *b1.ParentID != "b" {
		t.Fatalf("b1 must stay under b; got %v", b1.ParentID)
	}
}

func TestIndent_FirstChildIsIneligible(t *testing.T) {
	tr := tree(blk("a", 0, ""), blk("a1", 1, ""))
	if CanIndent(tr, "a") || CanIndent(tr, "a1") {
		t.Fatalf("neither a nor a1 has a previous sibling")
	}
	if res := Apply(tr, Indent{ID: "a1"}); res.Changed {
		t.Fatalf("ineligible indent must be a no-op")
	}
}

func TestOutdent_DepthOneBecomesRoot(t *testing.T) {
	tr := tree(blk("a", 0, ""), blk("a1", 1, ""))
	res := Apply(tr, Outdent{ID: "a1"})
	a1, _ := res.Tree.Find("a1")
	if a1.Level != 0 || a1.ParentID != nil {
		t.Fatalf("expected a1 as root; got level=%d parent=%v", a1.Level, a1.ParentID)
	}
}

func TestOutdent_AtRootIsIneligible(t *testing.T) {
	tr := tree(blk("a", 0, ""))
	if CanOutdent(tr, "a") {
		t.Fatalf("root block cannot outdent")
	}
	if res := Apply(tr, Outdent{ID: "a"}); res.Changed {
		t.Fatalf("expected no-op")
	}
}

func TestIndentThenOutdent_RestoresDepthAndPosition(t *testing.T) {
	tr := tree(blk("a", 0, ""), blk("b", 0, ""), blk("b1", 1, ""), blk("c", 0, ""))
	before := flatIDs(tr)
	res := Apply(tr, Indent{ID: "b"})
	res = Apply(res.Tree, Outdent{ID: "b"})
	if got := flatIDs(res.Tree); !sameIDs(got, before...) {
		t.Fatalf("expected original order %v; got %v", before, got)
	}
	b, _ := res.Tree.Find("b")
	if b.Level != 0 {
		t.Fatalf("expected b restored to level 0; got %d", b.Level)
	}
	b1, _ := res.Tree.Find("b1")
	if b1.Level != 1 {
		t.Fatalf("expected b1 restored to level 1; got %d", b1.Level)
	}
}

func TestMoveUp_SwapsWholeSubtrees(t *testing.T) {
	tr := tree(
		blk("a", 0, ""),
		blk("a1", 1, ""),
		blk("b", 0, ""),
		blk("b1", 1, ""),
	)
	res := Apply(tr, MoveUp{ID: "b"})
	if got := flatIDs(res.Tree); !sameIDs(got, "b", "b1", "a", "a1") {
		t.Fatalf("expected [b b1 a a1]; got %v", got)
	}
	// Children stayed attached.
	b1, _ := res.Tree.Find("b1")
	if b1.ParentID == nil || *b1.ParentID != "b" {
		t.Fatalf("b1 must remain b's child")
	}
}

func TestMoveUp_FirstSiblingIsNoop(t *testing.T) {
	tr := tree(blk("a", 0, ""), blk("b", 0, ""))
	if res := Apply(tr, MoveUp{ID: "a"}); res.Changed {
		t.Fatalf("expected no-op")
	}
	// The flat-previous block is not a same-level sibling here: a1's
	// predecessor is its parent.
	tr2 := tree(blk("a", 0, ""), blk("a1", 1, ""))
	if res := Apply(tr2, MoveUp{ID: "a1"}); res.Changed {
		t.Fatalf("move only swaps peers; expected no-op")
	}
}

func TestMoveDown_SwapsWithNextSibling(t *testing.T) {
	tr := tree(blk("a", 0, ""), blk("b", 0, ""), blk("c", 0, ""))
	res := Apply(tr, MoveDown{ID: "a"})
	if got := flatIDs(res.Tree); !sameIDs(got, "b", "a", "c") {
		t.Fatalf("expected [b a c]; got %v", got)
	}
	if res2 := Apply(res.Tree, MoveDown{ID: "c"}); res2.Changed {
		t.Fatalf("last sibling cannot move down")
	}
}

func TestToggleCollapse(t *testing.T) {
	tr := tree(blk("a", 0, ""), blk("a1", 1, ""), blk("b", 0, ""))
	if CanCollapse(tr, "b") {
		t.Fatalf("leaf block cannot collapse")
	}
	if res := Apply(tr, ToggleCollapse{ID: "b"}); res.Changed {
		t.Fatalf("expected no-op for leaf")
	}

	res := Apply(tr, ToggleCollapse{ID: "a"})
	a, _ := res.Tree.Find("a")
	if !a.Collapsed {
		t.Fatalf("expected a collapsed")
	}
	// Tree shape untouched.
	if res.Tree.Len() != 3 {
		t.Fatalf("collapse must not remove nodes")
	}
	res = Apply(res.Tree, ToggleCollapse{ID: "a"})
	a, _ = res.Tree.Find("a")
	if a.Collapsed {
		t.Fatalf("expected a expanded again")
	}
}

func TestApply_DoesNotMutateInputTree(t *testing.T) {
	tr := tree(blk("a", 0, "A"), blk("b", 0, "B"))
	_ = Apply(tr, Delete{ID: "a"})
	_ = Apply(tr, Indent{ID: "b"})
	if got := flatIDs(tr); !sameIDs(got, "a", "b") {
		t.Fatalf("input tree was mutated: %v", got)
	}
	b, _ := tr.Find("b")
	if b.Level != 0 {
		t.Fatalf("input tree was mutated: b level=%d", b.Level)
	}
}
