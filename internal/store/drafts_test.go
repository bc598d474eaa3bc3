package store

import "testing"

func TestDraftBuffer_SetAndFlushBlock(t *testing.T) {
	d := NewDraftBuffer()
	d.Set("blk-1", "first")
	d.Set("blk-1", "second") // newer draft replaces the older one
	if !d.Dirty() {
		t.Fatalf("expected dirty buffer")
	}

	var gotID, gotContent string
	d.FlushBlock("blk-1", func(id, content string) { gotID, gotContent = id, content })
	if gotID != "blk-1" || gotContent != "second" {
		t.Fatalf("expected latest draft committed; got %s=%q", gotID, gotContent)
	}
	// Flushing is consuming: a second flush must not re-commit.
	called := false
	d.FlushBlock("blk-1", func(string, string) { called = true })
	if called {
		t.Fatalf("draft must be committed exactly once")
	}
}

func TestDraftBuffer_FlushAll(t *testing.T) {
	d := NewDraftBuffer()
	d.Set("a", "1")
	d.Set("b", "2")
	got := map[string]string{}
	d.FlushAll(func(id, content string) { got[id] = content })
	if len(got) != 2 || got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("unexpected commits: %v", got)
	}
	if d.Dirty() {
		t.Fatalf("buffer must be empty after FlushAll")
	}
}

func TestDraftBuffer_Discard(t *testing.T) {
	d := NewDraftBuffer()
	d.Set("a", "1")
	d.Discard("a")
	called := false
	d.FlushAll(func(string, string) { called = true })
	if called {
		t.Fatalf("discarded draft must not commit")
	}
}

func TestDraftBuffer_EmptyIDIgnored(t *testing.T) {
	d := NewDraftBuffer()
	d.Set("", "x")
	if d.Dirty() {
		t.Fatalf("empty block id must be ignored")
	}
}
