package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: outline %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
	}
	return env
}

func dataID(t *testing.T, env map[string]any) string {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object; got: %#v", env["data"])
	}
	id, _ := m["id"].(string)
	if id == "" {
		t.Fatalf("expected data.id; got: %#v", env["data"])
	}
	return id
}

func listIDs(t *testing.T, env map[string]any) []string {
	t.Helper()
	xs, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected data list; got: %#v", env["data"])
	}
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		m, _ := x.(map[string]any)
		id, _ := m["id"].(string)
		out = append(out, id)
	}
	return out
}

func TestCLIBlockLifecycle(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "--dir", dir, "init")

	doc := mustRun(t, "--dir", dir, "docs", "create", "--name", "Notes")
	docID := dataID(t, doc)

	a := mustRun(t, "--dir", dir, "blocks", "add", "--doc", docID, "--content", "alpha")
	aID := dataID(t, a)
	b := mustRun(t, "--dir", dir, "blocks", "add", "--after", aID, "--content", "beta")
	bID := dataID(t, b)

	mustRun(t, "--dir", dir, "blocks", "indent", bID)

	list := mustRun(t, "--dir", dir, "blocks", "list", "--doc", docID, "--eligibility")
	ids := listIDs(t, list)
	if len(ids) != 2 || ids[0] != aID || ids[1] != bID {
		t.Fatalf("expected order [%s %s]; got %v", aID, bID, ids)
	}
	rows := list["data"].([]any)
	if lvl, _ := rows[1].(map[string]any)["level"].(float64); lvl != 1 {
		t.Fatalf("expected indented block at level 1; got %v", rows[1])
	}
	if can, _ := rows[0].(map[string]any)["canCollapse"].(bool); !can {
		t.Fatalf("expected parent to be collapsible; got %v", rows[0])
	}
	if can, _ := rows[0].(map[string]any)["canIndent"].(bool); can {
		t.Fatalf("first block must not be indentable; got %v", rows[0])
	}

	// Split keeps the tail after the whole subtree of the split block.
	split := mustRun(t, "--dir", dir, "blocks", "split", aID, "--offset", "2")
	tailID := dataID(t, split)
	if content, _ := split["data"].(map[string]any)["content"].(string); content != "pha" {
		t.Fatalf("expected split tail %q; got %q", "pha", content)
	}
	list = mustRun(t, "--dir", dir, "blocks", "list", "--doc", docID)
	if ids := listIDs(t, list); len(ids) != 3 || ids[2] != tailID {
		t.Fatalf("expected tail last; got %v", ids)
	}

	// Merge absorbs the tail into its flat predecessor (the child).
	merged := mustRun(t, "--dir", dir, "blocks", "merge", tailID)
	if dataID(t, merged) != bID {
		t.Fatalf("expected merge into %s; got %v", bID, merged["data"])
	}
	if content, _ := merged["data"].(map[string]any)["content"].(string); content != "betapha" {
		t.Fatalf("expected merged content %q; got %q", "betapha", content)
	}

	mustRun(t, "--dir", dir, "blocks", "outdent", bID)
	list = mustRun(t, "--dir", dir, "blocks", "list", "--doc", docID)
	rows = list["data"].([]any)
	if lvl, _ := rows[1].(map[string]any)["level"].(float64); lvl != 0 {
		t.Fatalf("expected outdented block at level 0; got %v", rows[1])
	}

	mustRun(t, "--dir", dir, "blocks", "delete", aID)
	list = mustRun(t, "--dir", dir, "blocks", "list", "--doc", docID)
	if ids := listIDs(t, list); len(ids) != 1 || ids[0] != bID {
		t.Fatalf("expected only %s left; got %v", bID, ids)
	}

	events := mustRun(t, "--dir", dir, "events", "list", "--limit", "0")
	if xs, ok := events["data"].([]any); !ok || len(xs) == 0 {
		t.Fatalf("expected events to be recorded; got %#v", events["data"])
	}
}

func TestCLIIneligibleOperationsFail(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	docID := dataID(t, mustRun(t, "--dir", dir, "docs", "create", "--name", "Doc"))
	aID := dataID(t, mustRun(t, "--dir", dir, "blocks", "add", "--doc", docID, "--content", "only"))

	for _, args := range [][]string{
		{"blocks", "indent", aID},
		{"blocks", "outdent", aID},
		{"blocks", "collapse", aID},
		{"blocks", "merge", aID},
		{"blocks", "move-up", aID},
		{"blocks", "move-down", aID},
	} {
		full := append([]string{"--dir", dir}, args...)
		if _, _, err := runCLI(t, full); err == nil {
			t.Fatalf("expected %v to fail for a lone root block", args)
		}
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "blocks", "indent", "blk-missing"}); err == nil {
		t.Fatal("expected not-found error for unknown block")
	}
}

func TestCLIMoveReordersSiblings(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	docID := dataID(t, mustRun(t, "--dir", dir, "docs", "create", "--name", "Doc"))
	aID := dataID(t, mustRun(t, "--dir", dir, "blocks", "add", "--doc", docID, "--content", "a"))
	bID := dataID(t, mustRun(t, "--dir", dir, "blocks", "add", "--doc", docID, "--content", "b"))
	cID := dataID(t, mustRun(t, "--dir", dir, "blocks", "add", "--after", aID, "--content", "a-child"))
	mustRun(t, "--dir", dir, "blocks", "indent", cID)

	// Moving a down carries its subtree past b.
	mustRun(t, "--dir", dir, "blocks", "move-down", aID)
	list := mustRun(t, "--dir", dir, "blocks", "list", "--doc", docID)
	if ids := listIDs(t, list); ids[0] != bID || ids[1] != aID || ids[2] != cID {
		t.Fatalf("expected order [b a a-child]; got %v", ids)
	}

	mustRun(t, "--dir", dir, "blocks", "move-up", aID)
	list = mustRun(t, "--dir", dir, "blocks", "list", "--doc", docID)
	if ids := listIDs(t, list); ids[0] != aID || ids[1] != cID || ids[2] != bID {
		t.Fatalf("expected order [a a-child b]; got %v", ids)
	}
}

func TestCLIExportIndentedText(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	docID := dataID(t, mustRun(t, "--dir", dir, "docs", "create", "--name", "Doc"))
	aID := dataID(t, mustRun(t, "--dir", dir, "blocks", "add", "--doc", docID, "--content", "parent"))
	bID := dataID(t, mustRun(t, "--dir", dir, "blocks", "add", "--after", aID, "--content", "child"))
	mustRun(t, "--dir", dir, "blocks", "indent", bID)

	env := mustRun(t, "--dir", dir, "export", "--doc", docID)
	text, _ := env["data"].(map[string]any)["text"].(string)
	if text != "- parent\n  - child" {
		t.Fatalf("unexpected export text: %q", text)
	}

	// Subtree export starts at the left margin.
	env = mustRun(t, "--dir", dir, "export", "--block", bID)
	if text, _ := env["data"].(map[string]any)["text"].(string); text != "- child" {
		t.Fatalf("unexpected subtree export: %q", text)
	}

	// Text format prints the rendering directly.
	stdout, stderr, err := runCLI(t, []string{"--dir", dir, "--format", "text", "export", "--doc", docID})
	if err != nil {
		t.Fatalf("text export failed: %v\nstderr:\n%s", err, string(stderr))
	}
	if got := strings.TrimRight(string(stdout), "\n"); got != "- parent\n  - child" {
		t.Fatalf("unexpected text output: %q", got)
	}
}

func TestCLIDocsRenameAndDelete(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	docID := dataID(t, mustRun(t, "--dir", dir, "docs", "create", "--name", "Before"))
	aID := dataID(t, mustRun(t, "--dir", dir, "blocks", "add", "--doc", docID, "--content", "x"))

	env := mustRun(t, "--dir", dir, "docs", "rename", docID, "--name", "After")
	if name, _ := env["data"].(map[string]any)["name"].(string); name != "After" {
		t.Fatalf("expected renamed doc; got %v", env["data"])
	}

	mustRun(t, "--dir", dir, "docs", "delete", docID)
	docs := mustRun(t, "--dir", dir, "docs", "list")
	if xs, _ := docs["data"].([]any); len(xs) != 0 {
		t.Fatalf("expected no documents; got %v", docs["data"])
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "blocks", "update", aID, "--content", "y"}); err == nil {
		t.Fatal("expected block lookup to fail after document delete")
	}
}

func TestCLISetTypeAndDuplicate(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, "--dir", dir, "init")
	docID := dataID(t, mustRun(t, "--dir", dir, "docs", "create", "--name", "Doc"))
	aID := dataID(t, mustRun(t, "--dir", dir, "blocks", "add", "--doc", docID, "--content", "code here"))

	env := mustRun(t, "--dir", dir, "blocks", "set-type", aID, "--type", "fence")
	if typ, _ := env["data"].(map[string]any)["type"].(string); typ != "fence" {
		t.Fatalf("expected fence type; got %v", env["data"])
	}

	// Fence blocks do not split.
	if _, _, err := runCLI(t, []string{"--dir", dir, "blocks", "split", aID, "--offset", "1"}); err == nil {
		t.Fatal("expected split of a fence block to fail")
	}

	dup := mustRun(t, "--dir", dir, "blocks", "duplicate", aID)
	dupID := dataID(t, dup)
	if dupID == aID {
		t.Fatal("duplicate must mint a fresh id")
	}
	if content, _ := dup["data"].(map[string]any)["content"].(string); content != "code here" {
		t.Fatalf("expected copied content; got %v", dup["data"])
	}
}
