package main

import (
	"os"
	"strings"

	"outline-cli/internal/cli"
)

func isDocID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "doc-") {
		return false
	}
	// Keep it permissive; IDs are generated but users may paste variants.
	return len(s) > len("doc-")
}

// rewriteDirectDocLookupArgs makes `outline <doc-id>` work like
// `outline blocks list --doc <doc-id>`.
//
// Cobra treats the first non-flag token as a subcommand, so we rewrite argv
// before parsing. Users often pass persistent flags first (e.g.
// `outline --dir ... <doc-id>`), so we must find the first positional token,
// not just argv[1].
func rewriteDirectDocLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":    true,
		"--format": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isDocID(argv[i+1]) {
				return rewriteAt(argv, i+1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			// --flag=value form carries its value inline.
			if strings.Contains(a, "=") {
				continue
			}
			name := a
			if valueFlags[name] && i+1 < len(argv) {
				i++ // skip the flag's value
				continue
			}
			if boolFlags[name] {
				continue
			}
			// Unknown flag: skip just the flag token.
			continue
		}
		// First positional token.
		if isDocID(a) {
			return rewriteAt(argv, i)
		}
		return argv
	}
	return argv
}

func rewriteAt(argv []string, i int) []string {
	out := make([]string, 0, len(argv)+3)
	out = append(out, argv[:i]...)
	out = append(out, "blocks", "list", "--doc")
	out = append(out, argv[i:]...)
	return out
}

func main() {
	os.Args = rewriteDirectDocLookupArgs(os.Args)
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
