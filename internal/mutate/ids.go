package mutate

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"outline-cli/internal/outline"
)

// newBlockID returns blk-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding), about 40 bits of space. Uniqueness is checked
// against the tree; ids are never reused because deletes are permanent.
func newBlockID(t *outline.Tree) string {
	for attempt := 0; attempt < 10; attempt++ {
		var b [5]byte
		if _, err := rand.Read(b[:]); err != nil {
			break
		}
		enc := base32.StdEncoding.WithPadding(base32.NoPadding)
		id := "blk-" + strings.ToLower(enc.EncodeToString(b[:]))
		if t.IndexOf(id) < 0 {
			return id
		}
	}
	// Extremely unlikely fallback.
	for n := t.Len() + 1; ; n++ {
		id := fmt.Sprintf("blk-%d", n)
		if t.IndexOf(id) < 0 {
			return id
		}
	}
}
