package session

import "outline-cli/internal/model"

// Cross-block cursor continuity: vertical navigation at a block boundary
// carries the current column offset into the neighboring block, clamped to
// the destination line, so moving through blocks of varying length feels
// like one continuous document. Offsets are rune-based.

// NavigateUp resolves the block above id in the visible order and the
// caret offset to apply there (on its last line). ok is false at the top
// of the document; navigation is absorbed, not an error.
func NavigateUp(visible []model.Block, id string, cursor int) (destID string, offset int, ok bool) {
	i := indexIn(visible, id)
	if i <= 0 {
		return "", 0, false
	}
	col := columnOf(visible[i].Content, cursor)
	dest := visible[i-1]

	r := []rune(dest.Content)
	lineStart := 0
	for j := len(r) - 1; j >= 0; j-- {
		if r[j] == '\n' {
			lineStart = j + 1
			break
		}
	}
	lineLen := len(r) - lineStart
	if col > lineLen {
		col = lineLen
	}
	return dest.ID, lineStart + col, true
}

// NavigateDown is the downward counterpart; the offset lands on the
// destination's first line.
func NavigateDown(visible []model.Block, id string, cursor int) (destID string, offset int, ok bool) {
	i := indexIn(visible, id)
	if i < 0 || i+1 >= len(visible) {
		return "", 0, false
	}
	col := columnOf(visible[i].Content, cursor)
	dest := visible[i+1]

	r := []rune(dest.Content)
	lineLen := len(r)
	for j, c := range r {
		if c == '\n' {
			lineLen = j
			break
		}
	}
	if col > lineLen {
		col = lineLen
	}
	return dest.ID, col, true
}

// columnOf is the cursor's distance from the start of its current line.
func columnOf(content string, cursor int) int {
	r := []rune(content)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(r) {
		cursor = len(r)
	}
	for j := cursor - 1; j >= 0; j-- {
		if r[j] == '\n' {
			return cursor - (j + 1)
		}
	}
	return cursor
}

func indexIn(visible []model.Block, id string) int {
	for i, b := range visible {
		if b.ID == id {
			return i
		}
	}
	return -1
}
