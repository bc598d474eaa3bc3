// Package export renders blocks as indented plain text, one line per
// block (fence blocks keep their inner newlines, every line indented),
// with nesting relative to the shallowest exported block, so exporting a
// deep subtree yields text that starts at the left margin.
package export

import (
	"strings"

	"outline-cli/internal/model"
)

const indentUnit = "  "

// IndentedText renders the given blocks (already in document order).
func IndentedText(blocks []model.Block) string {
	if len(blocks) == 0 {
		return ""
	}
	min := blocks[0].Level
	for _, b := range blocks {
		if b.Level < min {
			min = b.Level
		}
	}

	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		indent := strings.Repeat(indentUnit, b.Level-min)
		switch b.Type {
		case model.BlockTypeFence:
			for j, line := range strings.Split(b.Content, "\n") {
				if j > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(indent)
				sb.WriteString(line)
			}
		default:
			sb.WriteString(indent)
			sb.WriteString("- ")
			sb.WriteString(b.Content)
		}
	}
	return sb.String()
}
