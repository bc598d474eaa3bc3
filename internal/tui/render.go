package tui

import (
	"fmt"
	"strings"

	"outline-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	if m.view == viewEditor {
		return m.viewEditor()
	}
	return m.viewDocuments()
}

func (m appModel) viewDocuments() string {
	header := styleHeader().Render(fmt.Sprintf("Outline  Dir=%s", m.dir))

	var body string
	if m.naming {
		label := "New document"
		if m.renameDocID != "" {
			label = "Rename document"
		}
		body = label + "\n\n" + m.nameInput.View() + "\n\n" + styleMuted().Render("enter: confirm  esc: cancel")
	} else {
		body = m.docsList.View()
	}

	footer := styleMuted().Render("enter: open  n: new  r: rename  x: delete  q: quit")
	if m.status != "" {
		footer += "\n" + styleMuted().Render(m.status)
	}
	return strings.Join([]string{header, body, footer}, "\n\n")
}

func (m appModel) viewEditor() string {
	docName := ""
	if d, ok := m.db.FindDocument(m.docID); ok {
		docName = d.Name
	}
	header := styleHeader().Render(fmt.Sprintf("%s  (%d blocks)", docName, m.tree.Len()))

	bodyHeight := m.height - 6
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	outlinePane := m.renderOutline(bodyHeight)

	var body string
	if m.showPreview {
		previewWidth := m.width - m.width/2 - 2
		if previewWidth < 30 {
			previewWidth = 30
		}
		preview := renderMarkdown(previewMarkdown(m.tree.Rows()), previewWidth)
		preview = lipgloss.NewStyle().Width(previewWidth).MaxHeight(bodyHeight).Render(preview)
		body = lipgloss.JoinHorizontal(lipgloss.Top, outlinePane, "  ", preview)
	} else {
		body = outlinePane
	}

	footer := styleMuted().Render("tab/shift+tab: indent  alt+↑/↓: move  ctrl+n: new  ctrl+x: delete  ctrl+t: collapse  ctrl+b: select  ctrl+y: copy  ctrl+p: preview  esc: back")
	if m.status != "" {
		footer += "\n" + styleMuted().Render(m.status)
	}
	return strings.Join([]string{header, body, footer}, "\n\n")
}

// previewMarkdown renders the document as a markdown nested list; fence
// blocks become fenced code.
func previewMarkdown(rows []model.Block) string {
	var sb strings.Builder
	for _, b := range rows {
		indent := strings.Repeat("  ", b.Level)
		switch b.Type {
		case model.BlockTypeFence:
			sb.WriteString(indent + "```\n")
			for _, line := range strings.Split(b.Content, "\n") {
				sb.WriteString(indent + line + "\n")
			}
			sb.WriteString(indent + "```\n")
		case model.BlockTypeCode:
			sb.WriteString(indent + "- `" + b.Content + "`\n")
		default:
			sb.WriteString(indent + "- " + b.Content + "\n")
		}
	}
	return sb.String()
}

func (m appModel) renderOutline(bodyHeight int) string {
	visible := m.tree.Visible()
	if len(visible) == 0 {
		return styleMuted().Render("empty document; ctrl+n adds a block")
	}

	focused := m.sess.FocusedID()
	focusedIdx := 0
	for i, b := range visible {
		if b.ID == focused {
			focusedIdx = i
			break
		}
	}

	start := 0
	if len(visible) > bodyHeight {
		start = focusedIdx - bodyHeight/2
		if start < 0 {
			start = 0
		}
		if start > len(visible)-bodyHeight {
			start = len(visible) - bodyHeight
		}
	}
	end := start + bodyHeight
	if end > len(visible) {
		end = len(visible)
	}

	mergingID, mergingTarget := m.sess.MergingPair()

	width := m.editorTextWidth()
	var lines []string
	for _, b := range visible[start:end] {
		indent := strings.Repeat("  ", b.Level)

		glyph := glyphBullet()
		if m.tree.HasChildren(b.ID) {
			if b.Collapsed {
				glyph = glyphTwistyCollapsed()
			} else {
				glyph = glyphTwistyExpanded()
			}
		}

		marker := "  "
		if m.sess.IsSelected(b.ID) {
			marker = glyphSelected() + " "
		}

		if b.ID == focused && m.input.Focused() {
			prefix := indent + styleFocusedMarker().Render(glyph) + " "
			lines = append(lines, marker+prefix+strings.ReplaceAll(m.input.View(), "\n", "\n"+marker+indent+"  "))
			continue
		}

		content := b.Content
		if draft, ok := m.drafts.Pending(b.ID); ok {
			content = draft
		}
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			content = content[:i] + " …"
		}
		content = ansi.Truncate(content, width, "…")

		line := marker + indent + glyph + " " + content
		switch {
		case b.ID == mergingID || b.ID == mergingTarget:
			line = styleMergingRow().Render(line)
		case m.sess.IsSelected(b.ID):
			line = styleSelectedRow().Render(line)
		case b.Type != model.BlockTypeBullet:
			line = marker + indent + glyph + " " + styleCode().Render(content)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
