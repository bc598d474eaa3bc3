package tui

import (
	"fmt"
	"strings"
	"time"

	"outline-cli/internal/model"
	"outline-cli/internal/outline"
	"outline-cli/internal/session"
	"outline-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type view int

const (
	viewDocuments view = iota
	viewEditor
)

// clearMergeMsg ends the short merge-pair highlight.
type clearMergeMsg struct{}

type appModel struct {
	dir   string
	store store.Store
	db    *store.DB

	width  int
	height int

	view view

	docsList list.Model

	// Naming prompt state (new/rename document).
	naming       bool
	renameDocID  string // empty while creating
	nameInput    textinput.Model
	pendingDelID string

	// Open document state.
	docID       string
	tree        *outline.Tree
	sess        *session.Session
	drafts      *store.DraftBuffer
	input       textarea.Model
	showPreview bool

	status string
}

type docItem struct {
	doc    model.Document
	blocks int
}

func (d docItem) Title() string { return d.doc.Name }
func (d docItem) Description() string {
	return fmt.Sprintf("%d blocks", d.blocks)
}
func (d docItem) FilterValue() string { return d.doc.Name }

func newAppModel(dir string, db *store.DB) appModel {
	applyGlyphPreference()

	s := store.Store{Dir: dir}
	m := appModel{
		dir:    dir,
		store:  s,
		db:     db,
		view:   viewDocuments,
		sess:   session.New(),
		drafts: store.NewDraftBuffer(),
	}

	m.docsList = newList("Documents")
	m.nameInput = textinput.New()
	m.nameInput.Placeholder = "Document name"
	m.nameInput.CharLimit = 120

	m.input = textarea.New()
	m.input.Prompt = ""
	m.input.ShowLineNumbers = false
	m.input.CharLimit = 0

	m.refreshDocs()

	// Restore the last open document, best effort.
	if st, err := s.LoadTUIState(); err == nil && st != nil {
		m.showPreview = st.ShowPreview
		if st.OpenDocumentID != "" {
			if _, ok := db.FindDocument(st.OpenDocumentID); ok {
				m.openDocument(st.OpenDocumentID)
				if st.FocusedBlockID != "" && m.tree.IndexOf(st.FocusedBlockID) >= 0 {
					m.sess.SetFocus(st.FocusedBlockID)
					m.syncInput()
				}
			}
		}
	}
	return m
}

func newList(title string) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case clearMergeMsg:
		m.sess.ClearMerge()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewEditor {
			return m.updateEditor(msg)
		}
		return m.updateDocuments(msg)
	}

	if m.view == viewDocuments && !m.naming {
		var cmd tea.Cmd
		m.docsList, cmd = m.docsList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) resize() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.docsList.SetSize(w, h)
	m.input.SetWidth(m.editorTextWidth())
}

func (m appModel) updateDocuments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.naming {
		switch msg.String() {
		case "esc":
			m.naming = false
			m.renameDocID = ""
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			m.naming = false
			if name == "" {
				return m, nil
			}
			if m.renameDocID != "" {
				if d, ok := m.db.FindDocument(m.renameDocID); ok {
					d.Name = name
					_ = m.store.Save(m.db)
					_ = m.store.AppendEvent("doc.rename", d.ID, map[string]any{"name": name})
				}
				m.renameDocID = ""
			} else {
				d := model.Document{
					ID:        m.store.NextID(m.db, "doc"),
					Name:      name,
					CreatedAt: time.Now().UTC(),
				}
				m.db.Documents = append(m.db.Documents, d)
				_ = m.store.Save(m.db)
				_ = m.store.AppendEvent("doc.create", d.ID, map[string]any{"name": name})
			}
			m.refreshDocs()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.saveUIState()
		return m, tea.Quit
	case "n":
		m.naming = true
		m.renameDocID = ""
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return m, nil
	case "r":
		if it, ok := m.docsList.SelectedItem().(docItem); ok {
			m.naming = true
			m.renameDocID = it.doc.ID
			m.nameInput.SetValue(it.doc.Name)
			m.nameInput.Focus()
		}
		return m, nil
	case "x":
		it, ok := m.docsList.SelectedItem().(docItem)
		if !ok {
			return m, nil
		}
		// Deleting a document cascades to all its blocks; ask for a second x.
		if m.pendingDelID != it.doc.ID {
			m.pendingDelID = it.doc.ID
			m.status = fmt.Sprintf("press x again to delete %q", it.doc.Name)
			return m, nil
		}
		m.pendingDelID = ""
		m.db.RemoveDocument(it.doc.ID)
		_ = m.store.Save(m.db)
		_ = m.store.AppendEvent("doc.delete", it.doc.ID, nil)
		m.status = fmt.Sprintf("deleted %q", it.doc.Name)
		m.refreshDocs()
		return m, nil
	case "enter":
		if it, ok := m.docsList.SelectedItem().(docItem); ok {
			m.openDocument(it.doc.ID)
		}
		return m, nil
	}

	m.pendingDelID = ""
	var cmd tea.Cmd
	m.docsList, cmd = m.docsList.Update(msg)
	return m, cmd
}

func (m *appModel) refreshDocs() {
	curID := ""
	if it, ok := m.docsList.SelectedItem().(docItem); ok {
		curID = it.doc.ID
	}
	counts := map[string]int{}
	for _, b := range m.db.Blocks {
		counts[b.DocumentID]++
	}
	var items []list.Item
	for _, d := range m.db.Documents {
		items = append(items, docItem{doc: d, blocks: counts[d.ID]})
	}
	m.docsList.SetItems(items)
	if curID != "" {
		for i, it := range m.docsList.Items() {
			if di, ok := it.(docItem); ok && di.doc.ID == curID {
				m.docsList.Select(i)
				break
			}
		}
	}
}

// openDocument builds the tree, resets per-document state and focuses the
// first block.
func (m *appModel) openDocument(docID string) {
	m.docID = docID
	m.tree = outline.Build(m.db.DocumentBlocks(docID))
	m.sess.Reset()
	m.drafts = store.NewDraftBuffer()
	m.view = viewEditor
	m.status = ""
	if m.tree.Len() > 0 {
		m.sess.SetFocus(m.tree.At(0).ID)
	}
	m.syncInput()
	m.saveUIState()
}

// closeDocument flushes drafts, persists and returns to the document list.
func (m *appModel) closeDocument() {
	m.flushDrafts()
	m.view = viewDocuments
	m.docID = ""
	m.tree = nil
	m.sess.Reset()
	m.refreshDocs()
	m.saveUIState()
}

func (m *appModel) saveUIState() {
	st := &store.TUIState{
		Version:        1,
		OpenDocumentID: m.docID,
		ShowPreview:    m.showPreview,
	}
	if m.sess != nil {
		st.FocusedBlockID = m.sess.FocusedID()
	}
	_ = m.store.SaveTUIState(st)
}
