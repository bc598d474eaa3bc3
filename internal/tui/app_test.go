package tui

import (
	"testing"

	"outline-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func docsModel(t *testing.T) appModel {
	t.Helper()
	dir := t.TempDir()
	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	m := newAppModel(dir, db)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return mm.(appModel)
}

func TestCreateDocumentFromPrompt(t *testing.T) {
	m := docsModel(t)
	if m.view != viewDocuments {
		t.Fatalf("expected documents view; got %v", m.view)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if !m.naming {
		t.Fatal("expected naming prompt")
	}
	m = typeRunes(t, m, "Plans")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.naming {
		t.Fatal("expected prompt closed")
	}
	if len(m.db.Documents) != 1 || m.db.Documents[0].Name != "Plans" {
		t.Fatalf("expected created document; got %#v", m.db.Documents)
	}

	// Persisted.
	db, err := m.store.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(db.Documents) != 1 {
		t.Fatalf("expected persisted document; got %#v", db.Documents)
	}
}

func TestDeleteDocumentNeedsConfirmation(t *testing.T) {
	m := docsModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = typeRunes(t, m, "Scratch")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if len(m.db.Documents) != 1 {
		t.Fatal("first x must only arm the confirmation")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if len(m.db.Documents) != 0 {
		t.Fatalf("expected document deleted; got %#v", m.db.Documents)
	}
}

func TestFirstBlockInEmptyDocument(t *testing.T) {
	m := docsModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = typeRunes(t, m, "Empty")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // open

	if m.view != viewEditor {
		t.Fatalf("expected editor; got %v", m.view)
	}
	if m.tree.Len() != 0 {
		t.Fatalf("expected empty tree; got %d", m.tree.Len())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.tree.Len() != 1 {
		t.Fatalf("expected one block; got %d", m.tree.Len())
	}
	if m.sess.FocusedID() == "" {
		t.Fatal("expected the new block focused")
	}

	m = typeRunes(t, m, "first")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	b := m.tree.At(0)
	if b.Content != "first" {
		t.Fatalf("expected typed content; got %q", b.Content)
	}
	if b.DocumentID == "" {
		t.Fatal("expected block bound to the document")
	}
}

func TestEscClearsSelectionBeforeLeaving(t *testing.T) {
	m := testModel(t)
	m.sess.ToggleSelect("a")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.sess.HasSelection() {
		t.Fatal("expected selection cleared")
	}
	if m.view != viewEditor {
		t.Fatal("first esc must stay in the editor")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewDocuments {
		t.Fatal("second esc must leave the editor")
	}
}
