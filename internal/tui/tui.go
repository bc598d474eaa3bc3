package tui

import (
	"os"

	"outline-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func Run(dir string, db *store.DB) error {
	// NO_COLOR/OUTLINE_NO_COLOR force a plain profile before any styles are
	// built, so the whole session renders without escapes.
	if os.Getenv("NO_COLOR") != "" || os.Getenv("OUTLINE_NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	m := newAppModel(dir, db)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
