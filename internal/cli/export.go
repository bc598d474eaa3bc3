package cli

import (
	"errors"

	"outline-cli/internal/export"
	"outline-cli/internal/model"
	"outline-cli/internal/outline"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		docID   string
		blockID string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a document or subtree as indented text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var rows []model.Block
			switch {
			case blockID != "":
				t, _, err := blockTree(db, blockID)
				if err != nil {
					return writeErr(cmd, err)
				}
				i := t.IndexOf(blockID)
				all := t.Rows()
				rows = all[i:t.SubtreeEnd(i)]
			case docID != "":
				if _, ok := db.FindDocument(docID); !ok {
					return writeErr(cmd, errNotFound("document", docID))
				}
				rows = outline.Build(db.DocumentBlocks(docID)).Rows()
			default:
				return writeErr(cmd, errors.New("need --doc or --block"))
			}

			text := export.IndentedText(rows)
			if app.Format == "text" {
				return writeOut(cmd, app, text)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"text": text}})
		},
	}
	cmd.Flags().StringVar(&docID, "doc", "", "Document to export")
	cmd.Flags().StringVar(&blockID, "block", "", "Subtree root to export")
	return cmd
}
