package cli

import (
	"outline-cli/internal/mutate"
	"outline-cli/internal/outline"

	"github.com/spf13/cobra"
)

// structuralCmd builds the shape shared by indent/outdent/move/collapse:
// resolve the block's tree, gate on eligibility, apply, persist, emit.
func structuralCmd(app *App, use, short, op string, can func(*outline.Tree, string) bool, act func(id string) mutate.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <block-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, docID, err := blockTree(db, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !can(t, args[0]) {
				return writeErr(cmd, errIneligible(op, args[0]))
			}
			res := mutate.Apply(t, act(args[0]))
			if res.Changed {
				if err := saveTree(s, db, docID, res.Tree); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent("block."+op, args[0], nil)
			}
			b, _ := db.FindBlock(args[0])
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
}

func newBlocksIndentCmd(app *App) *cobra.Command {
	return structuralCmd(app, "indent", "Make a block a child of its previous sibling", "indent",
		mutate.CanIndent, func(id string) mutate.Action { return mutate.Indent{ID: id} })
}

func newBlocksOutdentCmd(app *App) *cobra.Command {
	return structuralCmd(app, "outdent", "Lift a block one level", "outdent",
		mutate.CanOutdent, func(id string) mutate.Action { return mutate.Outdent{ID: id} })
}

func newBlocksMoveUpCmd(app *App) *cobra.Command {
	return structuralCmd(app, "move-up", "Swap a block (with its subtree) with its previous sibling", "move-up",
		mutate.CanMoveUp, func(id string) mutate.Action { return mutate.MoveUp{ID: id} })
}

func newBlocksMoveDownCmd(app *App) *cobra.Command {
	return structuralCmd(app, "move-down", "Swap a block (with its subtree) with its next sibling", "move-down",
		mutate.CanMoveDown, func(id string) mutate.Action { return mutate.MoveDown{ID: id} })
}

func newBlocksCollapseCmd(app *App) *cobra.Command {
	return structuralCmd(app, "collapse", "Toggle whether a block hides its children", "collapse",
		mutate.CanCollapse, func(id string) mutate.Action { return mutate.ToggleCollapse{ID: id} })
}
