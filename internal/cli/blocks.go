package cli

import (
	"errors"
	"time"

	"outline-cli/internal/model"
	"outline-cli/internal/mutate"
	"outline-cli/internal/outline"
	"outline-cli/internal/store"

	"github.com/spf13/cobra"
)

func newBlocksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Manage blocks",
	}
	cmd.AddCommand(newBlocksAddCmd(app))
	cmd.AddCommand(newBlocksUpdateCmd(app))
	cmd.AddCommand(newBlocksListCmd(app))
	cmd.AddCommand(newBlocksDeleteCmd(app))
	cmd.AddCommand(newBlocksSetTypeCmd(app))
	cmd.AddCommand(newBlocksSplitCmd(app))
	cmd.AddCommand(newBlocksMergeCmd(app))
	cmd.AddCommand(newBlocksDuplicateCmd(app))
	cmd.AddCommand(newBlocksIndentCmd(app))
	cmd.AddCommand(newBlocksOutdentCmd(app))
	cmd.AddCommand(newBlocksMoveUpCmd(app))
	cmd.AddCommand(newBlocksMoveDownCmd(app))
	cmd.AddCommand(newBlocksCollapseCmd(app))
	return cmd
}

// blockTree resolves a block id to its document's tree.
func blockTree(db *store.DB, id string) (*outline.Tree, string, error) {
	b, ok := db.FindBlock(id)
	if !ok {
		return nil, "", errNotFound("block", id)
	}
	return outline.Build(db.DocumentBlocks(b.DocumentID)), b.DocumentID, nil
}

// saveTree writes the mutated tree back to the document and persists,
// stamping UpdatedAt on every row of the new sequence.
func saveTree(s store.Store, db *store.DB, docID string, t *outline.Tree) error {
	rows := t.Rows()
	now := time.Now().UTC()
	for i := range rows {
		rows[i].UpdatedAt = now
	}
	db.ReplaceDocumentBlocks(docID, rows)
	return s.Save(db)
}

func newBlocksAddCmd(app *App) *cobra.Command {
	var (
		docID   string
		afterID string
		content string
		typ     string
		level   int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a block (after --after's subtree, or at the end of --doc)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			bt := model.BlockType(typ)
			if !bt.Valid() {
				return writeErr(cmd, errors.New("invalid --type (bullet|code|fence)"))
			}

			var t *outline.Tree
			switch {
			case afterID != "":
				t, docID, err = blockTree(db, afterID)
				if err != nil {
					return writeErr(cmd, err)
				}
			case docID != "":
				if _, ok := db.FindDocument(docID); !ok {
					return writeErr(cmd, errNotFound("document", docID))
				}
				t = outline.Build(db.DocumentBlocks(docID))
			default:
				return writeErr(cmd, errors.New("need --after or --doc"))
			}

			add := mutate.Add{
				AfterID:    afterID,
				Content:    content,
				Type:       bt,
				DocumentID: docID,
				NewID:      s.NextID(db, "blk"),
			}
			if cmd.Flags().Changed("level") {
				add.Level = &level
			}
			res := mutate.Apply(t, add)
			if !res.Changed {
				return writeErr(cmd, errIneligible("add", afterID))
			}
			if err := saveTree(s, db, docID, res.Tree); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("block.add", res.NewID, map[string]any{"doc": docID, "after": afterID})
			b, _ := db.FindBlock(res.NewID)
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
	cmd.Flags().StringVar(&docID, "doc", "", "Document to append to")
	cmd.Flags().StringVar(&afterID, "after", "", "Block to insert after")
	cmd.Flags().StringVar(&content, "content", "", "Block content")
	cmd.Flags().StringVar(&typ, "type", string(model.BlockTypeBullet), "Block type (bullet|code|fence)")
	cmd.Flags().IntVar(&level, "level", 0, "Requested depth (clamped to a legal depth on rebuild)")
	return cmd
}

func newBlocksUpdateCmd(app *App) *cobra.Command {
	var content string
	cmd := &cobra.Command{
		Use:   "update <block-id>",
		Short: "Replace a block's content",
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
			res := mutate.Apply(t, mutate.UpdateContent{ID: args[0], Content: content})
			if res.Changed {
				if err := saveTree(s, db, docID, res.Tree); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent("block.update", args[0], nil)
			}
			b, _ := db.FindBlock(args[0])
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "New content")
	return cmd
}

type blockRow struct {
	model.Block
	CanIndent   *bool `json:"canIndent,omitempty"`
	CanOutdent  *bool `json:"canOutdent,omitempty"`
	CanCollapse *bool `json:"canCollapse,omitempty"`
	CanMergeUp  *bool `json:"canMergeUp,omitempty"`
	CanMoveUp   *bool `json:"canMoveUp,omitempty"`
	CanMoveDown *bool `json:"canMoveDown,omitempty"`
}

func newBlocksListCmd(app *App) *cobra.Command {
	var (
		docID       string
		eligibility bool
		visibleOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a document's blocks in document order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindDocument(docID); !ok {
				return writeErr(cmd, errNotFound("document", docID))
			}
			t := outline.Build(db.DocumentBlocks(docID))
			rows := t.Rows()
			if visibleOnly {
				rows = t.Visible()
			}
			out := make([]blockRow, 0, len(rows))
			for _, b := range rows {
				r := blockRow{Block: b}
				if eligibility {
					r.CanIndent = boolp(mutate.CanIndent(t, b.ID))
					r.CanOutdent = boolp(mutate.CanOutdent(t, b.ID))
					r.CanCollapse = boolp(mutate.CanCollapse(t, b.ID))
					r.CanMergeUp = boolp(mutate.CanMergePrev(t, b.ID))
					r.CanMoveUp = boolp(mutate.CanMoveUp(t, b.ID))
					r.CanMoveDown = boolp(mutate.CanMoveDown(t, b.ID))
				}
				out = append(out, r)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	cmd.Flags().StringVar(&docID, "doc", "", "Document id")
	cmd.Flags().BoolVar(&eligibility, "eligibility", false, "Include per-block operation eligibility")
	cmd.Flags().BoolVar(&visibleOnly, "visible", false, "Hide blocks inside collapsed subtrees")
	_ = cmd.MarkFlagRequired("doc")
	return cmd
}

func boolp(b bool) *bool { return &b }

func newBlocksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <block-id>",
		Short: "Delete a block and its subtree",
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
			res := mutate.Apply(t, mutate.Delete{ID: args[0]})
			if err := saveTree(s, db, docID, res.Tree); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("block.delete", args[0], nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

func newBlocksSetTypeCmd(app *App) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "set-type <block-id>",
		Short: "Change a block's content type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			bt := model.BlockType(typ)
			if !bt.Valid() {
				return writeErr(cmd, errors.New("invalid --type (bullet|code|fence)"))
			}
			t, docID, err := blockTree(db, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res := mutate.Apply(t, mutate.SetType{ID: args[0], Type: bt})
			if res.Changed {
				if err := saveTree(s, db, docID, res.Tree); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.AppendEvent("block.set-type", args[0], map[string]any{"type": string(bt)})
			}
			b, _ := db.FindBlock(args[0])
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "New type (bullet|code|fence)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newBlocksSplitCmd(app *App) *cobra.Command {
	var offset int
	cmd := &cobra.Command{
		Use:   "split <block-id>",
		Short: "Split a block's content at a rune offset into a new sibling",
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
			if b, ok := t.Find(args[0]); ok && !b.Type.Splittable() {
				return writeErr(cmd, errIneligible("split", args[0]))
			}
			res := mutate.Apply(t, mutate.SplitAtOffset{
				ID:     args[0],
				Offset: offset,
				NewID:  s.NextID(db, "blk"),
			})
			if !res.Changed {
				return writeErr(cmd, errIneligible("split", args[0]))
			}
			if err := saveTree(s, db, docID, res.Tree); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("block.split", args[0], map[string]any{"offset": offset, "new": res.NewID})
			b, _ := db.FindBlock(res.NewID)
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Rune offset to split at (clamped to content length)")
	return cmd
}

func newBlocksMergeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <block-id>",
		Short: "Merge a block into the block above it",
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
			if !mutate.CanMergePrev(t, args[0]) {
				return writeErr(cmd, errIneligible("merge", args[0]))
			}
			res := mutate.Apply(t, mutate.MergeWithPrevious{ID: args[0]})
			if !res.Changed {
				return writeErr(cmd, errIneligible("merge", args[0]))
			}
			if err := saveTree(s, db, docID, res.Tree); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("block.merge", args[0], map[string]any{"into": res.MergedInto})
			b, _ := db.FindBlock(res.MergedInto)
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
}

func newBlocksDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <block-id>",
		Short: "Insert a shallow copy of a block after it",
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
			src, _ := t.Find(args[0])
			level := src.Level
			res := mutate.Apply(t, mutate.Add{
				AfterID: args[0],
				Level:   &level,
				Content: src.Content,
				Type:    src.Type,
				NewID:   s.NextID(db, "blk"),
			})
			if !res.Changed {
				return writeErr(cmd, errIneligible("duplicate", args[0]))
			}
			if err := saveTree(s, db, docID, res.Tree); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("block.duplicate", args[0], map[string]any{"new": res.NewID})
			b, _ := db.FindBlock(res.NewID)
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
}
