package cli

import (
	"errors"
	"strings"
	"time"

	"outline-cli/internal/model"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage documents",
	}
	cmd.AddCommand(newDocsCreateCmd(app))
	cmd.AddCommand(newDocsListCmd(app))
	cmd.AddCommand(newDocsRenameCmd(app))
	cmd.AddCommand(newDocsDeleteCmd(app))
	return cmd
}

func newDocsCreateCmd(app *App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(name) == "" {
				return writeErr(cmd, errors.New("missing --name"))
			}
			d := model.Document{
				ID:        s.NextID(db, "doc"),
				Name:      strings.TrimSpace(name),
				CreatedAt: time.Now().UTC(),
			}
			db.Documents = append(db.Documents, d)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("doc.create", d.ID, map[string]any{"name": d.Name})
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Document name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newDocsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			docs := db.Documents
			if docs == nil {
				docs = []model.Document{}
			}
			return writeOut(cmd, app, map[string]any{"data": docs})
		},
	}
}

func newDocsRenameCmd(app *App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "rename <doc-id>",
		Short: "Rename a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, ok := db.FindDocument(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("document", args[0]))
			}
			if strings.TrimSpace(name) == "" {
				return writeErr(cmd, errors.New("missing --name"))
			}
			d.Name = strings.TrimSpace(name)
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("doc.rename", d.ID, map[string]any{"name": d.Name})
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New document name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newDocsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <doc-id>",
		Short: "Delete a document and all of its blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := db.FindDocument(args[0]); !ok {
				return writeErr(cmd, errNotFound("document", args[0]))
			}
			db.RemoveDocument(args[0])
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.AppendEvent("doc.delete", args[0], nil)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}
