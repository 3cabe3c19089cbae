package dexnote

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/dexnote-client/internal/app"
)

func newNotesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "notes", Short: "Study notes kept in the local database"}
	cmd.AddCommand(newNotesAddCommand(opts), newNotesListCommand(opts), newNotesShowCommand(opts), newNotesDeleteCommand(opts))
	return cmd
}

func newNotesAddCommand(opts *options) *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a note (content \"-\" reads stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if content == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read note content: %w", err)
				}
				content = string(b)
			}
			return run(cmd, opts, "dexnote notes add", func(ctx context.Context, a *app.App) ([]string, error) {
				a.Sessions.Resolve(ctx)
				n, err := a.Notes.Add(ctx, title, content)
				if err != nil {
					return nil, err
				}
				return []string{"id=" + n.ID, "title=" + n.Title}, nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note body")
	return cmd
}

func newNotesListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote notes list", func(ctx context.Context, a *app.App) ([]string, error) {
				a.Sessions.Resolve(ctx)
				notes, err := a.Notes.List(ctx)
				if err != nil {
					return nil, err
				}
				details := make([]string, 0, len(notes))
				for _, n := range notes {
					details = append(details, n.ID+"  "+n.Title)
				}
				return details, nil
			})
		},
	}
}

func newNotesShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote notes show", func(ctx context.Context, a *app.App) ([]string, error) {
				a.Sessions.Resolve(ctx)
				n, err := a.Notes.Get(ctx, args[0])
				if err != nil {
					return nil, err
				}
				details := []string{"title=" + n.Title}
				if body := strings.TrimRight(n.Content, "\n"); body != "" {
					details = append(details, strings.Split(body, "\n")...)
				}
				return details, nil
			})
		},
	}
}

func newNotesDeleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote notes delete", func(ctx context.Context, a *app.App) ([]string, error) {
				a.Sessions.Resolve(ctx)
				if err := a.Notes.Delete(ctx, args[0]); err != nil {
					return nil, err
				}
				return []string{"deleted=" + args[0]}, nil
			})
		},
	}
}
