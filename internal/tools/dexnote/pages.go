package dexnote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/dexnote-client/internal/app"
	"github.com/sandeepkv93/dexnote-client/internal/guard"
	"github.com/sandeepkv93/dexnote-client/internal/tools/ui"
	"github.com/sandeepkv93/dexnote-client/internal/view"
)

func newOpenCommand(opts *options) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "open [path]",
		Short: "Render a page after the route guard has decided",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := guard.LandingPath
			if len(args) == 1 {
				path = args[0]
			}
			var page string
			err := run(cmd, opts, "dexnote open", func(ctx context.Context, a *app.App) ([]string, error) {
				a.Sessions.Resolve(ctx)
				res, err := a.Navigator.Open(ctx, path)
				if err != nil {
					return nil, err
				}
				details := []string{
					"path=" + res.Decision.Path,
					"action=" + string(res.Decision.Action),
					"session=" + string(res.Session.Status),
				}
				if res.Redirected() {
					details = append(details, "redirected_from="+res.Requested)
				}
				page, err = a.Pages.Render(ctx, res, view.Options{Category: category})
				if err != nil {
					return details, err
				}
				if opts.ci {
					details = append(details, strings.Split(strings.TrimRight(page, "\n"), "\n")...)
				}
				return details, nil
			})
			if err == nil && !opts.ci {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), page)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "course category filter for /courses")
	return cmd
}

func newShellCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [path]",
		Short: "Interactive client",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ci {
				return report(cmd, opts, "dexnote shell", nil, errors.New("shell needs an interactive terminal"))
			}
			a, closeApp, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer closeApp()
			start := guard.LandingPath
			if len(args) == 1 {
				start = args[0]
			}
			m := ui.NewShell(cmd.Context(), a.Sessions, a.Navigator, a.Pages, start)
			return ui.RunShell(cmd.Context(), m)
		},
	}
}
