package dexnote

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/dexnote-client/internal/api"
	"github.com/sandeepkv93/dexnote-client/internal/app"
	"github.com/sandeepkv93/dexnote-client/internal/service"
)

func newEnrollCommand(opts *options) *cobra.Command {
	var acceptTerms bool
	cmd := &cobra.Command{
		Use:   "enroll COURSE_ID",
		Short: "Enroll in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote enroll", func(ctx context.Context, a *app.App) ([]string, error) {
				a.Sessions.Resolve(ctx)
				e, err := a.Learning.Enroll(ctx, args[0], acceptTerms)
				if err != nil {
					return nil, backendError(err, "Failed to enroll")
				}
				return []string{"course=" + e.CourseID, "enrolled_at=" + e.EnrolledAt.Format("2006-01-02")}, nil
			})
		},
	}
	cmd.Flags().BoolVar(&acceptTerms, "accept-terms", false, "accept the course terms and conditions")
	return cmd
}

func newProgressCommand(opts *options) *cobra.Command {
	var done bool
	cmd := &cobra.Command{
		Use:   "progress COURSE_ID MODULE_ID",
		Short: "Mark a module as completed or not",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote progress", func(ctx context.Context, a *app.App) ([]string, error) {
				a.Sessions.Resolve(ctx)
				if err := a.Learning.MarkModule(ctx, args[0], args[1], done); err != nil {
					return nil, backendError(err, "Failed to update progress")
				}
				state := "pending"
				if done {
					state = "completed"
				}
				return []string{"course=" + args[0], "module=" + args[1], "state=" + state}, nil
			})
		},
	}
	cmd.Flags().BoolVar(&done, "done", true, "completed state to record")
	return cmd
}

func newSolveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "solve EXPRESSION...",
		Short: "Ask the AI math solver",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote solve", func(ctx context.Context, a *app.App) ([]string, error) {
				a.Sessions.Resolve(ctx)
				solution, err := a.Learning.SolveMath(ctx, strings.Join(args, " "))
				if err != nil {
					return nil, backendError(err, "Solver unavailable")
				}
				return strings.Split(strings.TrimRight(solution, "\n"), "\n"), nil
			})
		},
	}
}

func backendError(err error, fallback string) error {
	if errors.Is(err, service.ErrNotAuthenticated) || errors.Is(err, service.ErrMissingField) {
		return err
	}
	return errors.New(api.DetailOr(err, fallback))
}
