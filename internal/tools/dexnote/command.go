package dexnote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/dexnote-client/internal/app"
	"github.com/sandeepkv93/dexnote-client/internal/config"
	"github.com/sandeepkv93/dexnote-client/internal/di"
	"github.com/sandeepkv93/dexnote-client/internal/observability"
	"github.com/sandeepkv93/dexnote-client/internal/tools/common"
	"github.com/sandeepkv93/dexnote-client/internal/tools/ui"
)

const (
	exitOK      = 0
	exitUsage   = 2
	exitFailure = 4

	ciTimeout = time.Minute
)

type options struct {
	envFile string
	apiURL  string
	ci      bool
}

// ExitError carries the process exit code for a failed command. The failure
// has already been reported when it is returned.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitUsage
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "dexnote",
		Short:        "DexNote learning client",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional env file read before the environment")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "backend base URL (overrides DEXNOTE_API_URL)")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(
		newLoginCommand(opts),
		newSignupCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
		newProfileCommand(opts),
		newOpenCommand(opts),
		newShellCommand(opts),
		newNotesCommand(opts),
		newEnrollCommand(opts),
		newProgressCommand(opts),
		newSolveCommand(opts),
		newDoctorCommand(opts),
	)
	return cmd
}

// openApp loads configuration, starts telemetry and wires the client. The
// returned close func flushes telemetry and releases storage.
func openApp(cmd *cobra.Command, opts *options) (*app.App, func(), error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, nil, err
	}
	if opts.apiURL != "" {
		cfg.APIURL = strings.TrimRight(strings.TrimSpace(opts.apiURL), "/")
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("validate config: %w", err)
		}
	}
	ctx := cmd.Context()
	logger := observability.NewLogger(cfg, cmd.ErrOrStderr())
	rt, err := observability.InitRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	shutdown := func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := rt.Shutdown(sctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}
	a, cleanup, err := di.InitializeApp(ctx, cfg, rt)
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	return a, func() {
		cleanup()
		shutdown()
	}, nil
}

// run executes fn behind the spinner, or directly with a JSON result line in
// --ci mode.
func run(cmd *cobra.Command, opts *options, title string, fn func(context.Context, *app.App) ([]string, error)) error {
	a, closeApp, err := openApp(cmd, opts)
	if err != nil {
		if !opts.ci {
			cmd.PrintErrln(title+":", err)
		}
		return report(cmd, opts, title, nil, err)
	}
	defer closeApp()

	work := func(ctx context.Context) ([]string, error) { return fn(ctx, a) }
	var details []string
	if opts.ci {
		ctx, cancel := context.WithTimeout(cmd.Context(), ciTimeout)
		defer cancel()
		details, err = work(ctx)
	} else {
		details, err = ui.Run(title, work)
	}
	return report(cmd, opts, title, details, err)
}

func report(cmd *cobra.Command, opts *options, title string, details []string, err error) error {
	if opts.ci {
		common.FprintCIResult(cmd.OutOrStdout(), err == nil, title, details, err)
	}
	if err != nil {
		cmd.SilenceErrors = true
		return &ExitError{Code: exitFailure, Err: err}
	}
	return nil
}
