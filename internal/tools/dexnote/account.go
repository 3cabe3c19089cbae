package dexnote

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/dexnote-client/internal/api"
	"github.com/sandeepkv93/dexnote-client/internal/app"
	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/service"
)

func newLoginCommand(opts *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFrom(cmd, password)
			if err != nil {
				return err
			}
			return run(cmd, opts, "dexnote login", func(ctx context.Context, a *app.App) ([]string, error) {
				s, err := a.Accounts.Login(ctx, email, pw)
				if err != nil {
					a.Logger.DebugContext(ctx, "login failed", "error", err)
					return nil, credentialError(err, "Login failed")
				}
				return sessionDetails(s), nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (read from stdin when empty)")
	return cmd
}

func newSignupCommand(opts *options) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordFrom(cmd, password)
			if err != nil {
				return err
			}
			return run(cmd, opts, "dexnote signup", func(ctx context.Context, a *app.App) ([]string, error) {
				s, err := a.Accounts.Signup(ctx, username, email, pw)
				if err != nil {
					a.Logger.DebugContext(ctx, "signup failed", "error", err)
					return nil, credentialError(err, "Signup failed")
				}
				return sessionDetails(s), nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "public username")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (read from stdin when empty)")
	return cmd
}

func newLogoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote logout", func(ctx context.Context, a *app.App) ([]string, error) {
				return sessionDetails(a.Accounts.Logout(ctx)), nil
			})
		},
	}
}

func newWhoamiCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Validate the stored session and show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote whoami", func(ctx context.Context, a *app.App) ([]string, error) {
				s := a.Sessions.Resolve(ctx)
				if !s.Authenticated() {
					return sessionDetails(s), service.ErrNotAuthenticated
				}
				return sessionDetails(s), nil
			})
		},
	}
}

func newProfileCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Manage the signed-in profile"}
	var username, email string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change username or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote profile update", func(ctx context.Context, a *app.App) ([]string, error) {
				a.Sessions.Resolve(ctx)
				u, err := a.Accounts.UpdateProfile(ctx, username, email)
				if err != nil {
					if errors.Is(err, service.ErrNotAuthenticated) || errors.Is(err, service.ErrNoChanges) {
						return nil, err
					}
					return nil, errors.New(api.DetailOr(err, "Failed to update profile"))
				}
				return []string{"user=" + u.Username, "email=" + u.Email}, nil
			})
		},
	}
	update.Flags().StringVar(&username, "username", "", "new username")
	update.Flags().StringVar(&email, "email", "", "new email")
	cmd.AddCommand(update)
	return cmd
}

func credentialError(err error, fallback string) error {
	if errors.Is(err, service.ErrMissingField) {
		return err
	}
	return errors.New(api.DetailOr(err, fallback))
}

func sessionDetails(s domain.Session) []string {
	details := []string{"status=" + string(s.Status)}
	if s.User != nil {
		details = append(details, "user="+s.User.Username, "email="+s.User.Email)
	}
	return details
}

func passwordFrom(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
