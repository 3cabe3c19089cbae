package dexnote

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/dexnote-client/internal/app"
	"github.com/sandeepkv93/dexnote-client/internal/service"
)

func newDoctorCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, token storage and backend reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, "dexnote doctor", diagnose)
		},
	}
}

func diagnose(ctx context.Context, a *app.App) ([]string, error) {
	details := []string{
		"api_url=" + a.API.BaseURL(),
		"profile=" + a.Config.Profile,
	}

	token := "present"
	if _, err := a.Tokens.Load(ctx); err != nil {
		token = "absent"
		if !errors.Is(err, service.ErrTokenNotFound) {
			return append(details, "token_store="+a.Tokens.Backend()+" unreadable"), fmt.Errorf("token store: %w", err)
		}
	}
	details = append(details, fmt.Sprintf("token_store=%s token=%s", a.Tokens.Backend(), token))

	courses, err := a.API.ListCourses(ctx)
	if err != nil {
		return append(details, "backend=unreachable"), fmt.Errorf("backend: %w", err)
	}
	details = append(details, fmt.Sprintf("backend=ok courses=%d", len(courses)))

	s := a.Sessions.Resolve(ctx)
	details = append(details, "session="+string(s.Status))
	return details, nil
}
