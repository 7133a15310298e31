package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kevinnayar/mmftostrava/pkg/infrastructure/oauth"
)

type syncOptions struct {
	Token  string
	DryRun bool
}

// NewSyncCommand creates the sync command: one pass with an existing access token.
func NewSyncCommand(root *RootOptions) *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload the records file to Strava once",
		Long:  "Runs a single sync pass using an access token you already have. Use serve to obtain one through the OAuth flow.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Token, "token", "", "Strava access token (default $STRAVA_ACCESS_TOKEN)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "log uploads instead of sending them; id-set files are not modified")

	return cmd
}

func runSync(cmd *cobra.Command, root *RootOptions, opts *syncOptions) error {
	token := opts.Token
	if token == "" {
		token = os.Getenv("STRAVA_ACCESS_TOKEN")
	}
	if token == "" && opts.DryRun {
		token = "dry-run"
	}
	if token == "" {
		return errors.New("an access token is required (--token or STRAVA_ACCESS_TOKEN)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := loadService(ctx, cmd, root, false)
	if err != nil {
		return err
	}
	defer svc.Close()

	runner, err := newRunner(svc, oauth.NewStaticTokenSource(token), opts.DryRun)
	if err != nil {
		return err
	}

	out := runner.RunOnce(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d, skipped %d, errored %d\n", out.Synced, out.Skipped, out.Errored)
	if out.Failed() {
		return fmt.Errorf("sync failed: %s", out.Error)
	}
	return nil
}
