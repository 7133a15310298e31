package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kevinnayar/mmftostrava/pkg/infrastructure/oauth"
	"github.com/kevinnayar/mmftostrava/pkg/server"
)

// NewServeCommand creates the serve command: OAuth endpoints plus the sync runner.
func NewServeCommand(root *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the OAuth server and sync runner",
		Long:  "Serves /strava/auth; completing the authorization queues a sync pass. Runs until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (default $PORT or 8080)")

	return cmd
}

func runServe(cmd *cobra.Command, root *RootOptions, port string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := loadService(ctx, cmd, root, true)
	if err != nil {
		return err
	}
	defer svc.Close()

	cfg := svc.Config
	if port == "" {
		port = cfg.Port
	}

	provider := oauth.NewProvider(oauth.ProviderConfig{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  cfg.Strava.RedirectURI,
	}, nil)
	credentials := oauth.NewCredentialStore(provider.Refresh)

	runner, err := newRunner(svc, credentials, false)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:        port,
		Auth:        provider,
		Credentials: credentials,
		Syncer:      runner,
		Logger:      svc.Logger,
	})

	svc.Logger.Info("Visit /strava/auth to authorize", "port", port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return runner.Run(gctx) })
	return g.Wait()
}
