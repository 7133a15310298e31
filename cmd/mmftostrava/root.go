package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	shared "github.com/kevinnayar/mmftostrava/pkg"
	"github.com/kevinnayar/mmftostrava/pkg/bootstrap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for the CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "mmftostrava",
		Short:         "Upload MapMyFitness runs to Strava",
		Long:          "Converts a MapMyFitness workout CSV export into Strava activity records and uploads them, remembering which records were synced or failed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// newService is replaced in tests that need a fake blob store.
var newService = bootstrap.NewService

// loadService reads configuration and wires dependencies. Logs go to the
// command's stderr so stdout stays usable for results. locations are
// per-command overrides that may need the storage client.
func loadService(ctx context.Context, cmd *cobra.Command, opts *RootOptions, serve bool, locations ...string) (*bootstrap.Service, error) {
	cfg, err := bootstrap.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if serve {
		if err := cfg.ValidateServe(); err != nil {
			return nil, err
		}
	}
	logger := bootstrap.NewLoggerTo(cmd.ErrOrStderr(), shared.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)
	return newService(ctx, cfg, logger, locations...)
}
