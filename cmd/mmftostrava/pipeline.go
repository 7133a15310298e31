package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	mockuploader "github.com/kevinnayar/mmftostrava/functions/mock-uploader"
	stravauploader "github.com/kevinnayar/mmftostrava/functions/strava-uploader"
	"github.com/kevinnayar/mmftostrava/pkg/bootstrap"
	"github.com/kevinnayar/mmftostrava/pkg/destination"
	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
	"github.com/kevinnayar/mmftostrava/pkg/idset"
	"github.com/kevinnayar/mmftostrava/pkg/infrastructure/oauth"
	"github.com/kevinnayar/mmftostrava/pkg/infrastructure/sentry"
	"github.com/kevinnayar/mmftostrava/pkg/integrations/strava"
)

// recordsLoader reads and schema-validates the records file on every pass.
func recordsLoader(svc *bootstrap.Service) stravauploader.RecordsLoader {
	path := svc.Config.OutputPath()
	return func(ctx context.Context) ([]activity.Record, error) {
		data, err := svc.Files.Read(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return activity.UnmarshalRecords(data)
	}
}

// newRunner builds the sync runner around a Strava client authenticated by tokens.
// A dry run logs instead of uploading and keeps its id sets in a scratch
// directory, seeded from the real files.
func newRunner(svc *bootstrap.Service, tokens oauth.TokenSource, dryRun bool) (*stravauploader.Runner, error) {
	synced, err := idset.Load(svc.Config.SynchedIDsPath())
	if err != nil {
		return nil, err
	}
	errored, err := idset.Load(svc.Config.ErroredIDsPath())
	if err != nil {
		return nil, err
	}
	svc.Logger.Info("Loaded id sets", "synced", synced.Len(), "errored", errored.Len())

	var dest destination.Destination
	if dryRun {
		scratch, err := os.MkdirTemp("", "mmftostrava-dry-run-")
		if err != nil {
			return nil, fmt.Errorf("create dry-run directory: %w", err)
		}
		synced = idset.New(filepath.Join(scratch, filepath.Base(synced.Path())), synced.IDs()...)
		errored = idset.New(filepath.Join(scratch, filepath.Base(errored.Path())), errored.IDs()...)
		svc.Logger.Info("Dry run: id sets redirected", "dir", scratch)
		dest = mockuploader.New(svc.Logger)
	} else {
		var opts []strava.Option
		if svc.Config.Strava.APIBaseURL != "" {
			opts = append(opts, strava.WithBaseURL(svc.Config.Strava.APIBaseURL))
		}
		dest = strava.NewClient(oauth.NewHTTPClient(tokens, strava.DefaultTimeout), opts...)
	}

	return stravauploader.NewRunner(stravauploader.RunnerConfig{
		Coordinator: stravauploader.NewCoordinator(dest, stravauploader.NewRandomPacer(), svc.Logger),
		Tokens:      tokens,
		Load:        recordsLoader(svc),
		Synced:      synced,
		Errored:     errored,
		Publisher:   svc.Pub,
		Logger:      svc.Logger,
		Reporter: func(err error, tags map[string]string) {
			sentry.CaptureException(err, tags, svc.Logger)
		},
	}), nil
}
