package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	shared "github.com/kevinnayar/mmftostrava/pkg"
	infrapubsub "github.com/kevinnayar/mmftostrava/pkg/infrastructure/pubsub"
	"github.com/kevinnayar/mmftostrava/pkg/infrastructure/sentry"
	infrastorage "github.com/kevinnayar/mmftostrava/pkg/infrastructure/storage"
)

// Service holds initialized dependencies
type Service struct {
	Config *Config
	Logger *slog.Logger
	Pub    shared.Publisher
	Store  shared.BlobStore
	Files  *infrastorage.Files

	closers []func() error
}

// clientOptions are shared by the GCP clients.
func (c *Config) clientOptions() []option.ClientOption {
	if c.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}
}

// NewService initializes the dependencies the configuration asks for.
// GCP clients are only created when needed: Pub/Sub when publishing is
// enabled, Storage when the configured input or output, or any of the extra
// locations (command-line overrides), is a gs:// URI.
func NewService(ctx context.Context, cfg *Config, logger *slog.Logger, locations ...string) (*Service, error) {
	if logger == nil {
		logger = NewLogger(shared.ServiceName, cfg.LogLevel)
	}
	logger.Info("Initializing service", "project_id", cfg.ProjectID, "data_dir", cfg.DataDir)

	svc := &Service{Config: cfg, Logger: logger}

	if err := sentry.Init(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     shared.ServiceName,
		ServerName:  shared.ServiceName,
	}, logger); err != nil {
		return nil, err
	}
	svc.closers = append(svc.closers, func() error {
		sentry.Flush(2 * time.Second)
		return nil
	})

	// Pub/Sub
	if cfg.EnablePublish {
		psClient, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.clientOptions()...)
		if err != nil {
			logger.Error("PubSub init failed", "error", err)
			return nil, fmt.Errorf("pubsub init: %w", err)
		}
		svc.Pub = &infrapubsub.PubSubAdapter{Client: psClient}
		svc.closers = append(svc.closers, psClient.Close)
		logger.Info("Pub/Sub: REAL (ENABLE_PUBLISH=true)")
	} else {
		svc.Pub = &infrapubsub.LogPublisher{Logger: logger}
		logger.Info("Pub/Sub: MOCK (LogPublisher)")
	}

	// Storage
	if infrastorage.AnyRemote(append([]string{cfg.InputPath(), cfg.OutputPath()}, locations...)...) {
		gcsClient, err := storage.NewClient(ctx, cfg.clientOptions()...)
		if err != nil {
			logger.Error("Storage init failed", "error", err)
			return nil, fmt.Errorf("storage init: %w", err)
		}
		svc.Store = &infrastorage.StorageAdapter{Client: gcsClient}
		svc.closers = append(svc.closers, gcsClient.Close)
	}
	svc.Files = &infrastorage.Files{Blob: svc.Store}

	return svc, nil
}

// Close releases clients and flushes pending error reports.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
