package mockuploader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
)

// Destination simulates an upload by logging the activity. It is used for
// dry runs and never contacts Strava.
type Destination struct {
	Logger *slog.Logger
}

func New(logger *slog.Logger) *Destination {
	if logger == nil {
		logger = slog.Default()
	}
	return &Destination{Logger: logger.With("component", "mock-uploader")}
}

func (d *Destination) Name() string {
	return "mock"
}

func (d *Destination) Create(ctx context.Context, record *activity.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mockExternalID := fmt.Sprintf("mock-%s", record.ID)
	d.Logger.Info("Mock upload received",
		"id", record.ID,
		"name", record.Name,
		"type", record.Type,
		"start_date_local", record.StartDateLocal,
		"distance", record.Distance,
		"elapsed_time", record.ElapsedTime,
		"mock_external_id", mockExternalID,
	)
	return mockExternalID, nil
}
