// Package destination defines the standard interface all activity destinations must implement.
package destination

import (
	"context"

	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
)

// Destination defines the interface all activity destinations must implement.
type Destination interface {
	// Create uploads a new activity to the destination.
	// Returns the destination-specific activity ID (e.g., Strava activity ID).
	// Any outcome other than a confirmed creation is an error.
	Create(ctx context.Context, record *activity.Record) (string, error)

	// Name returns the destination identifier (e.g., "strava", "mock").
	Name() string
}
