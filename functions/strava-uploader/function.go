package stravauploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kevinnayar/mmftostrava/pkg/destination"
	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
	"github.com/kevinnayar/mmftostrava/pkg/idset"
	httputil "github.com/kevinnayar/mmftostrava/pkg/infrastructure/http"
	"github.com/kevinnayar/mmftostrava/pkg/infrastructure/oauth"
)

// Result summarizes one sync pass. SyncedIDs and ErroredIDs are the working
// sets after the pass, bound to the same files as the inputs.
type Result struct {
	Synced  int           `json:"synced"`
	Skipped int           `json:"skipped"`
	Errored int           `json:"errored"`
	Faults  []UploadFault `json:"faults,omitempty"`

	SyncedIDs  *idset.Set `json:"-"`
	ErroredIDs *idset.Set `json:"-"`
}

// Coordinator uploads records one at a time and tracks the outcome of each
// in the synced and errored id sets.
type Coordinator struct {
	dest    destination.Destination
	pacer   Pacer
	logger  *slog.Logger
	printer *message.Printer

	running sync.Mutex
}

func NewCoordinator(dest destination.Destination, pacer Pacer, logger *slog.Logger) *Coordinator {
	if pacer == nil {
		pacer = NewRandomPacer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		dest:    dest,
		pacer:   pacer,
		logger:  logger.With("component", "strava-uploader", "destination", dest.Name()),
		printer: message.NewPrinter(language.English),
	}
}

// Sync uploads every record whose id is not in synced. The caller's sets are
// not modified; each outcome is persisted to the working copy's file before
// the next record is attempted. Records already in errored are retried.
//
// tokens must be the source the destination authenticates with.
func (c *Coordinator) Sync(ctx context.Context, records []activity.Record, tokens oauth.TokenSource, synced, errored *idset.Set) (*Result, error) {
	if !c.running.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer c.running.Unlock()

	tok, err := tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if !tok.Valid() {
		return nil, ErrNotAuthenticated
	}

	res := &Result{
		SyncedIDs:  synced.Clone(),
		ErroredIDs: errored.Clone(),
	}

	for i := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		rec := &records[i]
		if res.SyncedIDs.Has(rec.ID) {
			res.Skipped++
			c.logger.Info("Skipping", "id", rec.ID, "name", rec.Name)
			continue
		}

		remoteID, err := c.dest.Create(ctx, rec)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return res, ctxErr
			}
			fault := UploadFault{
				RecordID:   rec.ID,
				StatusCode: httputil.StatusCode(err),
				Message:    err.Error(),
				Err:        err,
			}
			res.Errored++
			res.Faults = append(res.Faults, fault)
			c.logger.Error("Failed to upload activity", "id", rec.ID, "name", rec.Name, "status", fault.StatusCode, "error", err)

			if err := res.ErroredIDs.Add(rec.ID); err != nil {
				return res, &PersistenceError{Path: res.ErroredIDs.Path(), RecordID: rec.ID, Err: err}
			}
			continue
		}

		res.Synced++
		if err := res.SyncedIDs.Add(rec.ID); err != nil {
			return res, &PersistenceError{Path: res.SyncedIDs.Path(), RecordID: rec.ID, Err: err}
		}
		c.logger.Info("Synced", "id", rec.ID, "name", rec.Name, "remote_id", remoteID)

		if err := c.pacer.Pause(ctx); err != nil {
			return res, err
		}
	}

	c.logger.Info("Finished", "summary", c.printer.Sprintf("%d synced, %d skipped, %d errored of %d records",
		res.Synced, res.Skipped, res.Errored, len(records)))
	return res, nil
}
