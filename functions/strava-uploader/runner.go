package stravauploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	shared "github.com/kevinnayar/mmftostrava/pkg"
	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
	"github.com/kevinnayar/mmftostrava/pkg/framework"
	"github.com/kevinnayar/mmftostrava/pkg/idset"
	"github.com/kevinnayar/mmftostrava/pkg/infrastructure/oauth"
	infrapubsub "github.com/kevinnayar/mmftostrava/pkg/infrastructure/pubsub"
)

const serviceName = "strava-uploader"

// RecordsLoader returns the records to sync. It is called at the start of every pass.
type RecordsLoader func(ctx context.Context) ([]activity.Record, error)

// Outcome is the public summary of one pass.
type Outcome struct {
	ExecutionID string        `json:"executionId"`
	StartedAt   time.Time     `json:"startedAt"`
	FinishedAt  time.Time     `json:"finishedAt"`
	Synced      int           `json:"synced"`
	Skipped     int           `json:"skipped"`
	Errored     int           `json:"errored"`
	Faults      []UploadFault `json:"faults,omitempty"`
	Error       string        `json:"error,omitempty"`
}

func (o Outcome) Failed() bool {
	return o.Error != ""
}

type RunnerConfig struct {
	Coordinator *Coordinator
	Tokens      oauth.TokenSource
	Load        RecordsLoader
	Synced      *idset.Set
	Errored     *idset.Set

	// Optional
	Publisher shared.Publisher
	Logger    *slog.Logger
	Reporter  framework.ErrorReporter
}

// Runner executes sync passes on a single goroutine. Triggers coalesce: while
// a pass is queued further triggers are dropped. Id sets produced by one pass
// are the input of the next.
type Runner struct {
	cfg      RunnerConfig
	logger   *slog.Logger
	trigger  chan struct{}
	outcomes chan Outcome
	job      func(context.Context) *framework.Execution

	mu      sync.Mutex
	synced  *idset.Set
	errored *idset.Set
	last    *Outcome
}

func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		cfg:      cfg,
		logger:   logger.With("component", "sync-runner"),
		trigger:  make(chan struct{}, 1),
		outcomes: make(chan Outcome, 16),
		synced:   cfg.Synced,
		errored:  cfg.Errored,
	}
	r.job = framework.WrapJob(serviceName, framework.Options{
		Logger:   logger.With("service", serviceName),
		Reporter: cfg.Reporter,
	}, r.pass)
	return r
}

// Trigger enqueues a pass. It reports false when one is already queued.
func (r *Runner) Trigger() bool {
	select {
	case r.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run consumes triggers until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.trigger:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single pass synchronously.
func (r *Runner) RunOnce(ctx context.Context) Outcome {
	exec := r.job(ctx)

	out := Outcome{
		ExecutionID: exec.ID,
		StartedAt:   exec.StartedAt,
		FinishedAt:  exec.FinishedAt,
	}
	if res, ok := exec.Outputs.(*Result); ok && res != nil {
		out.Synced = res.Synced
		out.Skipped = res.Skipped
		out.Errored = res.Errored
		out.Faults = res.Faults
	}
	if exec.Err != nil {
		out.Error = exec.Err.Error()
	}

	r.mu.Lock()
	r.last = &out
	r.mu.Unlock()

	select {
	case r.outcomes <- out:
	default:
		r.logger.Warn("Outcome channel full, dropping", "execution_id", out.ExecutionID)
	}

	r.publish(ctx, out)
	return out
}

func (r *Runner) pass(ctx context.Context, fwCtx *framework.FrameworkContext) (interface{}, error) {
	records, err := r.cfg.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	fwCtx.Logger.Info("Loaded records", "count", len(records))

	synced, errored := r.Sets()
	res, err := r.cfg.Coordinator.Sync(ctx, records, r.cfg.Tokens, synced, errored)
	if res != nil {
		r.mu.Lock()
		r.synced = res.SyncedIDs
		r.errored = res.ErroredIDs
		r.mu.Unlock()
	}
	if errors.Is(err, ErrNotAuthenticated) {
		fwCtx.Logger.Warn("No Strava credential; authorize first")
	}
	return res, err
}

func (r *Runner) publish(ctx context.Context, out Outcome) {
	if r.cfg.Publisher == nil {
		return
	}
	eventType := shared.EventTypeSyncCompleted
	if out.Failed() {
		eventType = shared.EventTypeSyncFailed
	}
	e, err := infrapubsub.NewCloudEvent(shared.EventSourceRunner, eventType, out)
	if err != nil {
		r.logger.Error("Failed to build outcome event", "error", err)
		return
	}
	// Publishing must not be skipped because the pass was cancelled.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if _, err := r.cfg.Publisher.PublishCloudEvent(pubCtx, shared.TopicSyncOutcomes, e); err != nil {
		r.logger.Error("Failed to publish outcome event", "error", err, "execution_id", out.ExecutionID)
	}
}

// Sets returns the id sets the next pass will start from.
func (r *Runner) Sets() (synced, errored *idset.Set) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.synced, r.errored
}

// Outcomes delivers the outcome of every pass. Outcomes are dropped when
// nobody reads and the buffer is full.
func (r *Runner) Outcomes() <-chan Outcome {
	return r.outcomes
}

// LastOutcome returns the most recent pass outcome, if any.
func (r *Runner) LastOutcome() (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return Outcome{}, false
	}
	return *r.last, true
}
