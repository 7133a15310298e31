package framework

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/kevinnayar/mmftostrava/pkg/bootstrap"
)

// FrameworkContext contains dependencies injected by the framework
type FrameworkContext struct {
	Logger      *slog.Logger
	ExecutionID string
}

// HandlerFunc is the signature for a wrapped job
type HandlerFunc func(ctx context.Context, fwCtx *FrameworkContext) (interface{}, error)

// ErrorReporter receives failed executions, e.g. to forward them to Sentry.
type ErrorReporter func(err error, tags map[string]string)

// Execution describes one run of a wrapped job.
type Execution struct {
	ID         string
	Service    string
	StartedAt  time.Time
	FinishedAt time.Time
	Outputs    interface{}
	Err        error
}

func (e *Execution) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// PanicError is returned when a handler panics.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Options configures WrapJob. All fields are optional.
type Options struct {
	Logger   *slog.Logger
	Reporter ErrorReporter
	NewID    func() string
	Now      func() time.Time
}

// WrapJob wraps a handler with execution logging. Every run gets a fresh
// execution id, start and finish log lines, and panic recovery. Failures are
// passed to the reporter.
func WrapJob(serviceName string, opts Options, handler HandlerFunc) func(context.Context) *Execution {
	baseLogger := opts.Logger
	if baseLogger == nil {
		baseLogger = bootstrap.NewLogger(serviceName, "")
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(ctx context.Context) *Execution {
		exec := &Execution{
			ID:        newID(),
			Service:   serviceName,
			StartedAt: now(),
		}

		logger := baseLogger.With("execution_id", exec.ID)
		logger.Info("Function started")

		fwCtx := &FrameworkContext{
			Logger:      logger,
			ExecutionID: exec.ID,
		}

		exec.Outputs, exec.Err = invoke(ctx, handler, fwCtx)
		exec.FinishedAt = now()

		if exec.Err != nil {
			logger.Error("Function failed", "error", exec.Err, "duration_ms", exec.Duration().Milliseconds())
			if opts.Reporter != nil {
				opts.Reporter(exec.Err, map[string]string{
					"service":      serviceName,
					"execution_id": exec.ID,
				})
			}
			return exec
		}

		logger.Info("Function completed successfully", "duration_ms", exec.Duration().Milliseconds())
		return exec
	}
}

func invoke(ctx context.Context, handler HandlerFunc, fwCtx *FrameworkContext) (outputs interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return handler(ctx, fwCtx)
}
