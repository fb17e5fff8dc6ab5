package task

import (
	"context"
	"log/slog"
	"time"

	"codescope/internal/analyzer"
)

// SleepFunc waits for the given duration or until the context is done.
type SleepFunc func(ctx context.Context, d time.Duration)

// Runner executes one task against the analyzer with the configured retry
// policy. Every outcome — analyzer error, malformed payload, exhausted
// retries — is absorbed into the returned Result; Run never panics and
// never returns an error.
type Runner struct {
	backoff Backoff
	sleep   SleepFunc
	logger  *slog.Logger
}

func NewRunner(backoff Backoff, logger *slog.Logger) *Runner {
	if backoff.MaxAttempts < 1 {
		backoff.MaxAttempts = 1
	}
	return &Runner{
		backoff: backoff,
		sleep:   sleepContext,
		logger:  logger,
	}
}

// SetSleep replaces the inter-attempt delay function. Tests use it to run
// retry schedules without real waits.
func (r *Runner) SetSleep(fn SleepFunc) {
	r.sleep = fn
}

// Run invokes the analyzer for spec, retrying on call errors and on payloads
// that fail structural validation. The first structurally valid payload wins;
// once attempts are exhausted the last failure is returned with the full
// attempt count.
func (r *Runner) Run(ctx context.Context, spec Spec, az analyzer.Analyzer) Result {
	var kind FailureKind
	var message string

	for attempt := 1; attempt <= r.backoff.MaxAttempts; attempt++ {
		payload, err := az.Invoke(ctx, spec.Request)
		switch {
		case err != nil:
			kind = FailureExecution
			message = err.Error()
		case spec.Validate != nil:
			if verr := spec.Validate(payload); verr != nil {
				kind = FailureBadShape
				message = verr.Error()
			} else {
				return Success(spec.Name, payload, attempt)
			}
		default:
			return Success(spec.Name, payload, attempt)
		}

		r.logger.Warn("task attempt failed",
			"task", spec.Name,
			"attempt", attempt,
			"kind", string(kind),
			"error", message,
		)

		if attempt < r.backoff.MaxAttempts {
			r.sleep(ctx, r.backoff.Delay(attempt))
		}
	}

	return Failure(spec.Name, kind, message, r.backoff.MaxAttempts)
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
