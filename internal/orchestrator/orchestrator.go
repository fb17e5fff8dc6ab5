// Package orchestrator fans a fixed set of analysis tasks out to the
// analyzer and collects every result, isolating failures so one bad task
// never sinks the run.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"codescope/internal/analyzer"
	"codescope/internal/progress"
	"codescope/internal/task"
)

// Orchestrator runs task specs concurrently, one goroutine per task. Each
// goroutine owns its task's retries and backoff, so a retrying task blocks
// only itself. Results land under disjoint map keys, written only by the
// collecting loop, so no locking is needed.
type Orchestrator struct {
	runner  *task.Runner
	sink    progress.Sink
	timeout time.Duration
	logger  *slog.Logger
}

func New(runner *task.Runner, sink progress.Sink, timeout time.Duration, logger *slog.Logger) *Orchestrator {
	if sink == nil {
		sink = progress.Nop{}
	}
	return &Orchestrator{
		runner:  runner,
		sink:    sink,
		timeout: timeout,
		logger:  logger,
	}
}

// RunAll executes every spec and returns a result per task name. The wait is
// bounded by the configured timeout: tasks still outstanding when it elapses
// are recorded as timeout failures, while completed tasks keep their real
// results. Outstanding goroutines are not interrupted — they run to
// completion and their late results are discarded.
func (o *Orchestrator) RunAll(ctx context.Context, specs []task.Spec, az analyzer.Analyzer) map[string]task.Result {
	results := make(map[string]task.Result, len(specs))
	if len(specs) == 0 {
		return results
	}

	// Buffered to task count so late finishers never block after the
	// orchestrator has stopped waiting.
	resCh := make(chan task.Result, len(specs))

	for _, spec := range specs {
		go func(spec task.Spec) {
			o.sink.TaskStarted(spec.Name)
			res := o.runner.Run(ctx, spec, az)
			o.sink.TaskCompleted(spec.Name, res.OK())
			resCh <- res
		}(spec)
	}

	timer := time.NewTimer(o.timeout)
	defer timer.Stop()

	for range specs {
		select {
		case res := <-resCh:
			results[res.Name] = res
			o.logger.Info("task settled",
				"task", res.Name,
				"ok", res.OK(),
				"attempts", res.Attempts,
			)
		case <-timer.C:
			o.logger.Warn("analysis timeout elapsed", "timeout", o.timeout)
			o.markOutstanding(specs, results, "overall analysis timeout elapsed")
			return results
		case <-ctx.Done():
			o.markOutstanding(specs, results, ctx.Err().Error())
			return results
		}
	}

	return results
}

func (o *Orchestrator) markOutstanding(specs []task.Spec, results map[string]task.Result, reason string) {
	for _, spec := range specs {
		if _, ok := results[spec.Name]; !ok {
			results[spec.Name] = task.Failure(spec.Name, task.FailureTimeout, reason, 0)
		}
	}
}
