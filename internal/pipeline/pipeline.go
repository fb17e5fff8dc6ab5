// Package pipeline drives a full analysis run: discover the codebase, chunk
// it, fan the specialist tasks out, and synthesize the unified report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"codescope/internal/aggregate"
	"codescope/internal/analyzer"
	"codescope/internal/catalog"
	"codescope/internal/chunker"
	"codescope/internal/orchestrator"
	"codescope/internal/progress"
	"codescope/internal/specialist"
	"codescope/internal/task"
)

// Run phases, in execution order.
const (
	PhaseDiscovery = "discovery"
	PhaseAnalysis  = "analysis"
	PhaseSynthesis = "synthesis"
)

type Pipeline struct {
	az        analyzer.Analyzer
	runner    *task.Runner
	timeout   time.Duration
	maxTokens int
	logger    *slog.Logger
}

func New(az analyzer.Analyzer, runner *task.Runner, timeout time.Duration, maxTokens int, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		az:        az,
		runner:    runner,
		timeout:   timeout,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Outcome is everything a run produces beyond the report itself.
type Outcome struct {
	Context    catalog.ProjectContext
	ChunkCount int
	TaskCount  int
	Report     *aggregate.Report
}

// Analyze runs the whole pipeline against the codebase rooted at root. The
// sink observes phase and task transitions; pass nil when nothing listens.
// Specialist failures degrade the report instead of aborting; the error
// return covers discovery problems and a failed synthesis.
func (p *Pipeline) Analyze(ctx context.Context, name, root string, sink progress.Sink) (*Outcome, error) {
	if sink == nil {
		sink = progress.Nop{}
	}

	sink.PhaseStarted(PhaseDiscovery)
	files, err := catalog.Scan(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no analyzable files under %s", root)
	}

	pctx := catalog.BuildContext(name, root, files)
	chunks, err := chunker.Build(files, catalog.TargetChunks(files))
	if err != nil {
		return nil, fmt.Errorf("chunk codebase: %w", err)
	}
	sink.PhaseCompleted(PhaseDiscovery)

	p.logger.Info("discovery complete",
		"project", pctx.Name,
		"files", pctx.TotalFiles,
		"chars", pctx.TotalSizeChars,
		"classification", pctx.Classification,
		"chunks", len(chunks),
	)

	sink.PhaseStarted(PhaseAnalysis)
	specs := specialist.Specs(pctx, chunks, p.maxTokens)
	orch := orchestrator.New(p.runner, sink, p.timeout, p.logger)
	results := orch.RunAll(ctx, specs, p.az)
	sink.PhaseCompleted(PhaseAnalysis)

	sink.PhaseStarted(PhaseSynthesis)
	agg := aggregate.New(p.runner, p.maxTokens, p.logger)
	report, err := agg.Synthesize(ctx, results, pctx, p.az)
	if err != nil {
		return nil, fmt.Errorf("synthesize report: %w", err)
	}
	sink.PhaseCompleted(PhaseSynthesis)

	p.logger.Info("analysis complete",
		"project", pctx.Name,
		"overall_score", report.OverallQualityScore,
		"tasks_failed", report.Metadata.TasksFailed,
	)

	return &Outcome{
		Context:    pctx,
		ChunkCount: len(chunks),
		TaskCount:  len(specs),
		Report:     report,
	}, nil
}
