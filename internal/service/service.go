// Package service owns the lifecycle of analysis runs: it launches pipeline
// runs in the background, tracks their state in memory, and mirrors the state
// to Postgres when a database is configured.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"codescope/internal/bus"
	"codescope/internal/pipeline"
	"codescope/internal/progress"
	"codescope/internal/store"
)

// ErrNotFound is returned when no run exists for the requested ID.
var ErrNotFound = errors.New("run not found")

// Runner is the pipeline entry point the service drives. Satisfied by
// *pipeline.Pipeline.
type Runner interface {
	Analyze(ctx context.Context, name, root string, sink progress.Sink) (*pipeline.Outcome, error)
}

type Service struct {
	runner Runner
	db     *store.Store // nil when no database is configured
	bus    *bus.Client  // nil when no relay is configured
	logger *slog.Logger

	mu   sync.RWMutex
	runs map[uuid.UUID]store.Run
}

func New(runner Runner, db *store.Store, busClient *bus.Client, logger *slog.Logger) *Service {
	return &Service{
		runner: runner,
		db:     db,
		bus:    busClient,
		logger: logger,
		runs:   make(map[uuid.UUID]store.Run),
	}
}

// Start registers a run and launches the pipeline in the background. The
// returned ID can be polled immediately.
func (s *Service) Start(ctx context.Context, projectName, projectPath string) (uuid.UUID, error) {
	id := uuid.New()

	if s.db != nil {
		if err := s.db.CreateRun(ctx, id, projectName, projectPath); err != nil {
			return uuid.Nil, fmt.Errorf("register run: %w", err)
		}
	}

	s.mu.Lock()
	s.runs[id] = store.Run{
		ID:          id,
		ProjectName: projectName,
		ProjectPath: projectPath,
		Status:      store.StatusRunning,
		CreatedAt:   time.Now().UTC(),
	}
	s.mu.Unlock()

	s.logger.Info("analysis run started", "run_id", id, "project", projectName, "path", projectPath)

	go s.execute(id, projectName, projectPath)
	return id, nil
}

// Get returns the current state of one run, preferring the in-memory record
// and falling back to the database for runs from earlier process lifetimes.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*store.Run, error) {
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()
	if ok {
		return &run, nil
	}

	if s.db == nil {
		return nil, ErrNotFound
	}
	stored, err := s.db.GetRun(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	return stored, nil
}

// List returns recent runs, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]store.Run, error) {
	if s.db != nil {
		return s.db.ListRuns(ctx, limit)
	}

	s.mu.RLock()
	runs := make([]store.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	s.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// execute runs the pipeline to completion and records the outcome. It runs
// detached from the request context: a run outlives the HTTP request that
// started it.
func (s *Service) execute(id uuid.UUID, projectName, projectPath string) {
	ctx := context.Background()

	var sink progress.Sink = progress.Nop{}
	if s.bus != nil {
		sink = progress.NewBusSink(s.bus, id, s.logger)
	}

	out, err := s.runner.Analyze(ctx, projectName, projectPath, sink)
	if err != nil {
		s.logger.Error("analysis run failed", "run_id", id, "error", err)
		s.finishFailed(ctx, id, err.Error())
		return
	}

	s.finishCompleted(ctx, id, out)
}

func (s *Service) finishCompleted(ctx context.Context, id uuid.UUID, out *pipeline.Outcome) {
	now := time.Now().UTC()

	s.mu.Lock()
	run := s.runs[id]
	run.Status = store.StatusCompleted
	run.ChunkCount = out.ChunkCount
	run.TaskCount = out.TaskCount
	run.Report = out.Report
	run.CompletedAt = &now
	s.runs[id] = run
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.CompleteRun(ctx, id, out.ChunkCount, out.TaskCount, out.Report); err != nil {
			s.logger.Error("failed to persist completed run", "run_id", id, "error", err)
		}
	}
}

func (s *Service) finishFailed(ctx context.Context, id uuid.UUID, reason string) {
	now := time.Now().UTC()

	s.mu.Lock()
	run := s.runs[id]
	run.Status = store.StatusFailed
	run.ErrorText = reason
	run.CompletedAt = &now
	s.runs[id] = run
	s.mu.Unlock()

	if s.db != nil {
		if err := s.db.FailRun(ctx, id, reason); err != nil {
			s.logger.Error("failed to persist failed run", "run_id", id, "error", err)
		}
	}
}
