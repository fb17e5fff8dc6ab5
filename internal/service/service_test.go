package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"codescope/internal/aggregate"
	"codescope/internal/pipeline"
	"codescope/internal/progress"
	"codescope/internal/store"
)

type stubRunner struct {
	outcome *pipeline.Outcome
	err     error
	block   chan struct{} // when non-nil, Analyze waits on it
}

func (r *stubRunner) Analyze(ctx context.Context, name, root string, sink progress.Sink) (*pipeline.Outcome, error) {
	if r.block != nil {
		<-r.block
	}
	return r.outcome, r.err
}

func waitForSettled(t *testing.T, svc *Service, id uuid.UUID) *store.Run {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		run, err := svc.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if run.Status != store.StatusRunning {
			return run
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("run never settled")
	return nil
}

func TestStart_CompletesRun(t *testing.T) {
	runner := &stubRunner{
		outcome: &pipeline.Outcome{
			ChunkCount: 2,
			TaskCount:  6,
			Report:     &aggregate.Report{OverallQualityScore: 70},
		},
	}
	svc := New(runner, nil, nil, slog.Default())

	id, err := svc.Start(context.Background(), "demo", "/tmp/demo")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	run := waitForSettled(t, svc, id)
	if run.Status != store.StatusCompleted {
		t.Errorf("status = %q, want completed", run.Status)
	}
	if run.ChunkCount != 2 || run.TaskCount != 6 {
		t.Errorf("counts = (%d, %d)", run.ChunkCount, run.TaskCount)
	}
	if run.Report == nil || run.Report.OverallQualityScore != 70 {
		t.Errorf("report = %+v", run.Report)
	}
	if run.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestStart_RecordsFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("synthesis failed after 3 attempts")}
	svc := New(runner, nil, nil, slog.Default())

	id, err := svc.Start(context.Background(), "demo", "/tmp/demo")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	run := waitForSettled(t, svc, id)
	if run.Status != store.StatusFailed {
		t.Errorf("status = %q, want failed", run.Status)
	}
	if run.ErrorText == "" {
		t.Error("expected error text")
	}
}

func TestGet_RunningWhileInFlight(t *testing.T) {
	block := make(chan struct{})
	runner := &stubRunner{
		outcome: &pipeline.Outcome{Report: &aggregate.Report{}},
		block:   block,
	}
	svc := New(runner, nil, nil, slog.Default())

	id, err := svc.Start(context.Background(), "demo", "/tmp/demo")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	run, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if run.Status != store.StatusRunning {
		t.Errorf("status = %q, want running", run.Status)
	}

	close(block)
	waitForSettled(t, svc, id)
}

func TestGet_UnknownRun(t *testing.T) {
	svc := New(&stubRunner{}, nil, nil, slog.Default())

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	runner := &stubRunner{outcome: &pipeline.Outcome{Report: &aggregate.Report{}}}
	svc := New(runner, nil, nil, slog.Default())

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		id, err := svc.Start(context.Background(), "demo", "/tmp/demo")
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond) // distinct created_at ordering
	}

	runs, err := svc.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want 2 (limit applied)", len(runs))
	}
	if runs[0].ID != ids[2] {
		t.Errorf("first run = %s, want newest %s", runs[0].ID, ids[2])
	}
	if !runs[0].CreatedAt.After(runs[1].CreatedAt) {
		t.Error("runs not ordered newest first")
	}
}
