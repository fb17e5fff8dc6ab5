package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"codescope/internal/analyzer"
)

func TestBackoff_Delay(t *testing.T) {
	b := DefaultBackoff()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 2 * time.Second},
		{2, 3 * time.Second},
		{3, 4500 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := b.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestRun_SuccessFirstAttempt(t *testing.T) {
	calls := 0
	az := analyzer.Func(func(ctx context.Context, req analyzer.Request) (map[string]any, error) {
		calls++
		return map[string]any{"score": 90.0}, nil
	})

	r, slept := newTestRunner()
	res := r.Run(context.Background(), Spec{Name: "quality"}, az)

	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", res.Attempts)
	}
	if calls != 1 {
		t.Errorf("analyzer called %d times, want 1", calls)
	}
	if len(*slept) != 0 {
		t.Errorf("expected no backoff sleeps, got %v", *slept)
	}
}

func TestRun_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	az := analyzer.Func(func(ctx context.Context, req analyzer.Request) (map[string]any, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("transient failure")
		}
		return map[string]any{"score": 70.0}, nil
	})

	r, slept := newTestRunner()
	res := r.Run(context.Background(), Spec{Name: "quality"}, az)

	if !res.OK() {
		t.Fatalf("expected eventual success, got %+v", res)
	}
	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
	want := []time.Duration{2 * time.Second, 3 * time.Second}
	if diff := cmp.Diff(want, *slept); diff != "" {
		t.Errorf("backoff schedule mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ExhaustsRetries(t *testing.T) {
	calls := 0
	az := analyzer.Func(func(ctx context.Context, req analyzer.Request) (map[string]any, error) {
		calls++
		return nil, fmt.Errorf("boom %d", calls)
	})

	r, slept := newTestRunner()
	res := r.Run(context.Background(), Spec{Name: "quality"}, az)

	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Kind != FailureExecution {
		t.Errorf("kind = %q, want %q", res.Kind, FailureExecution)
	}
	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
	if calls != 3 {
		t.Errorf("analyzer called %d times, want exactly 3", calls)
	}
	if res.Message != "boom 3" {
		t.Errorf("message = %q, want the last error", res.Message)
	}
	want := []time.Duration{2 * time.Second, 3 * time.Second}
	if diff := cmp.Diff(want, *slept); diff != "" {
		t.Errorf("backoff schedule mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ValidationFailureRetried(t *testing.T) {
	calls := 0
	az := analyzer.Func(func(ctx context.Context, req analyzer.Request) (map[string]any, error) {
		calls++
		if calls == 1 {
			return map[string]any{"unexpected": true}, nil
		}
		return map[string]any{"score": 50.0}, nil
	})

	spec := Spec{
		Name: "quality",
		Validate: func(payload map[string]any) error {
			if _, ok := payload["score"]; !ok {
				return errors.New("missing score")
			}
			return nil
		},
	}

	r, _ := newTestRunner()
	res := r.Run(context.Background(), spec, az)

	if !res.OK() {
		t.Fatalf("expected success after shape retry, got %+v", res)
	}
	if res.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", res.Attempts)
	}
}

func TestRun_ValidationExhaustion(t *testing.T) {
	az := analyzer.Func(func(ctx context.Context, req analyzer.Request) (map[string]any, error) {
		return map[string]any{}, nil
	})

	spec := Spec{
		Name:     "quality",
		Validate: func(payload map[string]any) error { return errors.New("missing score") },
	}

	r, _ := newTestRunner()
	res := r.Run(context.Background(), spec, az)

	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.Kind != FailureBadShape {
		t.Errorf("kind = %q, want %q", res.Kind, FailureBadShape)
	}
	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
}

// newTestRunner returns a runner whose sleeps are recorded instead of real.
func newTestRunner() (*Runner, *[]time.Duration) {
	slept := &[]time.Duration{}
	r := NewRunner(DefaultBackoff(), slog.Default())
	r.SetSleep(func(ctx context.Context, d time.Duration) {
		*slept = append(*slept, d)
	})
	return r, slept
}
