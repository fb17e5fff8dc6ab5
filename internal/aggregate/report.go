// Package aggregate turns the per-task result map into one unified report,
// running a single cross-task synthesis call and normalizing its output.
package aggregate

import (
	"fmt"

	"codescope/internal/task"
)

// Priority ranks a recommendation. Higher priorities sort first.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// rank orders priorities for sorting; unknown values sink below LOW.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// DimensionScore is one scored quality dimension.
type DimensionScore struct {
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// ArchitectureSummary captures the synthesized architectural view.
type ArchitectureSummary struct {
	Pattern    string   `json:"pattern"`
	Strengths  []string `json:"strengths"`
	Concerns   []string `json:"concerns"`
	Components []string `json:"components"`
}

// BusinessSummary captures the synthesized business view.
type BusinessSummary struct {
	Purpose     string `json:"purpose"`
	Scale       string `json:"scale"`
	Criticality string `json:"criticality"`
}

// Recommendation is one prioritized action item.
type Recommendation struct {
	Priority      Priority `json:"priority"`
	Category      string   `json:"category"`
	Action        string   `json:"action"`
	Justification string   `json:"justification"`
	Effort        string   `json:"effort"`
}

// UnavailableTask marks a specialist task whose findings are missing from
// the synthesis, and why.
type UnavailableTask struct {
	Name     string           `json:"name"`
	Kind     task.FailureKind `json:"kind"`
	Reason   string           `json:"reason"`
	Attempts int              `json:"attempts"`
}

// ExecutionMetadata summarizes how the task fan-out went.
type ExecutionMetadata struct {
	TasksTotal     int               `json:"tasks_total"`
	TasksSucceeded int               `json:"tasks_succeeded"`
	TasksFailed    int               `json:"tasks_failed"`
	FailedTasks    []UnavailableTask `json:"failed_tasks,omitempty"`
}

// Report is the terminal artifact of an analysis run. It is built once and
// never mutated afterwards.
type Report struct {
	OverallQualityScore int                       `json:"overall_quality_score"`
	DimensionalScores   map[string]DimensionScore `json:"dimensional_scores"`
	Architecture        ArchitectureSummary       `json:"architecture_summary"`
	Business            BusinessSummary           `json:"business_summary"`
	Recommendations     []Recommendation          `json:"recommendations"`
	Metadata            ExecutionMetadata         `json:"execution_metadata"`
}

// SynthesisError is returned when the single cross-task synthesis call
// exhausts its retries. There is no fallback synthesis, so this is fatal
// for the run.
type SynthesisError struct {
	Kind     task.FailureKind
	Message  string
	Attempts int
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed after %d attempts (%s): %s", e.Attempts, e.Kind, e.Message)
}
