// Package task defines the unit of analysis work: a named spec executed
// against the analyzer with bounded retries, producing a typed result that
// never escapes as an error.
package task

import (
	"codescope/internal/analyzer"
)

// FailureKind classifies why a task failed.
type FailureKind string

const (
	// FailureNone marks a successful result.
	FailureNone FailureKind = ""
	// FailureExecution is an analyzer call that returned an error.
	FailureExecution FailureKind = "execution"
	// FailureBadShape is an analyzer payload that failed structural validation.
	FailureBadShape FailureKind = "bad_shape"
	// FailureTimeout is a task still outstanding when the overall deadline passed.
	FailureTimeout FailureKind = "timeout"
)

// Spec describes one analysis task. Validate, when set, checks the payload
// shape; a payload that fails validation counts as a failed attempt.
type Spec struct {
	Name     string
	Category string
	Request  analyzer.Request
	Validate func(payload map[string]any) error
}

// Result is the outcome of one task after all retries. Exactly one of
// Payload (success) or Kind/Message (failure) is meaningful; results are
// immutable once produced.
type Result struct {
	Name     string
	Payload  map[string]any
	Kind     FailureKind
	Message  string
	Attempts int
}

// OK reports whether the task produced a payload.
func (r Result) OK() bool {
	return r.Kind == FailureNone
}

// Success builds a successful result.
func Success(name string, payload map[string]any, attempts int) Result {
	return Result{Name: name, Payload: payload, Attempts: attempts}
}

// Failure builds a failed result.
func Failure(name string, kind FailureKind, message string, attempts int) Result {
	return Result{Name: name, Kind: kind, Message: message, Attempts: attempts}
}
