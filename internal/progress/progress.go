// Package progress is the injected event sink for analysis runs. It replaces
// scattered per-component log files with a single observer: the orchestrator
// and pipeline report phase and task transitions, and implementations relay
// them wherever a UI listens. Emission must never break an analysis, so sinks
// have no error returns.
package progress

// Sink receives run lifecycle notifications.
type Sink interface {
	PhaseStarted(phase string)
	PhaseCompleted(phase string)
	TaskStarted(name string)
	TaskCompleted(name string, ok bool)
}

// Nop discards all notifications. Used when no relay is configured.
type Nop struct{}

func (Nop) PhaseStarted(string)        {}
func (Nop) PhaseCompleted(string)      {}
func (Nop) TaskStarted(string)         {}
func (Nop) TaskCompleted(string, bool) {}
