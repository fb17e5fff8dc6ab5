package progress

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"codescope/internal/bus"
)

// Subject is the NATS subject progress events are published on.
const Subject = "codescope.analysis.progress"

// Event is the wire format of one progress notification.
type Event struct {
	RunID     string    `json:"run_id"`
	Type      string    `json:"type"` // "phase" or "task"
	Step      string    `json:"step"`
	Status    string    `json:"status"` // "active", "complete", "error"
	Timestamp time.Time `json:"timestamp"`
}

// BusSink publishes progress events for one run to NATS. Publish errors are
// logged and dropped.
type BusSink struct {
	bus    *bus.Client
	runID  uuid.UUID
	logger *slog.Logger
}

func NewBusSink(b *bus.Client, runID uuid.UUID, logger *slog.Logger) *BusSink {
	return &BusSink{bus: b, runID: runID, logger: logger}
}

func (s *BusSink) PhaseStarted(phase string)   { s.emit("phase", phase, "active") }
func (s *BusSink) PhaseCompleted(phase string) { s.emit("phase", phase, "complete") }
func (s *BusSink) TaskStarted(name string)     { s.emit("task", name, "active") }

func (s *BusSink) TaskCompleted(name string, ok bool) {
	status := "complete"
	if !ok {
		status = "error"
	}
	s.emit("task", name, status)
}

func (s *BusSink) emit(kind, step, status string) {
	evt := Event{
		RunID:     s.runID.String(),
		Type:      kind,
		Step:      step,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
	if err := s.bus.Publish(Subject, evt); err != nil {
		s.logger.Warn("failed to publish progress event", "step", step, "error", err)
	}
}
