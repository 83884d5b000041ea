package anatomy

// EventPublisher is the trace channel the core emits to. Presentation
// layers subscribe through the telemetry package; the core never writes to
// stdout itself. Implementations must be safe for concurrent use; all
// methods are fire-and-forget.
type EventPublisher interface {
	// PublishProgramLoaded reports a program stored on a cell.
	PublishProgramLoaded(cellID, program string, segments int)

	// PublishProgramApplied reports a completed reconfiguration pass.
	PublishProgramApplied(cellID, program string, applied int)

	// PublishUnknownSegment reports a segment that compiled to an empty
	// directive. Not an error: the segment is ignored.
	PublishUnknownSegment(cellID, segment string)

	// PublishCycleCompleted reports a paid execution cycle.
	PublishCycleCompleted(cellID string, cycle uint64, stored bool)

	// PublishCycleSkipped reports a no-op cycle and why (idle cell,
	// insufficient power).
	PublishCycleSkipped(cellID, reason string)

	// PublishStorageRejected reports a memory-pool write rejected at
	// capacity.
	PublishStorageRejected(cellID string, capacity int)

	// PublishCoherenceLow reports coherence decaying below the warning
	// threshold.
	PublishCoherenceLow(cellID string, level float64)
}

// Cycle-skip reasons.
const (
	SkipReasonIdle  = "idle"
	SkipReasonPower = "insufficient-power"
)

// NopPublisher discards all events. Used when no telemetry is wired.
type NopPublisher struct{}

func (NopPublisher) PublishProgramLoaded(string, string, int)   {}
func (NopPublisher) PublishProgramApplied(string, string, int)  {}
func (NopPublisher) PublishUnknownSegment(string, string)       {}
func (NopPublisher) PublishCycleCompleted(string, uint64, bool) {}
func (NopPublisher) PublishCycleSkipped(string, string)         {}
func (NopPublisher) PublishStorageRejected(string, int)         {}
func (NopPublisher) PublishCoherenceLow(string, float64)        {}
