package stores

import (
	"context"
	"time"
)

// RunStatus represents the status of a pipeline run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run represents one invocation of the reconfiguration pipeline
type Run struct {
	ID          string     `json:"id"`
	Organ       string     `json:"organ"`
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CycleRecord represents one completed cell cycle within a run
type CycleRecord struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	TissueID  string    `json:"tissue_id"`
	CellID    string    `json:"cell_id"`
	Cycle     int64     `json:"cycle"`
	Value     string    `json:"value"` // JSON blob
	RoutedTo  *string   `json:"routed_to,omitempty"`
	Stored    bool      `json:"stored"`
	Timestamp time.Time `json:"timestamp"`
}

// EventRecord represents an append-only log event within a run
type EventRecord struct {
	ID        int64     `json:"id"`
	RunID     *string   `json:"run_id,omitempty"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	CellID    *string   `json:"cell_id,omitempty"`
	TissueID  *string   `json:"tissue_id,omitempty"`
	Program   *string   `json:"program,omitempty"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Details   *string   `json:"details,omitempty"` // JSON blob
	Timestamp time.Time `json:"timestamp"`
}

// Store defines the interface for the persistence layer
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Run operations
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	UpdateRunStatus(ctx context.Context, id string, status RunStatus, err *string) error
	ListRuns(ctx context.Context, limit, offset int) ([]*Run, error)

	// Cycle operations
	AppendCycle(ctx context.Context, rec *CycleRecord) error
	ListCyclesByRun(ctx context.Context, runID string, limit, offset int) ([]*CycleRecord, error)
	ListCyclesByCell(ctx context.Context, runID, cellID string) ([]*CycleRecord, error)

	// Event operations
	AppendEvent(ctx context.Context, event *EventRecord) error
	ListEvents(ctx context.Context, runID *string, level *string, limit, offset int) ([]*EventRecord, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
