package stores

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cytoweave/cytoweave/pkg/anatomy"
	"github.com/cytoweave/cytoweave/pkg/telemetry"
)

// Recorder persists the event stream of a run into a Store. It
// subscribes to the telemetry event channel and writes one EventRecord
// per event, tagged with the run ID.
type Recorder struct {
	store  Store
	logger *telemetry.Logger
	runID  string
}

// NewRecorder creates a recorder bound to one run.
func NewRecorder(store Store, logger *telemetry.Logger, runID string) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger,
		runID:  runID,
	}
}

// Observe subscribes the recorder to the event channel. Persistence
// failures are logged and dropped; the event channel never blocks on
// the database.
func (r *Recorder) Observe(ep *telemetry.EventPublisher) {
	if ep == nil {
		return
	}
	ep.Subscribe(func(event telemetry.Event) {
		if err := r.store.AppendEvent(context.Background(), r.toRecord(event)); err != nil {
			r.logger.WithError(err).WithField("event_type", event.Type).Warn("Failed to persist event")
		}
	}, nil)
}

// RecordCycles persists the cycle outputs of one tissue run.
func (r *Recorder) RecordCycles(ctx context.Context, tissueID string, outputs []*anatomy.CycleOutput) error {
	for _, out := range outputs {
		if out == nil {
			continue
		}
		value, err := json.Marshal(out.Value)
		if err != nil {
			value = []byte(`null`)
		}
		rec := &CycleRecord{
			RunID:     r.runID,
			TissueID:  tissueID,
			CellID:    out.CellID,
			Cycle:     int64(out.Cycle),
			Value:     string(value),
			Stored:    out.Stored,
			Timestamp: time.Now(),
		}
		if out.RoutedTo != "" {
			routedTo := out.RoutedTo
			rec.RoutedTo = &routedTo
		}
		if err := r.store.AppendCycle(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) toRecord(event telemetry.Event) *EventRecord {
	rec := &EventRecord{
		Type:      event.Type,
		Source:    event.Source,
		Level:     event.Level,
		Message:   event.Message,
		Timestamp: event.Timestamp,
	}

	runID := r.runID
	rec.RunID = &runID

	if event.CellID != "" {
		cellID := event.CellID
		rec.CellID = &cellID
	}
	if event.TissueID != "" {
		tissueID := event.TissueID
		rec.TissueID = &tissueID
	}
	if event.Program != "" {
		program := event.Program
		rec.Program = &program
	}
	if len(event.Data) > 0 {
		if data, err := json.Marshal(event.Data); err == nil {
			details := string(data)
			rec.Details = &details
		}
	}

	return rec
}
