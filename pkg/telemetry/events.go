package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one entry on the engine's trace channel.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies where the event originated.
	Source string `json:"source"`

	// CellID is the associated cell ID, if applicable.
	CellID string `json:"cell_id,omitempty"`

	// TissueID is the associated tissue ID, if applicable.
	TissueID string `json:"tissue_id,omitempty"`

	// Program is the associated program id, if applicable.
	Program string `json:"program,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// Event type constants for the domain trace channel.
const (
	EventTypeProgramLoaded    = "program.loaded"
	EventTypeProgramApplied   = "program.applied"
	EventTypeSegmentUnknown   = "segment.unknown"
	EventTypeCycleCompleted   = "cycle.completed"
	EventTypeCycleSkipped     = "cycle.skipped"
	EventTypeStorageRejected  = "storage.rejected"
	EventTypeCoherenceLow     = "coherence.low"
	EventTypeTissueRunStarted = "tissue.run.started"
	EventTypeTissueRunDone    = "tissue.run.completed"
)

// Event level constants.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher manages event publishing and subscriptions. It satisfies
// anatomy.EventPublisher, so a cell wired with it traces straight onto this
// channel.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []subscriberEntry
	filters     []EventFilter
	wg          sync.WaitGroup
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given
// configuration.
func NewEventPublisher(cfg EventsConfig) *EventPublisher {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}
	}

	ctx, cancel := context.WithCancel(context.Background())

	ep := &EventPublisher{
		config: cfg,
		buffer: make(chan Event, cfg.BufferSize),
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.EnableAsync {
		ep.wg.Add(1)
		go ep.processEvents()
	}

	return ep
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	ep.mu.RLock()
	for _, filter := range ep.filters {
		if !filter(event) {
			ep.mu.RUnlock()
			return nil
		}
	}
	ep.mu.RUnlock()

	if ep.config.EnableAsync {
		select {
		case ep.buffer <- event:
			return nil
		case <-ep.ctx.Done():
			return fmt.Errorf("event publisher stopped")
		default:
			return fmt.Errorf("event buffer full, event dropped")
		}
	}

	ep.deliverEvent(event)
	return nil
}

// PublishProgramLoaded publishes a program loaded event.
func (ep *EventPublisher) PublishProgramLoaded(cellID, program string, segments int) {
	_ = ep.Publish(Event{
		Type:    EventTypeProgramLoaded,
		Source:  "cell",
		CellID:  cellID,
		Program: program,
		Message: fmt.Sprintf("Cell %s loaded program %q (%d segments)", cellID, program, segments),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"segments": segments,
		},
	})
}

// PublishProgramApplied publishes a reconfiguration pass completion event.
func (ep *EventPublisher) PublishProgramApplied(cellID, program string, applied int) {
	_ = ep.Publish(Event{
		Type:    EventTypeProgramApplied,
		Source:  "cell",
		CellID:  cellID,
		Program: program,
		Message: fmt.Sprintf("Cell %s applied program %q (%d directives)", cellID, program, applied),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"applied": applied,
		},
	})
}

// PublishUnknownSegment publishes an unknown segment trace event.
func (ep *EventPublisher) PublishUnknownSegment(cellID, segment string) {
	_ = ep.Publish(Event{
		Type:    EventTypeSegmentUnknown,
		Source:  "compiler",
		CellID:  cellID,
		Message: fmt.Sprintf("Cell %s ignored unknown segment %q", cellID, segment),
		Level:   EventLevelWarning,
		Data: map[string]interface{}{
			"segment": segment,
		},
	})
}

// PublishCycleCompleted publishes a paid cycle completion event.
func (ep *EventPublisher) PublishCycleCompleted(cellID string, cycle uint64, stored bool) {
	_ = ep.Publish(Event{
		Type:    EventTypeCycleCompleted,
		Source:  "cell",
		CellID:  cellID,
		Message: fmt.Sprintf("Cell %s completed cycle %d", cellID, cycle),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"cycle":  cycle,
			"stored": stored,
		},
	})
}

// PublishCycleSkipped publishes a no-op cycle event with its reason.
func (ep *EventPublisher) PublishCycleSkipped(cellID, reason string) {
	_ = ep.Publish(Event{
		Type:    EventTypeCycleSkipped,
		Source:  "cell",
		CellID:  cellID,
		Message: fmt.Sprintf("Cell %s skipped cycle: %s", cellID, reason),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishStorageRejected publishes a memory-pool capacity rejection event.
func (ep *EventPublisher) PublishStorageRejected(cellID string, capacity int) {
	_ = ep.Publish(Event{
		Type:    EventTypeStorageRejected,
		Source:  "memory-pool",
		CellID:  cellID,
		Message: fmt.Sprintf("Cell %s rejected storage write at capacity %d", cellID, capacity),
		Level:   EventLevelWarning,
		Data: map[string]interface{}{
			"capacity": capacity,
		},
	})
}

// PublishCoherenceLow publishes a coherence warning event.
func (ep *EventPublisher) PublishCoherenceLow(cellID string, level float64) {
	_ = ep.Publish(Event{
		Type:    EventTypeCoherenceLow,
		Source:  "cell",
		CellID:  cellID,
		Message: fmt.Sprintf("Cell %s coherence low: %.1f", cellID, level),
		Level:   EventLevelWarning,
		Data: map[string]interface{}{
			"coherence": level,
		},
	})
}

// PublishTissueRun publishes tissue-level run boundary events.
func (ep *EventPublisher) PublishTissueRun(tissueID string, cells, outputs int, duration time.Duration) {
	_ = ep.Publish(Event{
		Type:     EventTypeTissueRunDone,
		Source:   "tissue",
		TissueID: tissueID,
		Message:  fmt.Sprintf("Tissue %s ran %d cells, %d outputs", tissueID, cells, outputs),
		Level:    EventLevelInfo,
		Data: map[string]interface{}{
			"cells":    cells,
			"outputs":  outputs,
			"duration": duration.Seconds(),
		},
	})
}

// Subscribe adds a new event subscriber with an optional filter.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}

// processEvents drains the buffer asynchronously.
func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	for {
		select {
		case event := <-ep.buffer:
			ep.deliverEvent(event)
		case <-ep.ctx.Done():
			// Drain what is left before shutting down.
			for {
				select {
				case event := <-ep.buffer:
					ep.deliverEvent(event)
				default:
					return
				}
			}
		}
	}
}

// deliverEvent delivers an event to all subscribers synchronously, in
// subscription order.
func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, entry := range ep.subscribers {
		if entry.filter != nil && !entry.filter(event) {
			continue
		}
		entry.subscriber(event)
	}
}

// Shutdown gracefully shuts down the event publisher.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled || ep.cancel == nil {
		return nil
	}

	ep.cancel()

	done := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown timeout")
	}
}

// FilterByLevel creates a filter that only allows events of a given level
// or higher.
func FilterByLevel(minLevel string) EventFilter {
	levels := map[string]int{
		EventLevelInfo:    0,
		EventLevelWarning: 1,
		EventLevelError:   2,
	}
	minLevelValue := levels[minLevel]

	return func(event Event) bool {
		return levels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	return func(event Event) bool {
		return typeSet[event.Type]
	}
}

// FilterByCellID creates a filter that only allows events for one cell.
func FilterByCellID(cellID string) EventFilter {
	return func(event Event) bool {
		return event.CellID == cellID
	}
}
