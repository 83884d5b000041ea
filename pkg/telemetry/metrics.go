package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the cytoweave engine. A disabled
// instance is a no-op: every record method checks for nil collectors.
type Metrics struct {
	config MetricsConfig

	// Cycle metrics
	cyclesCompleted *prometheus.CounterVec
	cyclesSkipped   *prometheus.CounterVec
	cycleDuration   prometheus.Histogram

	// Reconfiguration metrics
	programsApplied *prometheus.CounterVec
	unknownSegments prometheus.Counter

	// Storage metrics
	storageRejects prometheus.Counter

	// Cell state metrics
	powerLevel     *prometheus.GaugeVec
	coherenceLevel *prometheus.GaugeVec

	// Tissue metrics
	tissueRunDuration *prometheus.HistogramVec

	registry *prometheus.Registry
	server   *http.Server
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		cyclesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_completed_total",
				Help:      "Total number of paid execution cycles",
			},
			[]string{"tissue"},
		),
		cyclesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_skipped_total",
				Help:      "Total number of no-op cycles by reason",
			},
			[]string{"reason"},
		),
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Duration of single cell cycles in seconds",
				Buckets:   buckets,
			},
		),
		programsApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "programs_applied_total",
				Help:      "Total number of reconfiguration passes by program",
			},
			[]string{"program"},
		),
		unknownSegments: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unknown_segments_total",
				Help:      "Total number of segments that compiled to empty directives",
			},
		),
		storageRejects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_rejects_total",
				Help:      "Total number of memory-pool writes rejected at capacity",
			},
		),
		powerLevel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cell_power_level",
				Help:      "Current power level per cell",
			},
			[]string{"cell"},
		),
		coherenceLevel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cell_coherence_level",
				Help:      "Current coherence level per cell",
			},
			[]string{"cell"},
		),
		tissueRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tissue_run_duration_seconds",
				Help:      "Duration of tissue-level runs in seconds",
				Buckets:   buckets,
			},
			[]string{"tissue"},
		),
	}

	registry.MustRegister(
		m.cyclesCompleted,
		m.cyclesSkipped,
		m.cycleDuration,
		m.programsApplied,
		m.unknownSegments,
		m.storageRejects,
		m.powerLevel,
		m.coherenceLevel,
		m.tissueRunDuration,
	)

	return m, nil
}

// RecordCycleCompleted records a paid cycle for a tissue.
func (m *Metrics) RecordCycleCompleted(tissue string, duration time.Duration) {
	if m.cyclesCompleted == nil {
		return
	}
	m.cyclesCompleted.WithLabelValues(tissue).Inc()
	m.cycleDuration.Observe(duration.Seconds())
}

// RecordCycleSkipped records a no-op cycle by reason.
func (m *Metrics) RecordCycleSkipped(reason string) {
	if m.cyclesSkipped == nil {
		return
	}
	m.cyclesSkipped.WithLabelValues(reason).Inc()
}

// RecordProgramApplied records a reconfiguration pass.
func (m *Metrics) RecordProgramApplied(program string) {
	if m.programsApplied == nil {
		return
	}
	m.programsApplied.WithLabelValues(program).Inc()
}

// RecordUnknownSegment records a segment compiled to an empty directive.
func (m *Metrics) RecordUnknownSegment() {
	if m.unknownSegments == nil {
		return
	}
	m.unknownSegments.Inc()
}

// RecordStorageReject records a memory-pool write rejected at capacity.
func (m *Metrics) RecordStorageReject() {
	if m.storageRejects == nil {
		return
	}
	m.storageRejects.Inc()
}

// SetCellLevels records a cell's current power and coherence levels.
func (m *Metrics) SetCellLevels(cell string, power, coherence float64) {
	if m.powerLevel == nil {
		return
	}
	m.powerLevel.WithLabelValues(cell).Set(power)
	m.coherenceLevel.WithLabelValues(cell).Set(coherence)
}

// RecordTissueRun records the duration of one tissue-level run.
func (m *Metrics) RecordTissueRun(tissue string, duration time.Duration) {
	if m.tissueRunDuration == nil {
		return
	}
	m.tissueRunDuration.WithLabelValues(tissue).Observe(duration.Seconds())
}

// ObserveEvents subscribes the metrics collector to an event publisher so
// the trace channel drives the counters without the core knowing about
// Prometheus.
func (m *Metrics) ObserveEvents(ep *EventPublisher) {
	ep.Subscribe(func(event Event) {
		switch event.Type {
		case EventTypeCycleCompleted:
			m.RecordCycleCompleted(event.TissueID, 0)
		case EventTypeCycleSkipped:
			if reason, ok := event.Data["reason"].(string); ok {
				m.RecordCycleSkipped(reason)
			}
		case EventTypeProgramApplied:
			m.RecordProgramApplied(event.Program)
		case EventTypeSegmentUnknown:
			m.RecordUnknownSegment()
		case EventTypeStorageRejected:
			m.RecordStorageReject()
		}
	}, nil)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server in the background.
func (m *Metrics) StartServer() error {
	if !m.config.Enabled {
		return nil
	}

	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	m.server = &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = m.server.ListenAndServe()
	}()

	return nil
}

// Shutdown stops the metrics HTTP server.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
