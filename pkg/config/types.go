package config

import (
	"github.com/cytoweave/cytoweave/pkg/anatomy"
	"github.com/cytoweave/cytoweave/pkg/telemetry"
)

// Config is the full engine configuration.
type Config struct {
	// Engine holds the injected numeric constants for cells.
	Engine EngineConfig `yaml:"engine"`

	// ProgramsDir is an optional directory of YAML program files loaded
	// into the catalog on startup.
	ProgramsDir string `yaml:"programs_dir,omitempty"`

	// Telemetry configures logging, events, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Organ describes the organ topology to construct.
	Organ OrganConfig `yaml:"organ"`

	// History configures the optional SQLite history store. An empty
	// path disables it.
	History HistoryConfig `yaml:"history,omitempty"`
}

// EngineConfig holds the injected constants the anatomy core consumes.
type EngineConfig struct {
	// CycleCost is the compute-unit's per-cycle power cost.
	CycleCost float64 `yaml:"cycle_cost" validate:"gte=0"`

	// PowerBudget is the per-cell power budget and cap.
	PowerBudget float64 `yaml:"power_budget" validate:"gte=0"`

	// PowerRecharge is restored after each paid cycle.
	PowerRecharge float64 `yaml:"power_recharge" validate:"gte=0"`

	// MemoryCapacity is the memory-pool's initial entry capacity.
	MemoryCapacity int `yaml:"memory_capacity" validate:"gte=0"`

	// CoherenceMax bounds the coherence counter.
	CoherenceMax float64 `yaml:"coherence_max" validate:"gte=0"`

	// CoherenceDecay is subtracted from coherence per paid cycle.
	CoherenceDecay float64 `yaml:"coherence_decay" validate:"gte=0"`

	// CoherenceWarn is the warning threshold for coherence events.
	CoherenceWarn float64 `yaml:"coherence_warn" validate:"gte=0"`

	// MaxCellsPerTissue caps tissue size.
	MaxCellsPerTissue int `yaml:"max_cells_per_tissue" validate:"gt=0"`

	// MaxParallel bounds the tissue fan-out worker count.
	MaxParallel int `yaml:"max_parallel" validate:"gt=0"`
}

// Tuning converts the engine constants to the anatomy core's shape.
func (e EngineConfig) Tuning() anatomy.Tuning {
	return anatomy.Tuning{
		CycleCost:      e.CycleCost,
		PowerBudget:    e.PowerBudget,
		PowerRecharge:  e.PowerRecharge,
		MemoryCapacity: e.MemoryCapacity,
		CoherenceMax:   e.CoherenceMax,
		CoherenceDecay: e.CoherenceDecay,
		CoherenceWarn:  e.CoherenceWarn,
	}
}

// TelemetryConfig is the YAML shape of the telemetry configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Events  EventsConfig  `yaml:"events"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `yaml:"format" validate:"oneof=console json"`
	Output string `yaml:"output"`
}

// EventsConfig configures the event channel.
type EventsConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"buffer_size" validate:"gte=0"`
	Async      bool `yaml:"async"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address" validate:"required_if=Enabled true"`
	Path          string `yaml:"path"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter" validate:"omitempty,oneof=otlp stdout none"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate" validate:"gte=0,lte=1"`
}

// Telemetry converts the YAML shape to the telemetry package's config.
func (t TelemetryConfig) Telemetry(serviceName, serviceVersion, environment string) *telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceName = serviceName
	cfg.ServiceVersion = serviceVersion
	cfg.Environment = environment

	if t.Logging.Level != "" {
		cfg.Logging.Level = t.Logging.Level
	}
	if t.Logging.Format != "" {
		cfg.Logging.Format = t.Logging.Format
	}
	if t.Logging.Output != "" {
		cfg.Logging.Output = t.Logging.Output
	}

	cfg.Events.Enabled = t.Events.Enabled
	if t.Events.BufferSize > 0 {
		cfg.Events.BufferSize = t.Events.BufferSize
	}
	cfg.Events.EnableAsync = t.Events.Async

	cfg.Metrics.Enabled = t.Metrics.Enabled
	if t.Metrics.ListenAddress != "" {
		cfg.Metrics.ListenAddress = t.Metrics.ListenAddress
	}
	if t.Metrics.Path != "" {
		cfg.Metrics.Path = t.Metrics.Path
	}

	cfg.Tracing.Enabled = t.Tracing.Enabled
	if t.Tracing.Exporter != "" {
		cfg.Tracing.Exporter = t.Tracing.Exporter
	}
	cfg.Tracing.Endpoint = t.Tracing.Endpoint
	if t.Tracing.SamplingRate > 0 {
		cfg.Tracing.SamplingRate = t.Tracing.SamplingRate
	}

	return cfg
}

// OrganConfig describes the organ topology to construct at startup.
type OrganConfig struct {
	// Name is the organ's name.
	Name string `yaml:"name" validate:"required"`

	// Tissues are the member tissues in declaration order.
	Tissues []TissueConfig `yaml:"tissues" validate:"dive"`
}

// TissueConfig describes one tissue.
type TissueConfig struct {
	// ID is the tissue identifier.
	ID string `yaml:"id" validate:"required"`

	// Program names the catalog program all member cells start with.
	Program string `yaml:"program" validate:"required"`

	// Cells is the number of member cells.
	Cells int `yaml:"cells" validate:"gt=0"`
}

// HistoryConfig configures the optional SQLite history store.
type HistoryConfig struct {
	// Path is the SQLite database path; empty disables the store.
	Path string `yaml:"path,omitempty"`
}
